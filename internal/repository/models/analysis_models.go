package models

import "time"

type WordFrequency struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// AnalysisRun is one persisted pipeline run.
type AnalysisRun struct {
	RunID           string
	StartedAt       time.Time
	FinishedAt      time.Time
	Processed       int
	Excluded        int
	Skipped         int
	Positive        int
	Negative        int
	Neutral         int
	RatedCount      int
	AverageRating   float64
	SuggestionCount int
	TopWords        []WordFrequency
}

// AnalysisResult is one classified feedback row of the latest run.
type AnalysisResult struct {
	RunID           string
	FeedbackID      int
	ProcessedAt     time.Time
	Name            string
	Email           string
	Phone           string
	Rating          string
	Feedback        string
	Sentiment       string
	Criterion       string
	Keywords        string
	MatchedTerms    []string
	Status          string
	SubmittedAt     string
	Suggestion      string
	HasSuggestion   bool
	SuggestionTerms []string
}
