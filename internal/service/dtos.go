package service

import (
	"time"

	"github.com/godilite/feedback-analyzer/internal/sentiment"
)

const (
	StatusSuccess = "success"

	condensedFeedbackLen = 200
)

// OutputColumns is the persisted column layout, in order.
var OutputColumns = []string{
	"processed_at", "feedback_id", "name", "email", "phone", "rating", "feedback",
	"sentiment", "criterion", "keywords", "status", "submitted_at",
}

// RawFeedbackRecord is one source row after schema mapping. Unmapped fields
// are empty. Err is set by the reader when the row could not be mapped.
type RawFeedbackRecord struct {
	Row         int
	Name        string
	Email       string
	Phone       string
	Rating      string
	Feedback    string
	Suggestion  string
	SubmittedAt string
	Err         error
}

type OutputRecord struct {
	ProcessedAt     time.Time           `json:"processed_at"`
	ID              int                 `json:"id"`
	Name            string              `json:"name"`
	Email           string              `json:"email"`
	Phone           string              `json:"phone"`
	Rating          string              `json:"rating"`
	Feedback        string              `json:"feedback"`
	Verdict         sentiment.Verdict   `json:"verdict"`
	Criterion       sentiment.Criterion `json:"criterion"`
	MatchedTerms    []string            `json:"matched_terms"`
	Keywords        string              `json:"keywords"`
	Status          string              `json:"status"`
	SubmittedAt     string              `json:"submitted_at"`
	Suggestion      string              `json:"suggestion"`
	HasSuggestion   bool                `json:"has_suggestion"`
	SuggestionTerms []string            `json:"suggestion_terms"`
}

// CondensedFeedback returns the feedback text cut to 200 characters.
func (o OutputRecord) CondensedFeedback() string {
	return truncate(o.Feedback, condensedFeedbackLen)
}

// Row renders the record in OutputColumns order. The feedback column holds
// the full text when full is true and the condensed form otherwise.
func (o OutputRecord) Row(full bool) []string {
	feedback := o.Feedback
	if !full {
		feedback = o.CondensedFeedback()
	}
	return []string{
		o.ProcessedAt.Format("2006-01-02 15:04:05"),
		itoa(o.ID),
		o.Name,
		o.Email,
		o.Phone,
		o.Rating,
		feedback,
		string(o.Verdict),
		string(o.Criterion),
		o.Keywords,
		o.Status,
		o.SubmittedAt,
	}
}

type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

type VerdictShare struct {
	Verdict sentiment.Verdict `json:"verdict"`
	Count   int               `json:"count"`
	Percent float64           `json:"percent"`
}

// BatchSummary aggregates one run. Counts and word frequencies only cover
// emitted records; Excluded and Skipped report what was left out.
type BatchSummary struct {
	Total           int                       `json:"total"`
	Counts          map[sentiment.Verdict]int `json:"counts"`
	TopWords        []WordCount               `json:"top_words"`
	RatedCount      int                       `json:"rated_count"`
	AverageRating   float64                   `json:"average_rating"`
	SuggestionCount int                       `json:"suggestion_count"`
	Excluded        int                       `json:"excluded"`
	Skipped         int                       `json:"skipped"`
}

// Distribution returns count and percentage per verdict in reporting order.
func (s BatchSummary) Distribution() []VerdictShare {
	out := make([]VerdictShare, 0, len(sentiment.Verdicts))
	for _, v := range sentiment.Verdicts {
		share := VerdictShare{Verdict: v, Count: s.Counts[v]}
		if s.Total > 0 {
			share.Percent = float64(share.Count) / float64(s.Total) * 100
		}
		out = append(out, share)
	}
	return out
}

type RunReport struct {
	ID         string       `json:"id"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Summary    BatchSummary `json:"summary"`
}
