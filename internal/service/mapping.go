package service

import (
	"github.com/godilite/feedback-analyzer/internal/repository/models"
	"github.com/godilite/feedback-analyzer/internal/sentiment"
)

func toRunModel(r RunReport) models.AnalysisRun {
	words := make([]models.WordFrequency, len(r.Summary.TopWords))
	for i, w := range r.Summary.TopWords {
		words[i] = models.WordFrequency{Word: w.Word, Count: w.Count}
	}
	return models.AnalysisRun{
		RunID:           r.ID,
		StartedAt:       r.StartedAt,
		FinishedAt:      r.FinishedAt,
		Processed:       r.Summary.Total,
		Excluded:        r.Summary.Excluded,
		Skipped:         r.Summary.Skipped,
		Positive:        r.Summary.Counts[sentiment.Positive],
		Negative:        r.Summary.Counts[sentiment.Negative],
		Neutral:         r.Summary.Counts[sentiment.Neutral],
		RatedCount:      r.Summary.RatedCount,
		AverageRating:   r.Summary.AverageRating,
		SuggestionCount: r.Summary.SuggestionCount,
		TopWords:        words,
	}
}

func fromRunModel(m models.AnalysisRun) RunReport {
	words := make([]WordCount, len(m.TopWords))
	for i, w := range m.TopWords {
		words[i] = WordCount{Word: w.Word, Count: w.Count}
	}
	return RunReport{
		ID:         m.RunID,
		StartedAt:  m.StartedAt,
		FinishedAt: m.FinishedAt,
		Summary: BatchSummary{
			Total: m.Processed,
			Counts: map[sentiment.Verdict]int{
				sentiment.Positive: m.Positive,
				sentiment.Negative: m.Negative,
				sentiment.Neutral:  m.Neutral,
			},
			TopWords:        words,
			RatedCount:      m.RatedCount,
			AverageRating:   m.AverageRating,
			SuggestionCount: m.SuggestionCount,
			Excluded:        m.Excluded,
			Skipped:         m.Skipped,
		},
	}
}

func toResultModels(runID string, records []OutputRecord) []models.AnalysisResult {
	out := make([]models.AnalysisResult, len(records))
	for i, r := range records {
		out[i] = models.AnalysisResult{
			RunID:           runID,
			FeedbackID:      r.ID,
			ProcessedAt:     r.ProcessedAt,
			Name:            r.Name,
			Email:           r.Email,
			Phone:           r.Phone,
			Rating:          r.Rating,
			Feedback:        r.Feedback,
			Sentiment:       string(r.Verdict),
			Criterion:       string(r.Criterion),
			Keywords:        r.Keywords,
			MatchedTerms:    r.MatchedTerms,
			Status:          r.Status,
			SubmittedAt:     r.SubmittedAt,
			Suggestion:      r.Suggestion,
			HasSuggestion:   r.HasSuggestion,
			SuggestionTerms: r.SuggestionTerms,
		}
	}
	return out
}

func fromResultModel(m models.AnalysisResult) OutputRecord {
	return OutputRecord{
		ProcessedAt:     m.ProcessedAt,
		ID:              m.FeedbackID,
		Name:            m.Name,
		Email:           m.Email,
		Phone:           m.Phone,
		Rating:          m.Rating,
		Feedback:        m.Feedback,
		Verdict:         sentiment.Verdict(m.Sentiment),
		Criterion:       sentiment.Criterion(m.Criterion),
		MatchedTerms:    m.MatchedTerms,
		Keywords:        m.Keywords,
		Status:          m.Status,
		SubmittedAt:     m.SubmittedAt,
		Suggestion:      m.Suggestion,
		HasSuggestion:   m.HasSuggestion,
		SuggestionTerms: m.SuggestionTerms,
	}
}
