package service

import (
	"context"

	"github.com/godilite/feedback-analyzer/internal/repository/models"
)

// RecordSource reads the current state of the feedback source.
type RecordSource interface {
	Fetch(ctx context.Context) ([]RawFeedbackRecord, error)
}

// ResultRepository defines the storage operations for analysis results.
type ResultRepository interface {
	ReplaceResults(ctx context.Context, run models.AnalysisRun, results []models.AnalysisResult) error
	LatestRun(ctx context.Context) (models.AnalysisRun, error)
	ListResults(ctx context.Context, limit int) ([]models.AnalysisResult, error)
}

// Exporter writes a finished run to a secondary destination.
type Exporter interface {
	Export(ctx context.Context, run RunReport, records []OutputRecord) error
}

// ResultPublisher streams a finished run to downstream consumers.
type ResultPublisher interface {
	Publish(ctx context.Context, run RunReport, records []OutputRecord) error
}
