package grpc

import (
	"context"
	"time"

	"github.com/godilite/feedback-analyzer/internal/service"
)

// Cacher defines the interface for cache operations.
type Cacher interface {
	Close() error
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// AnalysisReader serves the stored results of the latest run.
type AnalysisReader interface {
	LatestRun(ctx context.Context) (service.RunReport, error)
	ListResults(ctx context.Context, limit int) ([]service.OutputRecord, error)
}

// Classifier classifies a single feedback record on demand.
type Classifier interface {
	Classify(raw service.RawFeedbackRecord) (service.OutputRecord, error)
}
