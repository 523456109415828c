package mocks

import (
	"context"
	"errors"

	"github.com/godilite/feedback-analyzer/internal/service"
)

// MockAnalysisReader is a mock implementation of the AnalysisReader interface
// for testing the handler layer. It uses function-based mocking for flexibility.
type MockAnalysisReader struct {
	LatestRunFunc   func(ctx context.Context) (service.RunReport, error)
	ListResultsFunc func(ctx context.Context, limit int) ([]service.OutputRecord, error)
}

// LatestRun implements the AnalysisReader interface
func (m *MockAnalysisReader) LatestRun(ctx context.Context) (service.RunReport, error) {
	if m.LatestRunFunc != nil {
		return m.LatestRunFunc(ctx)
	}
	return service.RunReport{}, errors.New("LatestRunFunc not implemented")
}

// ListResults implements the AnalysisReader interface
func (m *MockAnalysisReader) ListResults(ctx context.Context, limit int) ([]service.OutputRecord, error) {
	if m.ListResultsFunc != nil {
		return m.ListResultsFunc(ctx, limit)
	}
	return nil, errors.New("ListResultsFunc not implemented")
}

// MockClassifier is a mock implementation of the Classifier interface.
type MockClassifier struct {
	ClassifyFunc func(raw service.RawFeedbackRecord) (service.OutputRecord, error)
}

// Classify implements the Classifier interface
func (m *MockClassifier) Classify(raw service.RawFeedbackRecord) (service.OutputRecord, error) {
	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(raw)
	}
	return service.OutputRecord{}, errors.New("ClassifyFunc not implemented")
}
