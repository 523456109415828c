package mocks

import (
	"context"
	"errors"

	"github.com/godilite/feedback-analyzer/internal/repository/models"
)

// MockResultRepository is a mock implementation of the ResultRepository interface
// for testing the service layer.
type MockResultRepository struct {
	ReplaceResultsFunc func(ctx context.Context, run models.AnalysisRun, results []models.AnalysisResult) error
	LatestRunFunc      func(ctx context.Context) (models.AnalysisRun, error)
	ListResultsFunc    func(ctx context.Context, limit int) ([]models.AnalysisResult, error)
}

// ReplaceResults implements the ResultRepository interface
func (m *MockResultRepository) ReplaceResults(ctx context.Context, run models.AnalysisRun, results []models.AnalysisResult) error {
	if m.ReplaceResultsFunc != nil {
		return m.ReplaceResultsFunc(ctx, run, results)
	}
	return errors.New("ReplaceResultsFunc not implemented")
}

// LatestRun implements the ResultRepository interface
func (m *MockResultRepository) LatestRun(ctx context.Context) (models.AnalysisRun, error) {
	if m.LatestRunFunc != nil {
		return m.LatestRunFunc(ctx)
	}
	return models.AnalysisRun{}, errors.New("LatestRunFunc not implemented")
}

// ListResults implements the ResultRepository interface
func (m *MockResultRepository) ListResults(ctx context.Context, limit int) ([]models.AnalysisResult, error) {
	if m.ListResultsFunc != nil {
		return m.ListResultsFunc(ctx, limit)
	}
	return nil, errors.New("ListResultsFunc not implemented")
}
