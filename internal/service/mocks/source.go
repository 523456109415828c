package mocks

import (
	"context"
	"errors"

	"github.com/godilite/feedback-analyzer/internal/service"
)

// MockRecordSource is a mock implementation of the RecordSource interface.
type MockRecordSource struct {
	FetchFunc func(ctx context.Context) ([]service.RawFeedbackRecord, error)
}

// Fetch implements the RecordSource interface
func (m *MockRecordSource) Fetch(ctx context.Context) ([]service.RawFeedbackRecord, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx)
	}
	return nil, errors.New("FetchFunc not implemented")
}

// MockSink implements both Exporter and ResultPublisher and records its calls.
type MockSink struct {
	Err   error
	Calls int
	Last  []service.OutputRecord
}

// Export implements the Exporter interface
func (m *MockSink) Export(ctx context.Context, run service.RunReport, records []service.OutputRecord) error {
	m.Calls++
	m.Last = records
	return m.Err
}

// Publish implements the ResultPublisher interface
func (m *MockSink) Publish(ctx context.Context, run service.RunReport, records []service.OutputRecord) error {
	return m.Export(ctx, run, records)
}
