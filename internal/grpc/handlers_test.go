package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/godilite/feedback-analyzer/internal/grpc/mocks"
	"github.com/godilite/feedback-analyzer/internal/sentiment"
	"github.com/godilite/feedback-analyzer/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func sampleReport() service.RunReport {
	return service.RunReport{
		ID:         "run-1",
		StartedAt:  time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2025, 3, 1, 12, 0, 2, 0, time.UTC),
		Summary: service.BatchSummary{
			Total:           3,
			Counts:          map[sentiment.Verdict]int{sentiment.Positive: 2, sentiment.Negative: 1},
			TopWords:        []service.WordCount{{Word: "atendimento", Count: 2}},
			RatedCount:      3,
			AverageRating:   6.5,
			SuggestionCount: 1,
			Excluded:        1,
		},
	}
}

// TestNewFeedbackHandlers tests the constructor
func TestNewFeedbackHandlers(t *testing.T) {
	t.Run("valid parameters", func(t *testing.T) {
		classifier := &mocks.MockClassifier{}
		reader := &mocks.MockAnalysisReader{}
		cache := &mocks.MockCacher{}

		handlers := NewFeedbackHandlers(classifier, reader, cache, zap.NewNop(), 5*time.Minute)

		assert.NotNil(t, handlers)
		assert.Equal(t, reader, handlers.reader)
		assert.Equal(t, cache, handlers.cache)
		assert.Equal(t, 5*time.Minute, handlers.cacheTTL)
	})

	t.Run("nil reader panics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewFeedbackHandlers(&mocks.MockClassifier{}, nil, nil, zap.NewNop(), time.Minute)
		})
	})

	t.Run("nil classifier panics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewFeedbackHandlers(nil, &mocks.MockAnalysisReader{}, nil, zap.NewNop(), time.Minute)
		})
	})

	t.Run("non positive TTL uses default", func(t *testing.T) {
		handlers := NewFeedbackHandlers(&mocks.MockClassifier{}, &mocks.MockAnalysisReader{}, nil, nil, -time.Minute)

		assert.Equal(t, defaultCacheDuration, handlers.cacheTTL)
	})
}

func TestHandleError(t *testing.T) {
	handlers := NewFeedbackHandlers(&mocks.MockClassifier{}, &mocks.MockAnalysisReader{}, nil, zap.NewNop(), time.Minute)

	t.Run("context canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := handlers.handleError(ctx, "op", errors.New("boom"))

		assert.Equal(t, codes.Canceled, status.Code(err))
	})

	t.Run("context deadline exceeded", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
		defer cancel()
		<-ctx.Done()

		err := handlers.handleError(ctx, "op", errors.New("boom"))

		assert.Equal(t, codes.DeadlineExceeded, status.Code(err))
	})

	tests := []struct {
		name string
		err  error
		code codes.Code
	}{
		{"no results", service.ErrNoResults, codes.NotFound},
		{"wrapped storage failure", fmt.Errorf("%w: disk full", service.ErrStorageFailure), codes.Internal},
		{"source unavailable", service.ErrSourceUnavailable, codes.Unavailable},
		{"empty feedback", service.ErrEmptyFeedback, codes.InvalidArgument},
		{"record error", &service.RecordError{Err: errors.New("bad text")}, codes.InvalidArgument},
		{"unknown", errors.New("boom"), codes.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := handlers.handleError(context.Background(), "op", tt.err)

			assert.Equal(t, tt.code, status.Code(err))
		})
	}
}

func TestClassify(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var got service.RawFeedbackRecord
		classifier := &mocks.MockClassifier{
			ClassifyFunc: func(raw service.RawFeedbackRecord) (service.OutputRecord, error) {
				got = raw
				return service.OutputRecord{
					Verdict:         sentiment.Negative,
					Criterion:       sentiment.KeywordMatch,
					MatchedTerms:    []string{"demora", "ruim"},
					Keywords:        "demora, ruim",
					HasSuggestion:   true,
					SuggestionTerms: []string{"deveria"},
				}, nil
			},
		}
		handlers := NewFeedbackHandlers(classifier, &mocks.MockAnalysisReader{}, nil, zap.NewNop(), time.Minute)

		resp, err := handlers.Classify(context.Background(), mustStruct(t, map[string]any{
			"feedback":   "Entrega ruim, muita demora",
			"rating":     2,
			"suggestion": "Deveria ser mais rápido",
		}))

		require.NoError(t, err)
		assert.Equal(t, "2", got.Rating)
		assert.Equal(t, "Deveria ser mais rápido", got.Suggestion)

		fields := resp.AsMap()
		assert.Equal(t, "negative", fields["verdict"])
		assert.Equal(t, "keyword_match", fields["criterion"])
		assert.Equal(t, []any{"demora", "ruim"}, fields["matched_terms"])
		assert.Equal(t, true, fields["has_suggestion"])
		assert.Equal(t, []any{"deveria"}, fields["suggestions"])
	})

	t.Run("missing feedback", func(t *testing.T) {
		handlers := NewFeedbackHandlers(&mocks.MockClassifier{}, &mocks.MockAnalysisReader{}, nil, zap.NewNop(), time.Minute)

		_, err := handlers.Classify(context.Background(), mustStruct(t, map[string]any{"rating": "9"}))

		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})
}

func TestGetLatestSummary(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		reader := &mocks.MockAnalysisReader{
			LatestRunFunc: func(ctx context.Context) (service.RunReport, error) {
				return sampleReport(), nil
			},
		}
		handlers := NewFeedbackHandlers(&mocks.MockClassifier{}, reader, nil, zap.NewNop(), time.Minute)

		resp, err := handlers.GetLatestSummary(context.Background(), &structpb.Struct{})

		require.NoError(t, err)
		fields := resp.AsMap()
		assert.Equal(t, "run-1", fields["run_id"])
		assert.Equal(t, "2025-03-01T12:00:00Z", fields["started_at"])
		assert.Equal(t, float64(3), fields["total"])
		assert.Equal(t, 6.5, fields["average_rating"])

		distribution := fields["distribution"].([]any)
		require.Len(t, distribution, 3)
		first := distribution[0].(map[string]any)
		assert.Equal(t, "positive", first["verdict"])
		assert.Equal(t, float64(2), first["count"])
		assert.Equal(t, 66.7, first["percent"])
	})

	t.Run("no results", func(t *testing.T) {
		reader := &mocks.MockAnalysisReader{
			LatestRunFunc: func(ctx context.Context) (service.RunReport, error) {
				return service.RunReport{}, service.ErrNoResults
			},
		}
		handlers := NewFeedbackHandlers(&mocks.MockClassifier{}, reader, nil, zap.NewNop(), time.Minute)

		_, err := handlers.GetLatestSummary(context.Background(), &structpb.Struct{})

		assert.Equal(t, codes.NotFound, status.Code(err))
	})

	t.Run("served from cache", func(t *testing.T) {
		reader := &mocks.MockAnalysisReader{}
		cache := &mocks.MockCacher{
			GetFunc: func(ctx context.Context, key string, dest any) error {
				assert.Equal(t, string(cacheKeyLatestSummary), key)
				*dest.(*service.RunReport) = sampleReport()
				return nil
			},
		}
		handlers := NewFeedbackHandlers(&mocks.MockClassifier{}, reader, cache, zap.NewNop(), time.Minute)

		resp, err := handlers.GetLatestSummary(context.Background(), &structpb.Struct{})

		require.NoError(t, err)
		assert.Equal(t, "run-1", resp.AsMap()["run_id"])
	})
}

func TestListResults(t *testing.T) {
	records := []service.OutputRecord{
		{ID: 1, Feedback: "Bom", Verdict: sentiment.Positive, Criterion: sentiment.KeywordMatch, SuggestionTerms: []string{}},
		{ID: 2, Feedback: "Ruim", Verdict: sentiment.Negative, Criterion: sentiment.RatingBased},
	}

	t.Run("default limit", func(t *testing.T) {
		var gotLimit int
		reader := &mocks.MockAnalysisReader{
			ListResultsFunc: func(ctx context.Context, limit int) ([]service.OutputRecord, error) {
				gotLimit = limit
				return records, nil
			},
		}
		handlers := NewFeedbackHandlers(&mocks.MockClassifier{}, reader, nil, zap.NewNop(), time.Minute)

		resp, err := handlers.ListResults(context.Background(), &structpb.Struct{})

		require.NoError(t, err)
		assert.Equal(t, defaultListLimit, gotLimit)
		results := resp.AsMap()["results"].([]any)
		require.Len(t, results, 2)
		assert.Equal(t, "rating_based", results[1].(map[string]any)["criterion"])
	})

	t.Run("limit is capped", func(t *testing.T) {
		var gotLimit int
		reader := &mocks.MockAnalysisReader{
			ListResultsFunc: func(ctx context.Context, limit int) ([]service.OutputRecord, error) {
				gotLimit = limit
				return records, nil
			},
		}
		handlers := NewFeedbackHandlers(&mocks.MockClassifier{}, reader, nil, zap.NewNop(), time.Minute)

		_, err := handlers.ListResults(context.Background(), mustStruct(t, map[string]any{"limit": 5000}))

		require.NoError(t, err)
		assert.Equal(t, maxListLimit, gotLimit)
	})

	t.Run("invalid limit", func(t *testing.T) {
		handlers := NewFeedbackHandlers(&mocks.MockClassifier{}, &mocks.MockAnalysisReader{}, nil, zap.NewNop(), time.Minute)

		for _, limit := range []any{-1, 2.5, "ten"} {
			_, err := handlers.ListResults(context.Background(), mustStruct(t, map[string]any{"limit": limit}))
			assert.Equal(t, codes.InvalidArgument, status.Code(err), "limit %v", limit)
		}
	})

	t.Run("storage failure", func(t *testing.T) {
		reader := &mocks.MockAnalysisReader{
			ListResultsFunc: func(ctx context.Context, limit int) ([]service.OutputRecord, error) {
				return nil, fmt.Errorf("%w: locked", service.ErrStorageFailure)
			},
		}
		handlers := NewFeedbackHandlers(&mocks.MockClassifier{}, reader, nil, zap.NewNop(), time.Minute)

		_, err := handlers.ListResults(context.Background(), &structpb.Struct{})

		assert.Equal(t, codes.Internal, status.Code(err))
	})
}
