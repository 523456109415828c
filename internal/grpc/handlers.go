package grpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/godilite/feedback-analyzer/internal/service"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	defaultCacheDuration = 30 * time.Second
	defaultGRPCTimeout   = 10 * time.Second

	defaultListLimit = 50
	maxListLimit     = 1000
)

// CacheKeyPrefix is shared by every key the handlers cache.
const CacheKeyPrefix = "grpc:"

type CacheKeyType string

const (
	cacheKeyLatestSummary CacheKeyType = CacheKeyPrefix + "latest_summary"
	cacheKeyResults       CacheKeyType = CacheKeyPrefix + "results"
)

type FeedbackHandlers struct {
	classifier Classifier
	reader     AnalysisReader
	cache      Cacher
	logger     *zap.Logger
	sfGroup    singleflight.Group
	cacheTTL   time.Duration
}

var _ FeedbackAnalysisServer = (*FeedbackHandlers)(nil)

// NewFeedbackHandlers initializes the gRPC handlers. cache may be nil.
func NewFeedbackHandlers(classifier Classifier, reader AnalysisReader, cache Cacher, logger *zap.Logger, ttl time.Duration) *FeedbackHandlers {
	if classifier == nil {
		panic("nil Classifier provided to NewFeedbackHandlers")
	}
	if reader == nil {
		panic("nil AnalysisReader provided to NewFeedbackHandlers")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = defaultCacheDuration
	}
	return &FeedbackHandlers{
		classifier: classifier,
		reader:     reader,
		cache:      cache,
		logger:     logger.Named("grpc-handler"),
		cacheTTL:   ttl,
	}
}

func (s *FeedbackHandlers) handleError(ctx context.Context, op string, err error) error {
	switch ctx.Err() {
	case context.Canceled:
		s.logger.Warn("request canceled", zap.String("op", op))
		return status.Error(codes.Canceled, "request canceled")
	case context.DeadlineExceeded:
		s.logger.Warn("request timeout", zap.String("op", op))
		return status.Error(codes.DeadlineExceeded, "request timed out")
	}

	var recErr *service.RecordError
	switch {
	case errors.Is(err, service.ErrNoResults):
		s.logger.Info("no results stored", zap.String("op", op))
		return status.Error(codes.NotFound, "no analysis results available")
	case errors.Is(err, service.ErrEmptyFeedback):
		return status.Error(codes.InvalidArgument, "feedback is required")
	case errors.As(err, &recErr):
		return status.Errorf(codes.InvalidArgument, "invalid feedback: %v", recErr.Err)
	case errors.Is(err, service.ErrStorageFailure):
		s.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
		return status.Error(codes.Internal, "database error")
	case errors.Is(err, service.ErrSourceUnavailable):
		s.logger.Error("source unavailable", zap.String("op", op), zap.Error(err))
		return status.Error(codes.Unavailable, "feedback source unavailable")
	default:
		s.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		return status.Errorf(codes.Internal, "%s failed: %v", op, err)
	}
}

// Classify runs the classification rules on a single submitted feedback.
func (s *FeedbackHandlers) Classify(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	raw, err := parseClassifyRequest(req)
	if err != nil {
		return nil, err
	}

	rec, err := s.classifier.Classify(raw)
	if err != nil {
		return nil, s.handleError(ctx, "Classify", err)
	}

	return classificationToStruct(rec)
}

func (s *FeedbackHandlers) GetLatestSummary(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	report, err := FindAndCache(ctx, s.cache, &s.sfGroup, string(cacheKeyLatestSummary), s.cacheTTL, s.logger, func(fetchCtx context.Context) (service.RunReport, error) {
		return s.reader.LatestRun(fetchCtx)
	})
	if err != nil {
		return nil, s.handleError(ctx, "GetLatestSummary", err)
	}

	return summaryToStruct(report)
}

func (s *FeedbackHandlers) ListResults(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	limit, err := parseLimit(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	cacheKey := fmt.Sprintf("%s:%d", cacheKeyResults, limit)

	records, err := FindAndCache(ctx, s.cache, &s.sfGroup, cacheKey, s.cacheTTL, s.logger, func(fetchCtx context.Context) ([]service.OutputRecord, error) {
		return s.reader.ListResults(fetchCtx, limit)
	})
	if err != nil {
		return nil, s.handleError(ctx, "ListResults", err)
	}

	return resultsToStruct(records)
}
