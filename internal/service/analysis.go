package service

import (
	"context"
	"fmt"
	"time"

	"github.com/godilite/feedback-analyzer/internal/metrics"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

const (
	sourceTimeout = 30 * time.Second
	dbTimeout     = 5 * time.Second
	sinkTimeout   = 15 * time.Second
)

// AnalysisService runs the fetch, classify and persist cycle and serves the
// latest results.
type AnalysisService struct {
	source    RecordSource
	storage   ResultRepository
	pipeline  *FeedbackPipeline
	exporters []Exporter
	publisher ResultPublisher
	clock     clockwork.Clock
	logger    *zap.Logger
}

type Option func(*AnalysisService)

// WithExporters adds best-effort secondary destinations.
func WithExporters(exporters ...Exporter) Option {
	return func(s *AnalysisService) { s.exporters = append(s.exporters, exporters...) }
}

// WithPublisher streams every successful run to publisher.
func WithPublisher(publisher ResultPublisher) Option {
	return func(s *AnalysisService) { s.publisher = publisher }
}

// WithServiceClock sets the clock used for run timestamps.
func WithServiceClock(clock clockwork.Clock) Option {
	return func(s *AnalysisService) { s.clock = clock }
}

// NewAnalysisService creates a new AnalysisService instance.
func NewAnalysisService(source RecordSource, storage ResultRepository, pipeline *FeedbackPipeline, logger *zap.Logger, opts ...Option) *AnalysisService {
	if source == nil {
		panic("source must not be nil")
	}
	if storage == nil {
		panic("storage must not be nil")
	}
	if pipeline == nil {
		panic("pipeline must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	s := &AnalysisService{
		source:   source,
		storage:  storage,
		pipeline: pipeline,
		clock:    clockwork.NewRealClock(),
		logger:   logger.Named("analysis"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunOnce reads the whole source, classifies it and replaces the stored
// results. An empty batch leaves the previous results untouched.
func (s *AnalysisService) RunOnce(ctx context.Context) (RunReport, error) {
	report := RunReport{ID: uuid.NewString(), StartedAt: s.clock.Now()}
	defer func() {
		metrics.RunDuration.Observe(s.clock.Since(report.StartedAt).Seconds())
	}()

	fetchCtx, cancel := context.WithTimeout(ctx, sourceTimeout)
	records, err := s.source.Fetch(fetchCtx)
	cancel()
	if err != nil {
		metrics.RunsTotal.WithLabelValues(metrics.OutcomeSourceUnavailable).Inc()
		return report, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	out, summary := s.pipeline.Run(records)
	report.Summary = summary
	metrics.ExcludedRecords.Add(float64(summary.Excluded))
	metrics.RecordErrors.Add(float64(summary.Skipped))

	if len(out) == 0 {
		metrics.RunsTotal.WithLabelValues(metrics.OutcomeEmpty).Inc()
		s.logger.Warn("no valid feedback found, keeping previous results",
			zap.String("run_id", report.ID),
			zap.Int("rows", len(records)),
			zap.Int("excluded", summary.Excluded),
			zap.Int("skipped", summary.Skipped))
		return report, ErrEmptyBatch
	}

	report.FinishedAt = s.clock.Now()

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	err = s.storage.ReplaceResults(dbCtx, toRunModel(report), toResultModels(report.ID, out))
	cancel()
	if err != nil {
		metrics.RunsTotal.WithLabelValues(metrics.OutcomeStorageFailure).Inc()
		return report, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.deliver(ctx, report, out)

	metrics.RunsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	metrics.LastRunRecords.Set(float64(len(out)))
	for _, share := range summary.Distribution() {
		metrics.RecordsTotal.WithLabelValues(string(share.Verdict)).Add(float64(share.Count))
	}

	s.logSummary(report)
	return report, nil
}

func (s *AnalysisService) deliver(ctx context.Context, report RunReport, out []OutputRecord) {
	for _, exp := range s.exporters {
		expCtx, cancel := context.WithTimeout(ctx, sinkTimeout)
		if err := exp.Export(expCtx, report, out); err != nil {
			s.logger.Warn("export failed", zap.String("run_id", report.ID), zap.Error(err))
		}
		cancel()
	}

	if s.publisher == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, sinkTimeout)
	defer cancel()
	if err := s.publisher.Publish(pubCtx, report, out); err != nil {
		s.logger.Warn("publish failed", zap.String("run_id", report.ID), zap.Error(err))
	}
}

func (s *AnalysisService) logSummary(report RunReport) {
	sum := report.Summary
	s.logger.Info("analysis run completed",
		zap.String("run_id", report.ID),
		zap.Int("processed", sum.Total),
		zap.Int("excluded", sum.Excluded),
		zap.Int("skipped", sum.Skipped),
		zap.Int("suggestions", sum.SuggestionCount),
		zap.Float64("average_rating", sum.AverageRating),
		zap.Duration("took", report.FinishedAt.Sub(report.StartedAt)))

	for _, share := range sum.Distribution() {
		s.logger.Info("sentiment distribution",
			zap.String("verdict", string(share.Verdict)),
			zap.Int("count", share.Count),
			zap.String("percent", fmt.Sprintf("%.1f%%", share.Percent)))
	}
	for _, w := range sum.TopWords {
		s.logger.Info("frequent word", zap.String("word", w.Word), zap.Int("count", w.Count))
	}
}

// LatestRun returns the report of the most recent stored run.
func (s *AnalysisService) LatestRun(ctx context.Context) (RunReport, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	run, err := s.storage.LatestRun(dbCtx)
	if err != nil {
		return RunReport{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if run.RunID == "" {
		return RunReport{}, ErrNoResults
	}
	return fromRunModel(run), nil
}

// ListResults returns up to limit records of the latest run.
func (s *AnalysisService) ListResults(ctx context.Context, limit int) ([]OutputRecord, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.storage.ListResults(dbCtx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if len(rows) == 0 {
		return nil, ErrNoResults
	}

	out := make([]OutputRecord, len(rows))
	for i, r := range rows {
		out[i] = fromResultModel(r)
	}
	return out, nil
}
