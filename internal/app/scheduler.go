package app

import (
	"context"
	"errors"
	"time"

	"github.com/godilite/feedback-analyzer/internal/service"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Runner performs one full analysis pass.
type Runner interface {
	RunOnce(ctx context.Context) (service.RunReport, error)
}

// RunHook is called after every successful run.
type RunHook func(ctx context.Context, report service.RunReport)

// Scheduler runs the analysis immediately and then on every tick until its
// context is cancelled. A failed run never stops the loop.
type Scheduler struct {
	runner   Runner
	interval time.Duration
	clock    clockwork.Clock
	logger   *zap.Logger
	hooks    []RunHook
}

type SchedulerOption func(*Scheduler)

func WithSchedulerClock(clock clockwork.Clock) SchedulerOption {
	return func(s *Scheduler) { s.clock = clock }
}

// WithRunHooks registers hooks run after each successful pass.
func WithRunHooks(hooks ...RunHook) SchedulerOption {
	return func(s *Scheduler) { s.hooks = append(s.hooks, hooks...) }
}

func NewScheduler(runner Runner, interval time.Duration, logger *zap.Logger, opts ...SchedulerOption) *Scheduler {
	if runner == nil {
		panic("runner must not be nil")
	}
	if interval <= 0 {
		panic("scheduler interval must be positive")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		runner:   runner,
		interval: interval,
		clock:    clockwork.NewRealClock(),
		logger:   logger.Named("scheduler"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run blocks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("monitoring started", zap.Duration("interval", s.interval))

	s.tick(ctx)

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			s.tick(ctx)
		case <-ctx.Done():
			s.logger.Info("monitoring stopped")
			return
		}
	}
}

// RunOnce performs a single pass and returns its error.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	return s.tick(ctx)
}

func (s *Scheduler) tick(ctx context.Context) error {
	report, err := s.runner.RunOnce(ctx)
	switch {
	case err == nil:
		for _, hook := range s.hooks {
			hook(ctx, report)
		}
	case errors.Is(err, service.ErrEmptyBatch):
		s.logger.Info("nothing to analyse yet", zap.String("run_id", report.ID))
	case ctx.Err() != nil:
		s.logger.Debug("run interrupted", zap.Error(err))
	default:
		s.logger.Error("analysis run failed", zap.String("run_id", report.ID), zap.Error(err))
	}
	return err
}
