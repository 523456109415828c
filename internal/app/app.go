package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/godilite/feedback-analyzer/internal/config"
	"github.com/godilite/feedback-analyzer/internal/export"
	handler "github.com/godilite/feedback-analyzer/internal/grpc"
	"github.com/godilite/feedback-analyzer/internal/publisher"
	"github.com/godilite/feedback-analyzer/internal/repository"
	"github.com/godilite/feedback-analyzer/internal/service"
	"github.com/godilite/feedback-analyzer/internal/source"
	"github.com/godilite/feedback-analyzer/pkg/cache"
	dbbuilder "github.com/godilite/feedback-analyzer/pkg/database"
	grpcsrv "github.com/godilite/feedback-analyzer/pkg/grpc/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go.uber.org/zap"
	"google.golang.org/grpc"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	dbPool        *sql.DB
	results       *repository.ResultRepository
	cache         *cache.Cache
	publisher     *publisher.KafkaPublisher
	grpcServer    *grpcsrv.Server
	metricsServer *http.Server
	scheduler     *Scheduler
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	lexicon, err := cfg.Lexicon()
	if err != nil {
		return nil, fmt.Errorf("lexicon init failed: %w", err)
	}

	src, err := source.Open(cfg.SourcePath, cfg.SourceSheet, source.DefaultMapping(), logger)
	if err != nil {
		return nil, fmt.Errorf("source init failed: %w", err)
	}

	a := &App{cfg: cfg, logger: logger}

	a.dbPool, err = dbbuilder.New(ctx,
		dbbuilder.WithDriver(cfg.DBDriver),
		dbbuilder.WithDataSource(cfg.DBPath),
		dbbuilder.WithSchema(repository.Schema...),
	)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	logger.Info("Database pool initialized", zap.String("driver", cfg.DBDriver), zap.String("path", cfg.DBPath))

	var cacher handler.Cacher
	if cfg.RedisAddr != "" {
		a.cache, err = cache.New(ctx, cache.WithAddress(cfg.RedisAddr))
		if err != nil {
			a.close()
			return nil, fmt.Errorf("cache init failed: %w", err)
		}
		cacher = a.cache
		logger.Info("Cache client initialized", zap.String("addr", cfg.RedisAddr))
	}

	var opts []service.Option
	if cfg.ExportXLSXPath != "" {
		opts = append(opts, service.WithExporters(export.NewXLSXExporter(cfg.ExportXLSXPath, logger)))
	}
	if len(cfg.KafkaBrokers) > 0 {
		a.publisher = publisher.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaResultsTopic, cfg.KafkaSummaryTopic, logger)
		opts = append(opts, service.WithPublisher(a.publisher))
		logger.Info("Kafka publisher initialized", zap.Strings("brokers", cfg.KafkaBrokers))
	}

	a.results = repository.NewResultRepository(a.dbPool, cfg.DBDriver)
	pipeline := service.NewFeedbackPipeline(lexicon, logger, service.WithTopWords(cfg.TopWords))
	analysis := service.NewAnalysisService(src, a.results, pipeline, logger, opts...)

	var hooks []RunHook
	if a.cache != nil {
		hooks = append(hooks, a.invalidateCache)
	}
	a.scheduler = NewScheduler(analysis, cfg.PollInterval, logger, WithRunHooks(hooks...))

	if cfg.RunMode == config.RunModeOnce {
		return a, nil
	}

	grpcHandlers := handler.NewFeedbackHandlers(pipeline, analysis, cacher, logger, cfg.CacheTTL)

	a.grpcServer, err = grpcsrv.New(
		grpcsrv.WithPort(cfg.GRPCPort),
		grpcsrv.WithLogger(logger),
		grpcsrv.WithLogging(true),
		grpcsrv.WithReflection(cfg.GRPCReflectionEnabled),
	)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to create gRPC server: %w", err)
	}

	a.grpcServer.RegisterServiceWithHealth(handler.FeedbackAnalysisServiceName, func(s *grpc.Server) {
		handler.RegisterFeedbackAnalysisServer(s, grpcHandlers)
	})

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		a.metricsServer = &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	return a, nil
}

func (a *App) invalidateCache(ctx context.Context, report service.RunReport) {
	if err := a.cache.Invalidate(ctx, handler.CacheKeyPrefix); err != nil {
		a.logger.Warn("cache invalidation failed", zap.String("run_id", report.ID), zap.Error(err))
	}
}

// Run starts the application and blocks until a shutdown signal is received.
// In once mode it performs a single analysis pass and returns its error.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer a.close()

	if a.cfg.RunMode == config.RunModeOnce {
		a.logger.Info("running single analysis pass", zap.String("source", a.cfg.SourcePath))
		return a.scheduler.RunOnce(ctx)
	}

	a.logger.Info("application starting", zap.String("source", a.cfg.SourcePath))
	a.logStoredResults(ctx)

	a.grpcServer.Start()

	if a.metricsServer != nil {
		go func() {
			a.logger.Info("metrics server starting", zap.String("addr", a.metricsServer.Addr))
			if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("metrics server failed", zap.Error(err))
			}
		}()
	}

	a.scheduler.Run(ctx)

	a.logger.Info("application shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.grpcServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("gRPC shutdown error", zap.Error(err))
	}
	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("metrics shutdown error", zap.Error(err))
		}
	}

	if shutdownCtx.Err() == context.DeadlineExceeded {
		a.logger.Warn("shutdown completed but deadline exceeded")
	} else {
		a.logger.Info("graceful shutdown completed successfully")
	}
	return nil
}

func (a *App) logStoredResults(ctx context.Context) {
	dist, err := a.results.SentimentDistribution(ctx)
	if err != nil {
		a.logger.Warn("could not read stored results", zap.Error(err))
		return
	}
	if len(dist) == 0 {
		return
	}
	fields := make([]zap.Field, 0, len(dist))
	for verdict, n := range dist {
		fields = append(fields, zap.Int(verdict, n))
	}
	a.logger.Info("resuming with stored results", fields...)
}

func (a *App) close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("kafka shutdown error", zap.Error(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("cache shutdown error", zap.Error(err))
		}
	}
	if a.dbPool != nil {
		if err := a.dbPool.Close(); err != nil {
			a.logger.Error("database shutdown error", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
