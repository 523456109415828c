package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	health "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const defaultPort = 50051

type Option func(*options)

type options struct {
	port       int
	logger     *zap.Logger
	reflection bool
	logging    bool
	listener   net.Listener
}

func WithPort(port int) Option {
	return func(o *options) { o.port = port }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithReflection registers the reflection service used by grpcurl.
func WithReflection(enabled bool) Option {
	return func(o *options) { o.reflection = enabled }
}

// WithLogging adds a request log line after recovery in the chain.
func WithLogging(enabled bool) Option {
	return func(o *options) { o.logging = enabled }
}

// WithListener serves on lis instead of opening a TCP port.
func WithListener(lis net.Listener) Option {
	return func(o *options) { o.listener = lis }
}

// Server is the gRPC front of the analyzer: one grpc.Server plus the
// standard health service.
type Server struct {
	grpcServer *grpc.Server
	lis        net.Listener
	logger     *zap.Logger
	health     *health.Server
}

func New(opts ...Option) (*Server, error) {
	o := &options{port: defaultPort}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	lis := o.listener
	if lis == nil {
		if o.port < 1 || o.port > 65535 {
			return nil, fmt.Errorf("invalid port %d: must be between 1 and 65535", o.port)
		}
		var err error
		if lis, err = net.Listen("tcp", fmt.Sprintf(":%d", o.port)); err != nil {
			return nil, fmt.Errorf("failed to listen on port %d: %w", o.port, err)
		}
	}

	// Recovery stays first in the chain.
	chain := []grpc.UnaryServerInterceptor{RecoveryInterceptor(o.logger)}
	if o.logging {
		chain = append(chain, LoggingInterceptor(o.logger))
	}
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(chain...))

	if o.reflection {
		reflection.Register(grpcServer)
	}

	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	return &Server{
		grpcServer: grpcServer,
		lis:        lis,
		logger:     o.logger.Named("grpc-server"),
		health:     hs,
	}, nil
}

// RegisterServiceWithHealth calls register on the underlying server and
// reports serviceName as SERVING.
func (s *Server) RegisterServiceWithHealth(serviceName string, register func(*grpc.Server)) {
	register(s.grpcServer)
	if serviceName == "" {
		return
	}
	s.health.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
	s.logger.Info("registered service", zap.String("service", serviceName))
}

func (s *Server) SetServiceHealth(serviceName string, status healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus(serviceName, status)
	s.logger.Info("service health changed",
		zap.String("service", serviceName),
		zap.Stringer("status", status))
}

// Start serves in the background and returns immediately.
func (s *Server) Start() {
	addr := s.lis.Addr().String()
	s.logger.Info("gRPC server starting", zap.String("addr", addr))

	go func() {
		if err := s.grpcServer.Serve(s.lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			s.logger.Error("gRPC server failed", zap.String("addr", addr), zap.Error(err))
		}
	}()
}

// Shutdown drains in-flight calls and falls back to a hard stop when ctx
// expires first.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("gRPC server shutting down")

	// Marks every registered service NOT_SERVING and ignores later updates.
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("gRPC server stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("forced shutdown due to timeout")
		s.grpcServer.Stop()
		return ctx.Err()
	}
}
