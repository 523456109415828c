package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

var testInfo = &grpc.UnaryServerInfo{FullMethod: "/feedback.v1.FeedbackAnalysis/Classify"}

func TestLoggingInterceptor(t *testing.T) {
	interceptor := LoggingInterceptor(zaptest.NewLogger(t))

	t.Run("successful request", func(t *testing.T) {
		resp, err := interceptor(context.Background(), "req", testInfo, func(ctx context.Context, req any) (any, error) {
			return "success", nil
		})

		require.NoError(t, err)
		assert.Equal(t, "success", resp)
	})

	t.Run("error request keeps status", func(t *testing.T) {
		_, err := interceptor(context.Background(), "req", testInfo, func(ctx context.Context, req any) (any, error) {
			return nil, status.Error(codes.InvalidArgument, "test error")
		})

		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})
}

func TestRecoveryInterceptor(t *testing.T) {
	interceptor := RecoveryInterceptor(zaptest.NewLogger(t))

	_, err := interceptor(context.Background(), "req", testInfo, func(ctx context.Context, req any) (any, error) {
		panic("nil map write")
	})

	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestNew_InvalidPort(t *testing.T) {
	_, err := New(WithPort(70000))

	assert.Error(t, err)
}

func TestServerHealthOverBufconn(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	srv, err := New(
		WithListener(lis),
		WithLogger(zaptest.NewLogger(t)),
		WithLogging(true),
		WithReflection(true),
	)
	require.NoError(t, err)

	srv.RegisterServiceWithHealth("feedback.v1.FeedbackAnalysis", func(s *grpc.Server) {})
	srv.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		assert.NoError(t, srv.Shutdown(ctx))
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client := healthpb.NewHealthClient(conn)

	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)

	resp, err = client.Check(ctx, &healthpb.HealthCheckRequest{Service: "feedback.v1.FeedbackAnalysis"})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)

	srv.SetServiceHealth("feedback.v1.FeedbackAnalysis", healthpb.HealthCheckResponse_NOT_SERVING)
	resp, err = client.Check(ctx, &healthpb.HealthCheckRequest{Service: "feedback.v1.FeedbackAnalysis"})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.Status)
}
