package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/godilite/feedback-analyzer/internal/grpc/mocks"
	"github.com/godilite/feedback-analyzer/internal/sentiment"
	"github.com/godilite/feedback-analyzer/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	grpcgo "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

func startBufconnServer(t *testing.T, srv FeedbackAnalysisServer, opts ...grpcgo.ServerOption) *FeedbackAnalysisClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	s := grpcgo.NewServer(opts...)
	RegisterFeedbackAnalysisServer(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpcgo.NewClient("passthrough:///bufnet",
		grpcgo.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpcgo.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewFeedbackAnalysisClient(conn)
}

func TestFeedbackAnalysis_RoundTrip(t *testing.T) {
	classifier := &mocks.MockClassifier{
		ClassifyFunc: func(raw service.RawFeedbackRecord) (service.OutputRecord, error) {
			return service.OutputRecord{Verdict: sentiment.Neutral, Criterion: sentiment.NoIndicator, Keywords: sentiment.NoKeywords}, nil
		},
	}
	reader := &mocks.MockAnalysisReader{
		LatestRunFunc: func(ctx context.Context) (service.RunReport, error) {
			return service.RunReport{}, service.ErrNoResults
		},
		ListResultsFunc: func(ctx context.Context, limit int) ([]service.OutputRecord, error) {
			return []service.OutputRecord{{ID: 1, Verdict: sentiment.Positive}}, nil
		},
	}
	client := startBufconnServer(t, NewFeedbackHandlers(classifier, reader, nil, zap.NewNop(), time.Minute))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	in, err := structpb.NewStruct(map[string]any{"feedback": "Chegou no prazo"})
	require.NoError(t, err)

	resp, err := client.Classify(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "neutral", resp.AsMap()["verdict"])
	assert.Equal(t, "no_indicator", resp.AsMap()["criterion"])

	_, err = client.GetLatestSummary(ctx, &structpb.Struct{})
	assert.Equal(t, codes.NotFound, status.Code(err))

	list, err := client.ListResults(ctx, &structpb.Struct{})
	require.NoError(t, err)
	assert.Len(t, list.AsMap()["results"], 1)
}

func TestFeedbackAnalysis_InterceptorSeesFullMethod(t *testing.T) {
	var seen []string
	interceptor := func(ctx context.Context, req any, info *grpcgo.UnaryServerInfo, handler grpcgo.UnaryHandler) (any, error) {
		seen = append(seen, info.FullMethod)
		return handler(ctx, req)
	}
	classifier := &mocks.MockClassifier{
		ClassifyFunc: func(raw service.RawFeedbackRecord) (service.OutputRecord, error) {
			return service.OutputRecord{Verdict: sentiment.Positive}, nil
		},
	}
	client := startBufconnServer(t,
		NewFeedbackHandlers(classifier, &mocks.MockAnalysisReader{}, nil, zap.NewNop(), time.Minute),
		grpcgo.UnaryInterceptor(interceptor))

	in, err := structpb.NewStruct(map[string]any{"feedback": "bom"})
	require.NoError(t, err)

	_, err = client.Classify(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, []string{FeedbackAnalysis_Classify_FullMethodName}, seen)
}
