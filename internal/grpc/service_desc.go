package grpc

import (
	"context"

	grpcgo "google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	FeedbackAnalysisServiceName = "feedback.v1.FeedbackAnalysis"

	FeedbackAnalysis_Classify_FullMethodName         = "/feedback.v1.FeedbackAnalysis/Classify"
	FeedbackAnalysis_GetLatestSummary_FullMethodName = "/feedback.v1.FeedbackAnalysis/GetLatestSummary"
	FeedbackAnalysis_ListResults_FullMethodName      = "/feedback.v1.FeedbackAnalysis/ListResults"
)

// FeedbackAnalysisServer is the server API for the FeedbackAnalysis service.
// Requests and responses are google.protobuf.Struct documents.
type FeedbackAnalysisServer interface {
	Classify(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetLatestSummary(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListResults(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func RegisterFeedbackAnalysisServer(s grpcgo.ServiceRegistrar, srv FeedbackAnalysisServer) {
	s.RegisterService(&FeedbackAnalysis_ServiceDesc, srv)
}

func unaryHandler(
	fullMethod string,
	call func(FeedbackAnalysisServer, context.Context, *structpb.Struct) (*structpb.Struct, error),
) grpcgo.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpcgo.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(FeedbackAnalysisServer), ctx, in)
		}
		info := &grpcgo.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(FeedbackAnalysisServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var FeedbackAnalysis_ServiceDesc = grpcgo.ServiceDesc{
	ServiceName: FeedbackAnalysisServiceName,
	HandlerType: (*FeedbackAnalysisServer)(nil),
	Methods: []grpcgo.MethodDesc{
		{
			MethodName: "Classify",
			Handler:    unaryHandler(FeedbackAnalysis_Classify_FullMethodName, FeedbackAnalysisServer.Classify),
		},
		{
			MethodName: "GetLatestSummary",
			Handler:    unaryHandler(FeedbackAnalysis_GetLatestSummary_FullMethodName, FeedbackAnalysisServer.GetLatestSummary),
		},
		{
			MethodName: "ListResults",
			Handler:    unaryHandler(FeedbackAnalysis_ListResults_FullMethodName, FeedbackAnalysisServer.ListResults),
		},
	},
	Streams: []grpcgo.StreamDesc{},
}

// FeedbackAnalysisClient is the client API for the FeedbackAnalysis service.
type FeedbackAnalysisClient struct {
	cc grpcgo.ClientConnInterface
}

func NewFeedbackAnalysisClient(cc grpcgo.ClientConnInterface) *FeedbackAnalysisClient {
	return &FeedbackAnalysisClient{cc: cc}
}

func (c *FeedbackAnalysisClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpcgo.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *FeedbackAnalysisClient) Classify(ctx context.Context, in *structpb.Struct, opts ...grpcgo.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, FeedbackAnalysis_Classify_FullMethodName, in, opts...)
}

func (c *FeedbackAnalysisClient) GetLatestSummary(ctx context.Context, in *structpb.Struct, opts ...grpcgo.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, FeedbackAnalysis_GetLatestSummary_FullMethodName, in, opts...)
}

func (c *FeedbackAnalysisClient) ListResults(ctx context.Context, in *structpb.Struct, opts ...grpcgo.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, FeedbackAnalysis_ListResults_FullMethodName, in, opts...)
}
