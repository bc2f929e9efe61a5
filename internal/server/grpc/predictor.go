package grpc

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ekisa-team/defaultrisk/internal/mapsafe"
	"github.com/ekisa-team/defaultrisk/internal/service"
)

const (
	// PredictorServiceName is the fully qualified gRPC service name.
	PredictorServiceName = "defaultrisk.v1.Predictor"

	// PredictMethod is the full method name of the unary Predict call.
	PredictMethod = "/" + PredictorServiceName + "/Predict"
)

// Predictor turns one feature vector into one prediction.
type Predictor interface {
	Predict(ctx context.Context, features []float64) (*service.Result, error)
}

// PredictorServer is the server API of the Predictor service. Requests and
// responses are google.protobuf.Struct values shaped like the HTTP bodies.
type PredictorServer interface {
	Predict(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// predictorServiceDesc describes the Predictor service without generated
// code; Struct messages are already registered with the protobuf runtime.
var predictorServiceDesc = grpc.ServiceDesc{
	ServiceName: PredictorServiceName,
	HandlerType: (*PredictorServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Predict",
			Handler:    predictHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "defaultrisk/v1/predictor.proto",
}

func predictHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(PredictorServer).Predict(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: PredictMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PredictorServer).Predict(ctx, req.(*structpb.Struct))
	}

	return interceptor(ctx, in, info, handler)
}

// predictorServer adapts a Predictor to PredictorServer.
type predictorServer struct {
	service Predictor
}

// Predict validates the request shape and runs the prediction.
func (s *predictorServer) Predict(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	features, ok := mapsafe.Float64s(req.AsMap(), "features")
	if !ok || len(features) == 0 {
		return nil, status.Error(codes.InvalidArgument, "features must be a non-empty list of numbers")
	}

	result, err := s.service.Predict(ctx, features)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to predict", "error", err, "n_features", len(features), "transport", "grpc")
		if errors.Is(err, context.Canceled) {
			return nil, status.Error(codes.Canceled, "request canceled")
		}
		return nil, status.Error(codes.Internal, "internal error")
	}

	out, err := structpb.NewStruct(map[string]any{
		"prediction":          result.Prediction,
		"default_probability": result.DefaultProbability,
	})
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to encode response")
	}

	return out, nil
}
