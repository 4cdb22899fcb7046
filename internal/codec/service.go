package codec

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	serviceName = "persona.embedding.v1.EmbeddingService"
	embedMethod = "/" + serviceName + "/Embed"
)

// The wire messages are well-known types: the request is a ListValue of
// strings and the response a ListValue of ListValues of numbers.

// #region server

// EmbeddingServer is the server-side API of the embedding service.
type EmbeddingServer interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// EmbedFunc adapts a function to EmbeddingServer.
type EmbedFunc func(ctx context.Context, texts []string) ([][]float64, error)

// Embed calls f.
func (f EmbedFunc) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	return f(ctx, texts)
}

// RegisterEmbeddingServer registers srv on s.
func RegisterEmbeddingServer(s grpc.ServiceRegistrar, srv EmbeddingServer) {
	s.RegisterService(&embeddingServiceDesc, srv)
}

var embeddingServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*EmbeddingServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Embed", Handler: embedHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "persona/embedding/v1/embedding.proto",
}

func embedHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.ListValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	call := func(ctx context.Context, req any) (any, error) {
		texts, err := decodeTexts(req.(*structpb.ListValue))
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		vectors, err := srv.(EmbeddingServer).Embed(ctx, texts)
		if err != nil {
			if _, ok := status.FromError(err); ok {
				return nil, err
			}
			return nil, status.Error(codes.Internal, err.Error())
		}
		return encodeVectors(vectors), nil
	}
	if interceptor == nil {
		return call(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: embedMethod}
	return interceptor(ctx, in, info, call)
}

// #endregion server

// #region wire

var errWireFormat = errors.New("unexpected wire value")

func encodeTexts(texts []string) (*structpb.ListValue, error) {
	values := make([]any, len(texts))
	for i, t := range texts {
		values[i] = t
	}
	return structpb.NewList(values)
}

func decodeTexts(l *structpb.ListValue) ([]string, error) {
	out := make([]string, len(l.GetValues()))
	for i, v := range l.GetValues() {
		s, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, fmt.Errorf("text %d: %w", i, errWireFormat)
		}
		out[i] = s.StringValue
	}
	return out, nil
}

func encodeVectors(vectors [][]float64) *structpb.ListValue {
	rows := make([]*structpb.Value, len(vectors))
	for i, vec := range vectors {
		nums := make([]*structpb.Value, len(vec))
		for j, x := range vec {
			nums[j] = structpb.NewNumberValue(x)
		}
		rows[i] = structpb.NewListValue(&structpb.ListValue{Values: nums})
	}
	return &structpb.ListValue{Values: rows}
}

func decodeVectors(l *structpb.ListValue) ([][]float64, error) {
	out := make([][]float64, len(l.GetValues()))
	for i, row := range l.GetValues() {
		inner := row.GetListValue()
		if inner == nil {
			return nil, fmt.Errorf("vector %d: %w", i, errWireFormat)
		}
		vec := make([]float64, len(inner.GetValues()))
		for j, v := range inner.GetValues() {
			n, ok := v.GetKind().(*structpb.Value_NumberValue)
			if !ok {
				return nil, fmt.Errorf("vector %d component %d: %w", i, j, errWireFormat)
			}
			vec[j] = n.NumberValue
		}
		out[i] = vec
	}
	return out, nil
}

// #endregion wire
