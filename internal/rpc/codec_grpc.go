package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Fully qualified method names of the fecchan.v1.Codec service.
const (
	CodecEncodeFullMethodName = "/fecchan.v1.Codec/Encode"
	CodecDecodeFullMethodName = "/fecchan.v1.Codec/Decode"
)

// CodecServer is the server API for the Codec service. Payloads and frames
// travel as BytesValue; parameters and diagnostics travel as metadata.
type CodecServer interface {
	Encode(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	Decode(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
}

// RegisterCodecServer registers srv on s.
func RegisterCodecServer(s grpc.ServiceRegistrar, srv CodecServer) {
	s.RegisterService(&Codec_ServiceDesc, srv)
}

func _Codec_Encode_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CodecServer).Encode(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: CodecEncodeFullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CodecServer).Encode(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _Codec_Decode_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CodecServer).Decode(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: CodecDecodeFullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CodecServer).Decode(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

// Codec_ServiceDesc is the grpc.ServiceDesc for the Codec service.
var Codec_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "fecchan.v1.Codec",
	HandlerType: (*CodecServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Encode", Handler: _Codec_Encode_Handler},
		{MethodName: "Decode", Handler: _Codec_Decode_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "fecchan/v1/codec.proto",
}
