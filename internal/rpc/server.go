// Package rpc exposes the codec as a gRPC service and provides its client.
package rpc

import (
	"context"
	"strconv"

	"github.com/observe-l/fecchan/fecframe"
	"github.com/observe-l/fecchan/internal/codec"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Metadata keys. Request: method and factor. Decode response header: the rest.
const (
	MDMethod        = "x-fec-method"
	MDFactor        = "x-fec-factor"
	MDSourceBits    = "x-fec-source-bits"
	MDCorrected     = "x-fec-corrected"
	MDUncorrectable = "x-fec-uncorrectable"
	MDTruncated     = "x-fec-truncated"
)

// Server implements CodecServer on top of a codec.Service.
type Server struct {
	svc *codec.Service
}

var _ CodecServer = (*Server)(nil)

func NewServer(svc *codec.Service) *Server { return &Server{svc: svc} }

// Register attaches the service to s.
func (s *Server) Register(g *grpc.Server) { RegisterCodecServer(g, s) }

func (s *Server) Encode(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	method, err := fecframe.ParseMethod(first(md, MDMethod))
	if err != nil {
		return nil, toStatus(err)
	}
	factor, err := strconv.Atoi(first(md, MDFactor))
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%s: %v", MDFactor, err)
	}
	frame, err := s.svc.Encode(method, factor, in.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.Bytes(frame), nil
}

func (s *Server) Decode(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	res, err := s.svc.Decode(in.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	_ = grpc.SetHeader(ctx, metadata.Pairs(
		MDMethod, res.Header.Method.String(),
		MDFactor, strconv.Itoa(int(res.Header.Factor)),
		MDSourceBits, strconv.FormatUint(uint64(res.Header.SourceLength), 10),
		MDCorrected, strconv.Itoa(res.Stats.Corrected),
		MDUncorrectable, strconv.Itoa(res.Stats.Uncorrectable),
		MDTruncated, strconv.FormatBool(res.Stats.Truncated),
	))
	return wrapperspb.Bytes(res.Data), nil
}

func first(md metadata.MD, key string) string {
	if v := md.Get(key); len(v) > 0 {
		return v[0]
	}
	return ""
}

func toStatus(err error) error {
	switch {
	case codec.IsClientError(err):
		return status.Error(codes.InvalidArgument, err.Error())
	case codec.IsFrameError(err):
		return status.Error(codes.DataLoss, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
