package rpc

import (
	"context"
	"fmt"
	"strconv"

	"github.com/observe-l/fecchan/fecframe"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client calls a remote Codec service.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client { return &Client{cc: cc} }

// Encode asks the server to frame data.
func (c *Client) Encode(ctx context.Context, method fecframe.Method, factor int, data []byte) ([]byte, error) {
	ctx = metadata.AppendToOutgoingContext(ctx, MDMethod, method.String(), MDFactor, strconv.Itoa(factor))
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, CodecEncodeFullMethodName, wrapperspb.Bytes(data), out); err != nil {
		return nil, err
	}
	return out.GetValue(), nil
}

// Decode asks the server to decode frame. Only Header, Data and the
// correction counters of the result are filled in.
func (c *Client) Decode(ctx context.Context, frame []byte) (*fecframe.Result, error) {
	var md metadata.MD
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, CodecDecodeFullMethodName, wrapperspb.Bytes(frame), out, grpc.Header(&md)); err != nil {
		return nil, err
	}
	res := &fecframe.Result{Data: out.GetValue()}
	var err error
	if res.Header.Method, err = fecframe.ParseMethod(first(md, MDMethod)); err != nil {
		return nil, fmt.Errorf("rpc: response header: %w", err)
	}
	factor, err := strconv.ParseUint(first(md, MDFactor), 10, 8)
	if err != nil {
		return nil, fmt.Errorf("rpc: response %s: %w", MDFactor, err)
	}
	res.Header.Factor = uint8(factor)
	length, err := strconv.ParseUint(first(md, MDSourceBits), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("rpc: response %s: %w", MDSourceBits, err)
	}
	res.Header.SourceLength = uint32(length)
	res.Stats.Corrected, _ = strconv.Atoi(first(md, MDCorrected))
	res.Stats.Uncorrectable, _ = strconv.Atoi(first(md, MDUncorrectable))
	res.Stats.Truncated, _ = strconv.ParseBool(first(md, MDTruncated))
	return res, nil
}
