// Package fecframe builds and parses self-describing FEC frames: a 144-bit
// repetition-protected header followed by the coded payload.
package fecframe

import (
	"fmt"
	"strings"

	"github.com/observe-l/fecchan/fec"
	"github.com/observe-l/fecchan/internal/fecwire"
)

// Method selects the payload coder. The value is the 8-bit tag on the wire.
type Method uint8

const (
	MethodRepetition  Method = 0
	MethodLinearBlock Method = 1
)

// Header layout: method(8) ‖ factor(8) ‖ sourceLength(32), repeated 3 times per bit.
const (
	headerFieldBits = 8 + 8 + 32
	headerFactor    = 3
	HeaderBits      = headerFieldBits * headerFactor
	MaxSourceBits   = 1<<32 - 1
	headerDecodeOp  = "decode-header"
)

// Valid reports whether m is a known method tag.
func (m Method) Valid() bool { return m == MethodRepetition || m == MethodLinearBlock }

func (m Method) String() string {
	switch m {
	case MethodRepetition:
		return "repetition"
	case MethodLinearBlock:
		return "linear"
	default:
		return fmt.Sprintf("method(%d)", uint8(m))
	}
}

// ParseMethod accepts the CLI and API spellings of a method.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rep", "repetition", "0":
		return MethodRepetition, nil
	case "lin", "linear", "linear_block", "1":
		return MethodLinearBlock, nil
	}
	return 0, fec.Errorf(fec.KindUnsupportedParameter, "parse-method", "unknown method %q", s)
}

// Header is the frame metadata. SourceLength is the exact unpadded payload length in bits.
type Header struct {
	Method       Method
	Factor       uint8
	SourceLength uint32
}

func (h Header) String() string {
	return fmt.Sprintf("method=%s factor=%d source_bits=%d", h.Method, h.Factor, h.SourceLength)
}

// EncodeHeader serializes h into exactly HeaderBits bits.
func EncodeHeader(h Header) fec.Bits {
	raw := make([]uint8, 0, headerFieldBits)
	raw = fecwire.AppendUint(raw, uint64(h.Method), 8)
	raw = fecwire.AppendUint(raw, uint64(h.Factor), 8)
	raw = fecwire.AppendUint(raw, uint64(h.SourceLength), 32)
	out, err := fec.RepetitionEncode(raw, headerFactor)
	if err != nil {
		panic("fecframe: " + err.Error())
	}
	return out
}

// DecodeHeader majority-votes the first HeaderBits bits of frame and parses
// the fields. It does not check that the method or factor are usable.
func DecodeHeader(frame fec.Bits) (Header, error) {
	if len(frame) < HeaderBits {
		return Header{}, fec.Errorf(fec.KindHeaderCorrupt, headerDecodeOp, "frame has %d bits, need %d", len(frame), HeaderBits)
	}
	raw, _, err := fec.RepetitionDecode(frame[:HeaderBits], headerFactor)
	if err != nil {
		return Header{}, err
	}
	r := fecwire.NewReader(raw)
	method, _ := r.Uint(8)
	factor, _ := r.Uint(8)
	length, _ := r.Uint(32)
	return Header{Method: Method(method), Factor: uint8(factor), SourceLength: uint32(length)}, nil
}

// PeekHeader decodes and sanity-checks the header of a byte frame without
// touching the payload.
func PeekHeader(frame []byte) (Header, error) {
	h, err := DecodeHeader(fec.BytesToBits(frame))
	if err != nil {
		return Header{}, err
	}
	if !h.Method.Valid() {
		return Header{}, fec.Errorf(fec.KindHeaderCorrupt, headerDecodeOp, "unknown method tag %d", uint8(h.Method))
	}
	return h, nil
}
