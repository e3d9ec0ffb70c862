package fecframe

import (
	"testing"

	"github.com/observe-l/fecchan/fec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	for _, h := range []Header{
		{MethodRepetition, 3, 8},
		{MethodLinearBlock, 5, 0},
		{MethodLinearBlock, 4, MaxSourceBits},
	} {
		bits := EncodeHeader(h)
		require.Len(t, bits, HeaderBits)
		got, err := DecodeHeader(bits)
		require.NoError(t, err)
		assert.Equal(t, h, got)
	}
}

func TestHeaderSurvivesOneFlipPerGroup(t *testing.T) {
	h := Header{MethodLinearBlock, 3, 0xA5A5F00F}
	for off := 0; off < headerFactor; off++ {
		bits := EncodeHeader(h)
		for g := 0; g < headerFieldBits; g++ {
			bits[g*headerFactor+off] ^= 1
		}
		got, err := DecodeHeader(bits)
		require.NoError(t, err)
		assert.Equal(t, h, got, "offset %d", off)
	}
}

func TestHeaderLayout(t *testing.T) {
	bits := EncodeHeader(Header{MethodLinearBlock, 3, 1})
	raw, _, err := fec.RepetitionDecode(bits, 3)
	require.NoError(t, err)
	assert.Equal(t, "00000001"+"00000011"+"00000000000000000000000000000001", raw.String())
}

func TestDecodeHeaderShort(t *testing.T) {
	_, err := DecodeHeader(make(fec.Bits, HeaderBits-1))
	assert.ErrorIs(t, err, fec.ErrHeaderCorrupt)
	_, err = PeekHeader(nil)
	assert.ErrorIs(t, err, fec.ErrHeaderCorrupt)
}

func TestPeekHeaderRejectsUnknownMethod(t *testing.T) {
	frame := fec.BitsToBytes(EncodeHeader(Header{Method: 7, Factor: 3}))
	_, err := PeekHeader(frame)
	assert.ErrorIs(t, err, fec.ErrHeaderCorrupt)
}

func TestParseMethod(t *testing.T) {
	for in, want := range map[string]Method{
		"rep": MethodRepetition, "Repetition": MethodRepetition, "0": MethodRepetition,
		"lin": MethodLinearBlock, "linear": MethodLinearBlock, " 1 ": MethodLinearBlock,
	} {
		m, err := ParseMethod(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, m, in)
	}
	_, err := ParseMethod("huffman")
	assert.ErrorIs(t, err, fec.ErrUnsupportedParameter)
	assert.Equal(t, "method(9)", Method(9).String())
}
