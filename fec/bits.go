package fec

import (
	"errors"
	"strings"
)

// Bits is an ordered bit sequence, one bit per element (0 or 1).
// Its length is exact and independent of any block or byte padding.
type Bits []uint8

// BytesToBits unpacks buf most-significant bit first.
func BytesToBits(buf []byte) Bits {
	out := make(Bits, len(buf)*8)
	for i, b := range buf {
		for k := 0; k < 8; k++ {
			out[i*8+k] = (b >> uint(7-k)) & 1
		}
	}
	return out
}

// BitsToBytes packs bits most-significant bit first. A partial final byte is
// completed with zero bits; that padding is for storage alignment only.
func BitsToBytes(bits Bits) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b != 0 {
			out[i>>3] |= 1 << uint(7-i&7)
		}
	}
	return out
}

// PadToBlock appends zero bits until len is a multiple of blockSize and
// returns the padded copy together with the number of bits added.
func PadToBlock(bits Bits, blockSize int) (Bits, int) {
	if blockSize <= 0 {
		panic("fec: block size must be positive")
	}
	pad := 0
	if r := len(bits) % blockSize; r != 0 {
		pad = blockSize - r
	}
	out := make(Bits, len(bits)+pad)
	copy(out, bits)
	return out, pad
}

// Truncate drops every bit past exactLength.
func Truncate(bits Bits, exactLength int) Bits {
	if exactLength < 0 {
		exactLength = 0
	}
	if exactLength >= len(bits) {
		return bits
	}
	return bits[:exactLength]
}

// ParseBits reads a string of '0' and '1'; spaces and underscores are ignored.
func ParseBits(s string) (Bits, error) {
	out := make(Bits, 0, len(s))
	for _, c := range s {
		switch c {
		case '0':
			out = append(out, 0)
		case '1':
			out = append(out, 1)
		case ' ', '_':
		default:
			return nil, errors.New("fec: bit string may only contain 0 and 1")
		}
	}
	return out, nil
}

func (b Bits) String() string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, v := range b {
		if v != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
