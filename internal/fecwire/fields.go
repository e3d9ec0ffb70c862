// Package fecwire packs fixed-width unsigned fields into bit sequences,
// most significant bit first. Bits are stored one per byte (0 or 1).
package fecwire

import "errors"

var errShort = errors.New("fecwire: not enough bits")

// AppendUint appends the low width bits of v to dst, MSB first.
func AppendUint(dst []uint8, v uint64, width int) []uint8 {
	if width < 0 || width > 64 {
		panic("fecwire: bad field width")
	}
	for i := width - 1; i >= 0; i-- {
		dst = append(dst, uint8(v>>uint(i))&1)
	}
	return dst
}

// Uint reads a width-bit field from the front of bits.
func Uint(bits []uint8, width int) (uint64, error) {
	if width < 0 || width > 64 {
		panic("fecwire: bad field width")
	}
	if len(bits) < width {
		return 0, errShort
	}
	var v uint64
	for _, b := range bits[:width] {
		v = v<<1 | uint64(b&1)
	}
	return v, nil
}

// Reader consumes consecutive fields from a bit sequence.
type Reader struct {
	bits []uint8
	off  int
}

func NewReader(bits []uint8) *Reader { return &Reader{bits: bits} }

// Uint reads the next width-bit field.
func (r *Reader) Uint(width int) (uint64, error) {
	v, err := Uint(r.bits[r.off:], width)
	if err != nil {
		return 0, err
	}
	r.off += width
	return v, nil
}

// Remaining returns the bits not yet consumed.
func (r *Reader) Remaining() []uint8 { return r.bits[r.off:] }
