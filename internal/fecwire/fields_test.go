package fecwire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendUintMSBFirst(t *testing.T) {
	bits := AppendUint(nil, 0b1011, 4)
	assert.Equal(t, []uint8{1, 0, 1, 1}, bits)
	bits = AppendUint(bits, 3, 8)
	assert.Equal(t, []uint8{1, 0, 1, 1, 0, 0, 0, 0, 0, 0, 1, 1}, bits)
}

func TestReaderFields(t *testing.T) {
	var bits []uint8
	bits = AppendUint(bits, 1, 8)
	bits = AppendUint(bits, 5, 8)
	bits = AppendUint(bits, 0xDEADBEEF, 32)
	bits = append(bits, 1)

	r := NewReader(bits)
	for _, want := range []struct {
		v     uint64
		width int
	}{{1, 8}, {5, 8}, {0xDEADBEEF, 32}} {
		v, err := r.Uint(want.width)
		require.NoError(t, err)
		assert.Equal(t, want.v, v)
	}
	assert.Equal(t, []uint8{1}, r.Remaining())

	_, err := r.Uint(2)
	assert.Error(t, err)
	assert.Equal(t, []uint8{1}, r.Remaining())
}

func TestBadWidthPanics(t *testing.T) {
	assert.Panics(t, func() { AppendUint(nil, 0, 65) })
	assert.Panics(t, func() { _, _ = Uint(nil, -1) })
}
