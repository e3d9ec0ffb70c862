package channel

import (
	"math"
	"math/bits"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBSCBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, p := range []float64{-0.1, 1.5, math.NaN()} {
		_, err := NewBSC(p, rng)
		assert.Error(t, err, "p=%v", p)
	}
	_, err := NewBSC(0.1, nil)
	assert.Error(t, err)
}

func TestBSCExtremes(t *testing.T) {
	frame := []byte{0x00, 0xFF, 0xAC}
	clean, err := NewBSC(0, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	out, flips := clean.Transmit(frame)
	assert.Equal(t, frame, out)
	assert.Zero(t, flips)

	all, err := NewBSC(1, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	out, flips = all.Transmit(frame)
	assert.Equal(t, []byte{0xFF, 0x00, 0x53}, out)
	assert.Equal(t, 24, flips)
	assert.Equal(t, []byte{0x00, 0xFF, 0xAC}, frame)
}

func TestBSCFlipRate(t *testing.T) {
	c, err := NewBSC(0.05, rand.New(rand.NewSource(2)))
	require.NoError(t, err)
	frame := make([]byte, 20000)
	out, flips := c.Transmit(frame)
	ones := 0
	for _, b := range out {
		ones += bits.OnesCount8(b)
	}
	assert.Equal(t, flips, ones)
	assert.InDelta(t, 0.05, float64(flips)/float64(len(frame)*8), 0.005)
}

func TestBSCDeterministicSeed(t *testing.T) {
	a, _ := NewBSC(0.3, rand.New(rand.NewSource(9)))
	b, _ := NewBSC(0.3, rand.New(rand.NewSource(9)))
	assert.Equal(t, a.Pattern(64), b.Pattern(64))
}
