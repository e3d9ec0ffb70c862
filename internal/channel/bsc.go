// Package channel simulates a binary symmetric channel over byte buffers.
package channel

import (
	"fmt"
	"math"
	"math/bits"
	"math/rand"
)

// BSC flips every bit independently with probability P.
type BSC struct {
	p   float64
	rng *rand.Rand
}

// NewBSC returns a channel with flip probability p in [0, 1].
func NewBSC(p float64, rng *rand.Rand) (*BSC, error) {
	if p < 0 || p > 1 || math.IsNaN(p) {
		return nil, fmt.Errorf("channel: flip probability %v out of [0,1]", p)
	}
	if rng == nil {
		return nil, fmt.Errorf("channel: nil rng")
	}
	return &BSC{p: p, rng: rng}, nil
}

// P returns the flip probability.
func (c *BSC) P() float64 { return c.p }

func (c *BSC) flip() bool {
	if c.p <= 0 {
		return false
	}
	if c.p >= 1 {
		return true
	}
	return c.rng.Float64() < c.p
}

// Pattern returns n noise bytes; a set bit marks a flip.
func (c *BSC) Pattern(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		var b byte
		for k := 7; k >= 0; k-- {
			if c.flip() {
				b |= 1 << uint(k)
			}
		}
		out[i] = b
	}
	return out
}

// Transmit returns a noisy copy of frame and the number of flipped bits.
func (c *BSC) Transmit(frame []byte) ([]byte, int) {
	noise := c.Pattern(len(frame))
	flips := 0
	for i := range noise {
		flips += bits.OnesCount8(noise[i])
		noise[i] ^= frame[i]
	}
	return noise, flips
}
