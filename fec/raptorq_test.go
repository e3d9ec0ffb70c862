package fec

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRaptorQLossless(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	data := make([]byte, 4000)
	rng.Read(data)

	res, err := RaptorQRoundTrip(data, 256, 4, 0, rng)
	require.NoError(t, err)
	assert.True(t, res.Recovered)
	assert.Zero(t, res.LostSymbols)
	assert.True(t, bytes.Equal(data, res.Data))
	assert.Equal(t, res.SourceSymbols+4, res.SentSymbols)
	assert.Less(t, res.Rate(), 1.0)
}

func TestRaptorQTotalLoss(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	res, err := RaptorQRoundTrip([]byte("erasure reference"), 8, 2, 1, rng)
	require.NoError(t, err)
	assert.False(t, res.Recovered)
	assert.Equal(t, res.SentSymbols, res.LostSymbols)
}

func TestRaptorQBadArgs(t *testing.T) {
	_, err := RaptorQRoundTrip([]byte{1}, 0, 1, 0, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}
