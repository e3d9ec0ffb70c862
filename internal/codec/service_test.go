package codec

import (
	"bytes"
	"testing"

	"github.com/observe-l/fecchan/fec"
	"github.com/observe-l/fecchan/fecframe"
	"github.com/observe-l/fecchan/internal/log"
	"github.com/observe-l/fecchan/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, tail fecframe.TailPolicy) (*Service, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l, err := log.New("test", log.Options{Level: "debug", Output: &buf})
	require.NoError(t, err)
	return New(Options{Tail: tail, Metrics: metrics.New(prometheus.NewRegistry()), Logger: l}), &buf
}

func TestServiceRoundTrip(t *testing.T) {
	s, logs := newTestService(t, fecframe.DropIncompleteTail)
	frame, err := s.Encode(fecframe.MethodRepetition, 5, []byte("hello"))
	require.NoError(t, err)
	res, err := s.Decode(frame)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), res.Data)
	assert.Contains(t, logs.String(), "decoded frame")
}

func TestServiceErrors(t *testing.T) {
	s, logs := newTestService(t, fecframe.RejectIncompleteTail)
	_, err := s.Encode(fecframe.MethodLinearBlock, 8, []byte("x"))
	assert.True(t, IsClientError(err))
	assert.False(t, IsFrameError(err))

	frame, err := s.Encode(fecframe.MethodLinearBlock, 4, []byte("truncate me"))
	require.NoError(t, err)
	_, err = s.Decode(frame[:len(frame)-4])
	assert.ErrorIs(t, err, fec.ErrTruncatedTail)
	assert.True(t, IsFrameError(err))
	assert.Contains(t, logs.String(), "decode failed")
}

func TestServiceNilDependencies(t *testing.T) {
	s := New(Options{})
	frame, err := s.Encode(fecframe.MethodLinearBlock, 5, []byte{0xAC})
	require.NoError(t, err)
	_, err = s.Decode(frame)
	require.NoError(t, err)
}
