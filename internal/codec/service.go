// Package codec wraps the frame pipeline with logging and metrics for the
// network front ends.
package codec

import (
	"errors"
	"time"

	"github.com/observe-l/fecchan/fec"
	"github.com/observe-l/fecchan/fecframe"
	"github.com/observe-l/fecchan/internal/log"
	"github.com/observe-l/fecchan/internal/metrics"
)

// Service encodes and decodes frames. It is safe for concurrent use.
type Service struct {
	enc     *fecframe.Encoder
	dec     *fecframe.Decoder
	metrics *metrics.Collector
	log     *log.Logger
}

// Options configure a Service. Metrics and Logger may be nil.
type Options struct {
	Catalog *fec.Catalog
	Tail    fecframe.TailPolicy
	Metrics *metrics.Collector
	Logger  *log.Logger
}

func New(opts Options) *Service {
	s := &Service{metrics: opts.Metrics, log: opts.Logger}
	if s.log == nil {
		s.log = log.NewLogger("codec")
	}
	fo := fecframe.Options{Catalog: opts.Catalog, Tail: opts.Tail}
	if opts.Metrics != nil {
		fo.Observer = opts.Metrics
	}
	s.enc = fecframe.NewEncoder(fo)
	s.dec = fecframe.NewDecoder(fo)
	return s
}

// Encode builds a frame from data.
func (s *Service) Encode(method fecframe.Method, factor int, data []byte) ([]byte, error) {
	start := time.Now()
	frame, err := s.enc.Encode(method, data, factor)
	s.done("encode", start, err)
	if err != nil {
		s.log.WithError(err).WithField("method", method.String()).WithField("factor", factor).Warn("encode failed")
		return nil, err
	}
	s.log.WithField("method", method.String()).
		WithField("factor", factor).
		WithField("source_bits", len(data)*8).
		WithField("frame_bytes", len(frame)).
		Debug("encoded frame")
	return frame, nil
}

// Decode parses frame.
func (s *Service) Decode(frame []byte) (*fecframe.Result, error) {
	start := time.Now()
	res, err := s.dec.Decode(frame)
	s.done("decode", start, err)
	if err != nil {
		s.log.WithError(err).WithField("frame_bytes", len(frame)).Warn("decode failed")
		return nil, err
	}
	entry := s.log.WithField("method", res.Header.Method.String()).
		WithField("factor", res.Header.Factor).
		WithField("source_bits", res.Header.SourceLength).
		WithField("corrected", res.Stats.Corrected).
		WithField("uncorrectable", res.Stats.Uncorrectable)
	if res.Stats.Truncated {
		entry.Warn("decoded truncated frame")
	} else {
		entry.Debug("decoded frame")
	}
	return res, nil
}

func (s *Service) done(op string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveDuration(op, start)
	if err != nil {
		s.metrics.RecordError(op, err)
	}
}

// IsClientError reports whether err was caused by the request parameters
// rather than the frame contents.
func IsClientError(err error) bool {
	return errors.Is(err, fec.ErrUnsupportedFactor) || errors.Is(err, fec.ErrUnsupportedParameter)
}

// IsFrameError reports whether err means the frame itself is unusable.
func IsFrameError(err error) bool {
	return errors.Is(err, fec.ErrHeaderCorrupt) || errors.Is(err, fec.ErrTruncatedTail)
}
