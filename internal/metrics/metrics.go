// Package metrics exports codec activity as Prometheus collectors.
package metrics

import (
	"time"

	"github.com/observe-l/fecchan/fec"
	"github.com/observe-l/fecchan/fecframe"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds all codec metrics. It implements fecframe.Observer.
type Collector struct {
	framesEncoded       *prometheus.CounterVec
	framesDecoded       *prometheus.CounterVec
	blocksCorrected     *prometheus.CounterVec
	blocksUncorrectable *prometheus.CounterVec
	truncatedFrames     prometheus.Counter
	codecErrors         *prometheus.CounterVec
	operationDuration   *prometheus.HistogramVec
	frameBits           prometheus.Histogram
}

var _ fecframe.Observer = (*Collector)(nil)

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		framesEncoded: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fecchan_frames_encoded_total",
				Help: "Total number of frames encoded",
			},
			[]string{"method"},
		),
		framesDecoded: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fecchan_frames_decoded_total",
				Help: "Total number of frames decoded",
			},
			[]string{"method"},
		),
		blocksCorrected: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fecchan_blocks_corrected_total",
				Help: "Codeword rows with a corrected information bit",
			},
			[]string{"method"},
		),
		blocksUncorrectable: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fecchan_blocks_uncorrectable_total",
				Help: "Codeword rows passed through with a nonzero syndrome",
			},
			[]string{"method"},
		),
		truncatedFrames: f.NewCounter(
			prometheus.CounterOpts{
				Name: "fecchan_truncated_frames_total",
				Help: "Frames whose payload was shorter than the header implies",
			},
		),
		codecErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fecchan_codec_errors_total",
				Help: "Failed encode and decode calls by error kind",
			},
			[]string{"op", "kind"},
		),
		operationDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fecchan_operation_duration_seconds",
				Help:    "Encode and decode duration in seconds",
				Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
			},
			[]string{"op"},
		),
		frameBits: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fecchan_frame_bits",
				Help:    "Size of encoded frames in bits",
				Buckets: prometheus.ExponentialBuckets(256, 4, 10),
			},
		),
	}
}

// FrameEncoded implements fecframe.Observer.
func (c *Collector) FrameEncoded(h fecframe.Header, frameBits int) {
	c.framesEncoded.WithLabelValues(h.Method.String()).Inc()
	c.frameBits.Observe(float64(frameBits))
}

// FrameDecoded implements fecframe.Observer.
func (c *Collector) FrameDecoded(h fecframe.Header, st fecframe.Stats) {
	m := h.Method.String()
	c.framesDecoded.WithLabelValues(m).Inc()
	c.blocksCorrected.WithLabelValues(m).Add(float64(st.Corrected))
	c.blocksUncorrectable.WithLabelValues(m).Add(float64(st.Uncorrectable))
	if st.Truncated {
		c.truncatedFrames.Inc()
	}
}

// RecordError counts a failed operation under the fec error kind, or
// "internal" for errors without one.
func (c *Collector) RecordError(op string, err error) {
	kind, ok := fec.KindOf(err)
	if !ok {
		kind = "internal"
	}
	c.codecErrors.WithLabelValues(op, string(kind)).Inc()
}

// ObserveDuration records how long op took since start.
func (c *Collector) ObserveDuration(op string, start time.Time) {
	c.operationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
