package main

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/francoispqt/gojay"
	"github.com/observe-l/fecchan/fec"
	"github.com/observe-l/fecchan/fecframe"
	"github.com/observe-l/fecchan/internal/channel"
	"github.com/observe-l/fecchan/internal/stats"
	"golang.org/x/sync/errgroup"
)

type scheme string

const (
	schemeRepetition scheme = "repetition"
	schemeLinear     scheme = "linear"
	schemeRaptorQ    scheme = "raptorq"
)

type point struct {
	Scheme scheme
	Factor int
	P      float64
}

type result struct {
	point
	RunID         string
	Rate          float64
	Trials        int
	ChannelBits   int
	ChannelErrors int
	SourceBits    int
	ResidualBits  int
	CleanFrames   int
	LostHeaders   int
	Corrected     int
	Uncorrectable int
	EncTotal      time.Duration
	DecTotal      time.Duration
}

func (r *result) rawBER() float64 {
	if r.ChannelBits == 0 {
		return 0
	}
	return float64(r.ChannelErrors) / float64(r.ChannelBits)
}

func (r *result) ber() float64 {
	if r.SourceBits == 0 {
		return 0
	}
	return float64(r.ResidualBits) / float64(r.SourceBits)
}

// MarshalJSONObject implements gojay.MarshalerJSONObject.
func (r *result) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("run_id", r.RunID)
	enc.StringKey("scheme", string(r.Scheme))
	enc.IntKey("factor", r.Factor)
	enc.Float64Key("p", r.P)
	enc.Float64Key("rate", r.Rate)
	enc.IntKey("trials", r.Trials)
	enc.Float64Key("channel_ber", r.rawBER())
	enc.Float64Key("ber", r.ber())
	enc.IntKey("clean_frames", r.CleanFrames)
	enc.IntKey("lost_headers", r.LostHeaders)
	enc.IntKey("corrected", r.Corrected)
	enc.IntKey("uncorrectable", r.Uncorrectable)
	enc.Int64Key("enc_us_total", r.EncTotal.Microseconds())
	enc.Int64Key("dec_us_total", r.DecTotal.Microseconds())
}

// IsNil implements gojay.MarshalerJSONObject.
func (r *result) IsNil() bool { return r == nil }

type sweep struct {
	Points       []point
	Trials       int
	PayloadBytes int
	Workers      int
	Seed         int64
	RunID        string
	// symbol size of the RaptorQ reference
	SymbolSize int
}

// pointSeed gives every point its own deterministic stream so results do not
// depend on worker scheduling.
func (s *sweep) pointSeed(i int) int64 { return s.Seed*1_000_003 + int64(i) }

func (s *sweep) run(ctx context.Context) ([]*result, error) {
	out := make([]*result, len(s.Points))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.Workers, 1))
	var mu sync.Mutex
	for i, pt := range s.Points {
		i, pt := i, pt
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := s.runPoint(pt, rand.New(rand.NewSource(s.pointSeed(i))))
			if err != nil {
				return fmt.Errorf("%s/%d p=%v: %w", pt.Scheme, pt.Factor, pt.P, err)
			}
			mu.Lock()
			out[i] = r
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].point, out[j].point
		if a.Scheme != b.Scheme {
			return a.Scheme < b.Scheme
		}
		if a.Factor != b.Factor {
			return a.Factor < b.Factor
		}
		return a.P < b.P
	})
	return out, nil
}

func (s *sweep) runPoint(pt point, rng *rand.Rand) (*result, error) {
	r := &result{point: pt, RunID: s.RunID, Trials: s.Trials}
	if pt.Scheme == schemeRaptorQ {
		return s.runRaptorQ(r, rng)
	}
	method := fecframe.MethodRepetition
	if pt.Scheme == schemeLinear {
		method = fecframe.MethodLinearBlock
	}
	_, rate, err := stats.CodeRates(method, pt.Factor, nil)
	if err != nil {
		return nil, err
	}
	r.Rate = rate
	bsc, err := channel.NewBSC(pt.P, rng)
	if err != nil {
		return nil, err
	}
	enc := fecframe.NewEncoder(fecframe.Options{})
	dec := fecframe.NewDecoder(fecframe.Options{})
	payload := make([]byte, s.PayloadBytes)
	for t := 0; t < s.Trials; t++ {
		rng.Read(payload)
		start := time.Now()
		frame, err := enc.Encode(method, payload, pt.Factor)
		r.EncTotal += time.Since(start)
		if err != nil {
			return nil, err
		}
		noisy, flips := bsc.Transmit(frame)
		r.ChannelBits += len(frame) * 8
		r.ChannelErrors += flips

		start = time.Now()
		res, err := dec.Decode(noisy)
		r.DecTotal += time.Since(start)
		r.SourceBits += len(payload) * 8
		if err != nil {
			// a broken header loses the whole payload
			r.LostHeaders++
			r.ResidualBits += len(payload) * 8
			continue
		}
		errs := stats.BitErrors(payload, res.Data)
		r.ResidualBits += errs
		if errs == 0 {
			r.CleanFrames++
		}
		r.Corrected += res.Stats.Corrected
		r.Uncorrectable += res.Stats.Uncorrectable
	}
	return r, nil
}

// runRaptorQ treats p as the symbol erasure probability. Factor is the
// number of repair symbols.
func (s *sweep) runRaptorQ(r *result, rng *rand.Rand) (*result, error) {
	payload := make([]byte, s.PayloadBytes)
	for t := 0; t < s.Trials; t++ {
		rng.Read(payload)
		start := time.Now()
		er, err := fec.RaptorQRoundTrip(payload, s.SymbolSize, r.Factor, r.P, rng)
		r.DecTotal += time.Since(start)
		if err != nil {
			return nil, err
		}
		r.Rate = er.Rate()
		r.ChannelBits += er.SentSymbols
		r.ChannelErrors += er.LostSymbols
		r.SourceBits += len(payload) * 8
		if er.Recovered {
			e := stats.BitErrors(payload, er.Data)
			r.ResidualBits += e
			if e == 0 {
				r.CleanFrames++
			}
		} else {
			r.ResidualBits += len(payload) * 8
		}
	}
	return r, nil
}
