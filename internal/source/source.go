// Package source generates and analyzes byte streams with a given symbol
// distribution.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"math/bits"
	"math/rand"
	"os"
	"sort"
	"strconv"
)

// Symbols is the byte alphabet size.
const Symbols = 256

// Distribution holds one probability per byte value.
type Distribution [Symbols]float64

// ExtendP0 returns the 8th extension of a memoryless binary source that emits
// 0 with probability p0: P(b) = p0^zeros(b) · (1-p0)^ones(b).
func ExtendP0(p0 float64) (Distribution, error) {
	var d Distribution
	if p0 < 0 || p0 > 1 || math.IsNaN(p0) {
		return d, fmt.Errorf("source: p0 %v out of [0,1]", p0)
	}
	for i := range d {
		ones := bits.OnesCount8(uint8(i))
		d[i] = math.Pow(p0, float64(8-ones)) * math.Pow(1-p0, float64(ones))
	}
	return d, nil
}

// LoadDistribution reads column 1 of every row of a CSV file as the
// probability of byte value 0, 1, ... in order. Rows whose column 1 does not
// parse as a number (a header row) are skipped.
func LoadDistribution(path string) (Distribution, error) {
	var d Distribution
	f, err := os.Open(path)
	if err != nil {
		return d, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	i := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return d, fmt.Errorf("source: read %s: %w", path, err)
		}
		if len(rec) < 2 {
			return d, fmt.Errorf("source: %s: row %d has no column 1", path, i+1)
		}
		v, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			if i == 0 {
				continue
			}
			return d, fmt.Errorf("source: %s: %w", path, err)
		}
		if i >= Symbols {
			return d, fmt.Errorf("source: %s has more than %d symbols", path, Symbols)
		}
		d[i] = v
		i++
	}
	if i == 0 {
		return d, errors.New("source: empty distribution")
	}
	return d, nil
}

// WriteDistribution stores d in the layout LoadDistribution reads, with a
// header row and the byte value in column 0.
func WriteDistribution(path string, d Distribution) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	_ = w.Write([]string{"symbol", "P(n)"})
	for i, p := range d {
		_ = w.Write([]string{strconv.Itoa(i), strconv.FormatFloat(p, 'g', -1, 64)})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Generate draws n bytes from d by inverse-CDF sampling. d need not be
// normalized; it must have positive total mass.
func Generate(d Distribution, n int, rng *rand.Rand) ([]byte, error) {
	cdf := make([]float64, Symbols)
	total := 0.0
	for i, p := range d {
		if p < 0 || math.IsNaN(p) {
			return nil, fmt.Errorf("source: P(%d)=%v", i, p)
		}
		total += p
		cdf[i] = total
	}
	if total <= 0 {
		return nil, errors.New("source: distribution has no mass")
	}
	out := make([]byte, n)
	for i := range out {
		u := rng.Float64() * total
		s := sort.Search(Symbols, func(k int) bool { return cdf[k] > u })
		if s == Symbols {
			s = Symbols - 1
		}
		out[i] = byte(s)
	}
	return out, nil
}

// Analysis summarizes the symbol statistics of a byte stream.
type Analysis struct {
	Distribution Distribution
	P0           float64 // fraction of zero bits
	Entropy      float64 // bits per binary symbol, H(P0)
	Redundancy   float64 // 1 - Entropy, against the 1 bit maximum
}

// Analyze computes the byte histogram and binary-source statistics of data.
func Analyze(data []byte) Analysis {
	var a Analysis
	if len(data) == 0 {
		return a
	}
	ones := 0
	for _, b := range data {
		a.Distribution[b]++
		ones += bits.OnesCount8(b)
	}
	for i := range a.Distribution {
		a.Distribution[i] /= float64(len(data))
	}
	a.P0 = 1 - float64(ones)/float64(len(data)*8)
	a.Entropy = BinaryEntropy(a.P0)
	a.Redundancy = 1 - a.Entropy
	return a
}

// BinaryEntropy returns H(p) in bits, with 0·log 0 = 0.
func BinaryEntropy(p float64) float64 {
	h := 0.0
	for _, q := range []float64{p, 1 - p} {
		if q > 0 {
			h -= q * math.Log2(q)
		}
	}
	return h
}
