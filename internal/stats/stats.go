// Package stats computes transmission quality figures and writes report rows.
package stats

import (
	"encoding/hex"
	"fmt"
	"math/bits"

	"github.com/observe-l/fecchan/fec"
	"github.com/observe-l/fecchan/fecframe"
	"github.com/observe-l/fecchan/internal/source"
	"golang.org/x/crypto/blake2b"
)

// BitErrors counts differing bits between orig and decoded over the length
// of orig. Bits missing from decoded count as errors; extra bits are ignored.
func BitErrors(orig, decoded []byte) int {
	errs := 0
	for i, b := range orig {
		if i >= len(decoded) {
			errs += 8 * (len(orig) - i)
			break
		}
		errs += bits.OnesCount8(b ^ decoded[i])
	}
	return errs
}

// BitErrorRate returns BitErrors over the bit length of orig, 0 for empty orig.
func BitErrorRate(orig, decoded []byte) float64 {
	if len(orig) == 0 {
		return 0
	}
	return float64(BitErrors(orig, decoded)) / float64(len(orig)*8)
}

// CodeRates returns the information rate per channel bit before coding (one
// bit per bit) and after: 1/n for repetition, k/n for a linear block code.
func CodeRates(method fecframe.Method, factor int, cat *fec.Catalog) (before, after float64, err error) {
	switch method {
	case fecframe.MethodRepetition:
		if !fec.ValidRepetitionFactor(factor) {
			return 0, 0, fec.Errorf(fec.KindUnsupportedFactor, "code-rates", "repetition factor %d", factor)
		}
		return 1, 1 / float64(factor), nil
	case fecframe.MethodLinearBlock:
		if cat == nil {
			cat = fec.DefaultCatalog()
		}
		code, err := cat.Code(factor)
		if err != nil {
			return 0, 0, err
		}
		return 1, code.Rate(), nil
	}
	return 0, 0, fec.Errorf(fec.KindUnsupportedParameter, "code-rates", "method %s", method)
}

// CompressionRatio returns sourceBits over frameBits.
func CompressionRatio(sourceBits, frameBits int) float64 {
	if frameBits == 0 {
		return 0
	}
	return float64(sourceBits) / float64(frameBits)
}

// Entropy returns the information per byte of data treated as the 8th
// extension of a binary source: 8·H(P0).
func Entropy(data []byte) float64 {
	return 8 * source.Analyze(data).Entropy
}

// Digest returns the hex BLAKE2b-256 of data.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Compare builds a report row from the three stages of one transmission.
func Compare(orig, frame, decoded []byte, cat *fec.Catalog) (Row, error) {
	h, err := fecframe.PeekHeader(frame)
	if err != nil {
		return Row{}, fmt.Errorf("read frame header: %w", err)
	}
	before, after, err := CodeRates(h.Method, int(h.Factor), cat)
	if err != nil {
		return Row{}, err
	}
	return Row{
		Method:           h.Method.String(),
		Factor:           int(h.Factor),
		BitErrorRate:     BitErrorRate(orig, decoded),
		RateBefore:       before,
		RateAfter:        after,
		CompressionRatio: CompressionRatio(int(h.SourceLength), len(frame)*8),
		OriginalDigest:   Digest(orig),
		DecodedDigest:    Digest(decoded),
	}, nil
}
