package fec

import (
	"errors"
	"math/rand"

	rqq "github.com/xssnick/raptorq"
)

// ErasureResult is the outcome of one RaptorQ erasure round trip.
type ErasureResult struct {
	SourceSymbols int
	SentSymbols   int
	LostSymbols   int
	Recovered     bool
	Data          []byte
}

// Rate returns source symbols over sent symbols.
func (r ErasureResult) Rate() float64 {
	if r.SentSymbols == 0 {
		return 0
	}
	return float64(r.SourceSymbols) / float64(r.SentSymbols)
}

// RaptorQRoundTrip encodes data into its source symbols plus repair extra
// symbols of symbolSize bytes, erases every symbol independently with
// probability lossP and tries to decode from what is left. It is an
// erasure-channel reference for comparing against the bit-flip codes.
func RaptorQRoundTrip(data []byte, symbolSize, repair int, lossP float64, rng *rand.Rand) (ErasureResult, error) {
	if symbolSize <= 0 || repair < 0 {
		return ErasureResult{}, errors.New("raptorq: bad symbol size or repair count")
	}
	if len(data) == 0 {
		return ErasureResult{Recovered: true, Data: []byte{}}, nil
	}
	rq := rqq.NewRaptorQ(uint32(symbolSize))
	enc, err := rq.CreateEncoder(data)
	if err != nil {
		return ErasureResult{}, err
	}
	dec, err := rq.CreateDecoder(uint32(len(data)))
	if err != nil {
		return ErasureResult{}, err
	}

	k := int(enc.BaseSymbolsNum())
	res := ErasureResult{SourceSymbols: k, SentSymbols: k + repair}
	for id := 0; id < res.SentSymbols; id++ {
		if rng.Float64() < lossP {
			res.LostSymbols++
			continue
		}
		// a rejected symbol is just one more erasure
		if _, err := dec.AddSymbol(uint32(id), enc.GenSymbol(uint32(id))); err != nil {
			res.LostSymbols++
		}
	}
	if res.SentSymbols-res.LostSymbols < k {
		return res, nil
	}
	ok, out, err := dec.Decode()
	if err != nil || !ok {
		return res, nil
	}
	res.Recovered = true
	res.Data = out
	return res, nil
}
