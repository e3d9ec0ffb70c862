package fec

// RepetitionFactors are the accepted n for repetition coding. All are odd so
// a majority vote never ties.
var RepetitionFactors = []int{3, 5, 7, 9}

// TailReport describes bits a decoder dropped because they did not fill a
// whole group or codeword row.
type TailReport struct {
	Groups   int // complete groups or rows decoded
	TailBits int // trailing bits dropped
}

// Truncated reports whether any trailing bits were dropped.
func (t TailReport) Truncated() bool { return t.TailBits > 0 }

// ValidRepetitionFactor reports whether n is one of RepetitionFactors.
func ValidRepetitionFactor(n int) bool {
	for _, f := range RepetitionFactors {
		if n == f {
			return true
		}
	}
	return false
}

// RepetitionEncode repeats every bit n times.
func RepetitionEncode(bits Bits, n int) (Bits, error) {
	if !ValidRepetitionFactor(n) {
		return nil, Errorf(KindUnsupportedFactor, "repetition-encode", "n=%d not in %v", n, RepetitionFactors)
	}
	out := make(Bits, len(bits)*n)
	for i, b := range bits {
		if b == 0 {
			continue
		}
		for r := i * n; r < (i+1)*n; r++ {
			out[r] = 1
		}
	}
	return out, nil
}

// RepetitionDecode majority-votes consecutive n-bit groups. An incomplete
// trailing group is dropped and counted in the returned TailReport.
func RepetitionDecode(bits Bits, n int) (Bits, TailReport, error) {
	if !ValidRepetitionFactor(n) {
		return nil, TailReport{}, Errorf(KindUnsupportedFactor, "repetition-decode", "n=%d not in %v", n, RepetitionFactors)
	}
	groups := len(bits) / n
	out := make(Bits, groups)
	for g := 0; g < groups; g++ {
		ones := 0
		for _, b := range bits[g*n : (g+1)*n] {
			if b != 0 {
				ones++
			}
		}
		if 2*ones > n {
			out[g] = 1
		}
	}
	return out, TailReport{Groups: groups, TailBits: len(bits) - groups*n}, nil
}
