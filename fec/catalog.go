package fec

import (
	"fmt"
	"sort"
	"sync"
)

// Built-in systematic generators [I_k | P], keyed by the parity length j.
var (
	generator74 = mustMatrix(
		"1000111",
		"0100101",
		"0010011",
		"0001110",
	)
	generator1511 = mustMatrix(
		"100000000000011",
		"010000000000101",
		"001000000000110",
		"000100000000111",
		"000010000001001",
		"000001000001010",
		"000000100001011",
		"000000010001100",
		"000000001001101",
		"000000000101110",
		"000000000011111",
	)
	generator3126 = mustMatrix(
		"1000000000000000000000000011111",
		"0100000000000000000000000011110",
		"0010000000000000000000000000011",
		"0001000000000000000000000011101",
		"0000100000000000000000000000101",
		"0000010000000000000000000000110",
		"0000001000000000000000000000111",
		"0000000100000000000000000011100",
		"0000000010000000000000000001001",
		"0000000001000000000000000001010",
		"0000000000100000000000000001011",
		"0000000000010000000000000001100",
		"0000000000001000000000000001101",
		"0000000000000100000000000001110",
		"0000000000000010000000000001111",
		"0000000000000001000000000011011",
		"0000000000000000100000000010001",
		"0000000000000000010000000010010",
		"0000000000000000001000000010011",
		"0000000000000000000100000010100",
		"0000000000000000000010000010101",
		"0000000000000000000001000010110",
		"0000000000000000000000100010111",
		"0000000000000000000000010011000",
		"0000000000000000000000001011001",
		"0000000000000000000000000111010",
	)
)

// DefaultGenerators returns the built-in generator table: j=3 → (7,4),
// j=4 → (15,11), j=5 → (31,26). The map is freshly allocated, the matrices are shared.
func DefaultGenerators() map[int]Matrix {
	return map[int]Matrix{3: generator74, 4: generator1511, 5: generator3126}
}

// Code is one single-error-correcting linear block code and its derived tables.
// All fields are read-only after construction.
type Code struct {
	J int // parity length n-k, also the frame factor
	N int
	K int

	G  Matrix // k×n generator [I_k | P]
	H  Matrix // (n-k)×n parity check [Pᵀ | I_(n-k)]
	Ht Matrix // n×(n-k), rows are the syndromes of single-bit errors

	syndromes map[uint32]int
}

// Catalog is an immutable set of codes keyed by j.
type Catalog struct {
	codes map[int]*Code
}

var (
	defaultCatalogOnce sync.Once
	defaultCatalog     *Catalog
)

// DefaultCatalog returns the process-wide catalog of the three built-in codes.
// It is built once on first use.
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		c, err := NewCatalog(DefaultGenerators())
		if err != nil {
			panic("fec: built-in generators: " + err.Error())
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// NewCatalog derives parity-check matrices and syndrome tables for gens.
// Every matrix must be systematic and every single-bit error must produce a
// distinct nonzero syndrome.
func NewCatalog(gens map[int]Matrix) (*Catalog, error) {
	c := &Catalog{codes: make(map[int]*Code, len(gens))}
	for j, g := range gens {
		code, err := newCode(j, g)
		if err != nil {
			return nil, fmt.Errorf("code j=%d: %w", j, err)
		}
		c.codes[j] = code
	}
	return c, nil
}

func newCode(j int, g Matrix) (*Code, error) {
	k, n := g.Rows(), g.Cols()
	if k == 0 || n <= k {
		return nil, fmt.Errorf("bad shape %dx%d", k, n)
	}
	if n-k != j {
		return nil, fmt.Errorf("shape %dx%d has parity length %d", k, n, n-k)
	}
	if j > 32 {
		return nil, fmt.Errorf("parity length %d too large", j)
	}
	for i, row := range g {
		if len(row) != n {
			return nil, fmt.Errorf("row %d has %d columns", i, len(row))
		}
		for c := 0; c < k; c++ {
			want := uint8(0)
			if c == i {
				want = 1
			}
			if row[c] != want {
				return nil, fmt.Errorf("not systematic at (%d,%d)", i, c)
			}
		}
		for c := k; c < n; c++ {
			if row[c] > 1 {
				return nil, fmt.Errorf("non-binary entry at (%d,%d)", i, c)
			}
		}
	}

	h, err := hstackGF2(g.Columns(k, n).Transpose(), identityGF2(j))
	if err != nil {
		return nil, err
	}
	ht := h.Transpose()
	syn := make(map[uint32]int, n)
	for col, s := range ht {
		v := packSyndrome(s)
		if v == 0 {
			return nil, fmt.Errorf("column %d has zero syndrome", col)
		}
		if prev, dup := syn[v]; dup {
			return nil, fmt.Errorf("columns %d and %d share syndrome %d", prev, col, v)
		}
		syn[v] = col
	}
	return &Code{J: j, N: n, K: k, G: g, H: h, Ht: ht, syndromes: syn}, nil
}

// packSyndrome reads syndrome bits as an unsigned integer, first bit most significant.
func packSyndrome(s []uint8) uint32 {
	var v uint32
	for _, b := range s {
		v = v<<1 | uint32(b&1)
	}
	return v
}

// Code returns the code for j.
func (c *Catalog) Code(j int) (*Code, error) {
	code, ok := c.codes[j]
	if !ok {
		return nil, Errorf(KindUnsupportedParameter, "catalog", "no code for j=%d (have %v)", j, c.Params())
	}
	return code, nil
}

// Generator returns G for j. The matrix is shared and must not be modified.
func (c *Catalog) Generator(j int) (Matrix, error) {
	code, err := c.Code(j)
	if err != nil {
		return nil, err
	}
	return code.G, nil
}

// ParityCheck returns H = [Pᵀ | I] for j. The matrix is shared and must not be modified.
func (c *Catalog) ParityCheck(j int) (Matrix, error) {
	code, err := c.Code(j)
	if err != nil {
		return nil, err
	}
	return code.H, nil
}

// Syndromes returns a copy of the syndrome → column table for j.
func (c *Catalog) Syndromes(j int) (map[uint32]int, error) {
	code, err := c.Code(j)
	if err != nil {
		return nil, err
	}
	out := make(map[uint32]int, len(code.syndromes))
	for s, col := range code.syndromes {
		out[s] = col
	}
	return out, nil
}

// Params lists the available j values in ascending order.
func (c *Catalog) Params() []int {
	out := make([]int, 0, len(c.codes))
	for j := range c.codes {
		out = append(out, j)
	}
	sort.Ints(out)
	return out
}

// Syndrome computes row·Hᵀ mod 2 for one n-bit row.
func (code *Code) Syndrome(row []uint8) uint32 {
	var v uint32
	for i := 0; i < code.J; i++ {
		var b uint8
		for c, bit := range row {
			b ^= bit & code.H[i][c]
		}
		v = v<<1 | uint32(b)
	}
	return v
}

// Locate maps a syndrome to the codeword column of the single-bit error it identifies.
func (code *Code) Locate(syndrome uint32) (int, bool) {
	col, ok := code.syndromes[syndrome]
	return col, ok
}

// Rate returns k/n.
func (code *Code) Rate() float64 { return float64(code.K) / float64(code.N) }
