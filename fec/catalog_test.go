package fec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogShapes(t *testing.T) {
	cat := DefaultCatalog()
	assert.Same(t, cat, DefaultCatalog())
	assert.Equal(t, []int{3, 4, 5}, cat.Params())

	for _, tc := range []struct{ j, n, k int }{{3, 7, 4}, {4, 15, 11}, {5, 31, 26}} {
		code, err := cat.Code(tc.j)
		require.NoError(t, err)
		assert.Equal(t, tc.n, code.N)
		assert.Equal(t, tc.k, code.K)
		assert.InDelta(t, float64(tc.k)/float64(tc.n), code.Rate(), 1e-12)

		h, err := cat.ParityCheck(tc.j)
		require.NoError(t, err)
		assert.Equal(t, tc.j, h.Rows())
		assert.Equal(t, tc.n, h.Cols())
		assert.True(t, h.Columns(tc.k, tc.n).Equal(identityGF2(tc.j)))

		// every codeword row of G lies in the null space of H
		g, err := cat.Generator(tc.j)
		require.NoError(t, err)
		for _, row := range g {
			assert.Zero(t, code.Syndrome(row))
		}

		syn, err := cat.Syndromes(tc.j)
		require.NoError(t, err)
		assert.Len(t, syn, tc.n)
		syn[0] = 99
		again, _ := cat.Syndromes(tc.j)
		assert.NotContains(t, again, uint32(0))
	}
}

func TestCatalogUnknownParameter(t *testing.T) {
	_, err := DefaultCatalog().Generator(6)
	assert.ErrorIs(t, err, ErrUnsupportedParameter)
	_, err = DefaultCatalog().ParityCheck(2)
	assert.ErrorIs(t, err, ErrUnsupportedParameter)
	_, err = DefaultCatalog().Syndromes(0)
	assert.ErrorIs(t, err, ErrUnsupportedParameter)
}

func TestNewCatalogValidation(t *testing.T) {
	tests := []struct {
		name string
		j    int
		rows []string
	}{
		{"wrong parity length", 4, []string{"1000111", "0100101", "0010011", "0001110"}},
		{"not systematic", 3, []string{"1100111", "0100101", "0010011", "0001110"}},
		{"zero syndrome", 3, []string{"1000000", "0100101", "0010011", "0001110"}},
		{"duplicate syndrome", 3, []string{"1000111", "0100111", "0010011", "0001110"}},
		{"parity repeats identity column", 3, []string{"1000100", "0100101", "0010011", "0001110"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCatalog(map[int]Matrix{tc.j: mustMatrix(tc.rows...)})
			assert.Error(t, err)
		})
	}
}

func TestParseMatrix(t *testing.T) {
	m, err := ParseMatrix("101", "010")
	require.NoError(t, err)
	assert.Equal(t, Matrix{{1, 0, 1}, {0, 1, 0}}, m)
	assert.Equal(t, Matrix{{1, 0}, {0, 1}, {1, 0}}, m.Transpose())

	_, err = ParseMatrix("101", "01")
	assert.Error(t, err)
	_, err = ParseMatrix("1x1")
	assert.Error(t, err)
}
