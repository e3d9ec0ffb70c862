package fec

import (
	"errors"
	"fmt"
)

// Matrix is a dense binary matrix stored row-major, entries 0 or 1.
type Matrix [][]uint8

// ParseMatrix builds a matrix from one '0'/'1' string per row.
func ParseMatrix(rows ...string) (Matrix, error) {
	m := make(Matrix, len(rows))
	for i, r := range rows {
		b, err := ParseBits(r)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if i > 0 && len(b) != len(m[0]) {
			return nil, fmt.Errorf("row %d has %d columns, want %d", i, len(b), len(m[0]))
		}
		m[i] = b
	}
	return m, nil
}

func mustMatrix(rows ...string) Matrix {
	m, err := ParseMatrix(rows...)
	if err != nil {
		panic("fec: " + err.Error())
	}
	return m
}

// Rows returns the number of rows.
func (m Matrix) Rows() int { return len(m) }

// Cols returns the number of columns, 0 for an empty matrix.
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Transpose returns a new matrix with rows and columns swapped.
func (m Matrix) Transpose() Matrix {
	r, c := m.Rows(), m.Cols()
	t := make(Matrix, c)
	for j := 0; j < c; j++ {
		t[j] = make([]uint8, r)
		for i := 0; i < r; i++ {
			t[j][i] = m[i][j]
		}
	}
	return t
}

// Columns returns the sub-matrix of columns [from, to).
func (m Matrix) Columns(from, to int) Matrix {
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = append([]uint8(nil), row[from:to]...)
	}
	return out
}

// Equal reports whether both matrices have the same shape and entries.
func (m Matrix) Equal(o Matrix) bool {
	if m.Rows() != o.Rows() || m.Cols() != o.Cols() {
		return false
	}
	for i := range m {
		for j := range m[i] {
			if m[i][j] != o[i][j] {
				return false
			}
		}
	}
	return true
}

func identityGF2(n int) Matrix {
	id := make(Matrix, n)
	for i := range id {
		id[i] = make([]uint8, n)
		id[i][i] = 1
	}
	return id
}

// hstackGF2 concatenates a and b side by side; both need the same row count.
func hstackGF2(a, b Matrix) (Matrix, error) {
	if a.Rows() != b.Rows() {
		return nil, errors.New("hstack: row count mismatch")
	}
	out := make(Matrix, a.Rows())
	for i := range out {
		row := make([]uint8, 0, a.Cols()+b.Cols())
		row = append(row, a[i]...)
		out[i] = append(row, b[i]...)
	}
	return out, nil
}

// rowMulGF2 computes v·m mod 2 into dst, where len(v) == m.Rows() and
// len(dst) == m.Cols().
func rowMulGF2(dst []uint8, v []uint8, m Matrix) {
	for j := range dst {
		dst[j] = 0
	}
	for i, bit := range v {
		if bit == 0 {
			continue
		}
		row := m[i]
		for j := range dst {
			dst[j] ^= row[j]
		}
	}
}
