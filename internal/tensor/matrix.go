// Package tensor provides the matrix helpers shared by the training engine.
//
// All numeric data is a *mat.Dense from gonum: a row is one sample and a
// column is one feature, neuron or class. A nil or zero-sized matrix counts
// as empty.
package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// IsEmpty reports whether m is nil or has no elements.
func IsEmpty(m *mat.Dense) bool {
	return m == nil || m.IsEmpty()
}

// FromRows builds a matrix from row slices.
//
// Returns ErrInvalidArgument if rows is empty, any row is empty, or the rows
// have different lengths. The data is copied.
func FromRows(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidArgument)
	}
	cols := len(rows[0])
	if cols == 0 {
		return nil, fmt.Errorf("%w: row 0 is empty", ErrInvalidArgument)
	}
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, expected %d", ErrInvalidArgument, i, len(row), cols)
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), cols, data), nil
}

// MustFromRows is like FromRows but panics on error.
// Intended for literals in tests and examples.
func MustFromRows(rows [][]float64) *mat.Dense {
	m, err := FromRows(rows)
	if err != nil {
		panic(err)
	}
	return m
}

// ToRows copies m into row slices.
func ToRows(m *mat.Dense) [][]float64 {
	if IsEmpty(m) {
		return nil
	}
	r, _ := m.Dims()
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = mat.Row(nil, i, m)
	}
	return rows
}

// Clone returns a deep copy of m, or nil if m is empty.
func Clone(m *mat.Dense) *mat.Dense {
	if IsEmpty(m) {
		return nil
	}
	return mat.DenseCopyOf(m)
}

// SelectRows returns a new matrix holding the rows of m at the given indices,
// in index order.
func SelectRows(m *mat.Dense, indices []int) (*mat.Dense, error) {
	if IsEmpty(m) {
		return nil, fmt.Errorf("%w: select rows of empty matrix", ErrInvalidArgument)
	}
	if len(indices) == 0 {
		return nil, fmt.Errorf("%w: no row indices", ErrInvalidArgument)
	}
	r, c := m.Dims()
	out := mat.NewDense(len(indices), c, nil)
	for i, idx := range indices {
		if idx < 0 || idx >= r {
			return nil, fmt.Errorf("%w: row index %d out of range [0, %d)", ErrInvalidArgument, idx, r)
		}
		out.SetRow(i, m.RawRowView(idx))
	}
	return out, nil
}

// Slice returns a copy of rows [start, end) of m.
func Slice(m *mat.Dense, start, end int) (*mat.Dense, error) {
	if IsEmpty(m) {
		return nil, fmt.Errorf("%w: slice of empty matrix", ErrInvalidArgument)
	}
	r, c := m.Dims()
	if start < 0 || end > r || start >= end {
		return nil, fmt.Errorf("%w: row range [%d, %d) invalid for %d rows", ErrInvalidArgument, start, end, r)
	}
	return mat.DenseCopyOf(m.Slice(start, end, 0, c)), nil
}

// RequireNonEmpty returns ErrInvalidArgument if m is empty.
func RequireNonEmpty(op, name string, m *mat.Dense) error {
	if IsEmpty(m) {
		return fmt.Errorf("%s: %w: %s cannot be nil or empty", op, ErrInvalidArgument, name)
	}
	return nil
}

// RequireShape returns a *ShapeError if m does not have the wanted shape.
func RequireShape(op string, m *mat.Dense, want Shape) error {
	if got := ShapeOf(m); !got.Equal(want) {
		return &ShapeError{Op: op, Want: want, Got: got}
	}
	return nil
}

// RequireSameShape checks that a and b are non-empty and identically shaped.
func RequireSameShape(op string, a, b *mat.Dense) error {
	if IsEmpty(a) || IsEmpty(b) {
		return fmt.Errorf("%s: %w: predictions and targets cannot be nil or empty", op, ErrInvalidArgument)
	}
	return RequireShape(op, b, ShapeOf(a))
}
