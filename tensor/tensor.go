// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/mlp/internal/tensor"
	"gonum.org/v1/gonum/mat"
)

// ErrInvalidArgument reports nil, empty or mis-shaped arguments.
var ErrInvalidArgument = tensor.ErrInvalidArgument

// Shape represents the dimensions of a matrix.
//
// Example:
//
//	s := tensor.Shape{Rows: 4, Cols: 2}
//	s.NumElements() // 8
type Shape = tensor.Shape

// ShapeError reports a dimension mismatch between two matrices.
type ShapeError = tensor.ShapeError

// ShapeOf returns the shape of m; empty matrices have the zero shape.
func ShapeOf(m mat.Matrix) Shape {
	return tensor.ShapeOf(m)
}

// IsEmpty reports whether m is nil or has no elements.
func IsEmpty(m *mat.Dense) bool {
	return tensor.IsEmpty(m)
}

// FromRows builds a matrix from equally long rows, copying the data.
func FromRows(rows [][]float64) (*mat.Dense, error) {
	return tensor.FromRows(rows)
}

// MustFromRows is like FromRows but panics on error.
// Use only for literals in tests and examples.
func MustFromRows(rows [][]float64) *mat.Dense {
	return tensor.MustFromRows(rows)
}

// ToRows copies m into a slice of rows.
func ToRows(m *mat.Dense) [][]float64 {
	return tensor.ToRows(m)
}

// Clone returns a deep copy of m, or nil if m is empty.
func Clone(m *mat.Dense) *mat.Dense {
	return tensor.Clone(m)
}

// SelectRows copies the rows of m at indices, in order.
func SelectRows(m *mat.Dense, indices []int) (*mat.Dense, error) {
	return tensor.SelectRows(m, indices)
}

// Slice copies rows [start, end) of m.
func Slice(m *mat.Dense, start, end int) (*mat.Dense, error) {
	return tensor.Slice(m, start, end)
}
