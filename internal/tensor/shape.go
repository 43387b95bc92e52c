package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Shape represents the dimensions of a two-dimensional matrix.
//
// Rows index samples in a batch, columns index features, neurons or classes.
type Shape struct {
	Rows int
	Cols int
}

// ShapeOf returns the shape of m. A nil matrix has the zero shape.
func ShapeOf(m mat.Matrix) Shape {
	if m == nil {
		return Shape{}
	}
	if d, ok := m.(*mat.Dense); ok && (d == nil || d.IsEmpty()) {
		return Shape{}
	}
	r, c := m.Dims()
	return Shape{Rows: r, Cols: c}
}

// NumElements returns the total number of elements.
func (s Shape) NumElements() int {
	return s.Rows * s.Cols
}

// Validate checks if the shape is valid (both dimensions > 0).
func (s Shape) Validate() error {
	if s.Rows <= 0 || s.Cols <= 0 {
		return fmt.Errorf("%w: invalid shape %v (dimensions must be > 0)", ErrInvalidArgument, s)
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	return s.Rows == other.Rows && s.Cols == other.Cols
}

// String formats the shape as [rows x cols].
func (s Shape) String() string {
	return fmt.Sprintf("[%d x %d]", s.Rows, s.Cols)
}
