package tensor

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument reports a nil, empty or mis-shaped argument or an
// out-of-range value. It is the root of every argument validation failure.
var ErrInvalidArgument = errors.New("invalid argument")

// ShapeError reports a dimension mismatch between two matrices.
//
// It unwraps to ErrInvalidArgument.
type ShapeError struct {
	Op   string // Operation that rejected the input (e.g., "CrossEntropy.ComputeLoss")
	Want Shape  // Expected shape
	Got  Shape  // Actual shape
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: dimension mismatch: expected %v, got %v", e.Op, e.Want, e.Got)
}

// Unwrap returns ErrInvalidArgument.
func (e *ShapeError) Unwrap() error {
	return ErrInvalidArgument
}
