package nn

import (
	"errors"

	"github.com/born-ml/mlp/internal/tensor"
)

// Error taxonomy. All failures are returned synchronously to the immediate
// caller and are never retried: they indicate a programming or configuration
// error, not a transient condition. Test with errors.Is.
var (
	// ErrInvalidArgument reports nil, empty or mis-shaped inputs,
	// non-positive hyperparameters and out-of-range indices.
	ErrInvalidArgument = tensor.ErrInvalidArgument

	// ErrMissingConfiguration reports an operation attempted before a
	// required dependency (loss function, initializer) was set.
	ErrMissingConfiguration = errors.New("missing configuration")

	// ErrIllegalState reports an operation attempted in the wrong state:
	// a network with zero layers, or a backward pass without a preceding
	// forward pass.
	ErrIllegalState = errors.New("illegal state")
)

// ShapeError reports a dimension mismatch. It unwraps to ErrInvalidArgument.
type ShapeError = tensor.ShapeError
