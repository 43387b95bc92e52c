package nn

import (
	"github.com/born-ml/mlp/internal/tensor"
	"gonum.org/v1/gonum/mat"
)

// Parameter represents a trainable parameter in a neural network.
//
// A Parameter owns its value matrix and a gradient buffer of the same shape.
// The buffer is overwritten (never accumulated) by every backward pass of the
// owning layer and consumed by the following parameter update.
//
// Example:
//
//	w := layer.Weight()
//	w.Value()  // live [in x out] weight matrix
//	w.Grad()   // live gradient buffer
type Parameter struct {
	name  string     // Parameter name (e.g., "weight", "bias")
	value *mat.Dense // The parameter values
	grad  *mat.Dense // Gradient buffer, zero until the first backward pass
}

// NewParameter creates a new trainable parameter with a zeroed gradient buffer.
func NewParameter(name string, value *mat.Dense) *Parameter {
	r, c := value.Dims()
	return &Parameter{
		name:  name,
		value: value,
		grad:  mat.NewDense(r, c, nil),
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Value returns the live parameter matrix.
//
// Optimizers mutate it in place; callers that only read should copy it.
func (p *Parameter) Value() *mat.Dense {
	return p.value
}

// Grad returns the live gradient buffer.
func (p *Parameter) Grad() *mat.Dense {
	return p.grad
}

// Shape returns the parameter shape.
func (p *Parameter) Shape() tensor.Shape {
	return tensor.ShapeOf(p.value)
}

// ZeroGrad clears the gradient buffer in place.
func (p *Parameter) ZeroGrad() {
	p.grad.Zero()
}

