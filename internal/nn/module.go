// Package nn implements the layers, activations, initializers and loss
// functions of a feed-forward training engine.
//
// This package provides:
//   - Layer interface: the contract every layer variant implements
//   - Parameter: trainable values with an overwrite-only gradient buffer
//   - Dense: fully connected layer with a pluggable Activation
//   - Activations: ReLU, Sigmoid, Tanh, Linear
//   - Initializers: He, Xavier, Uniform
//   - Loss functions: CrossEntropy, MeanAbsoluteError, MeanSquaredError
//   - Network: ordered pipeline of layers
//
// Gradients are computed by explicit backward passes, not by automatic
// differentiation. Every layer and activation is single-threaded state: a
// Backward call consumes the record written by the preceding Forward call on
// the same instance.
package nn

import (
	"gonum.org/v1/gonum/mat"
)

// Layer is the contract of every layer variant.
//
// Forward caches what Backward needs; Backward requires a preceding Forward
// on the same instance (ErrIllegalState otherwise), overwrites the gradient
// buffers of the layer's parameters and returns the gradient with respect to
// the layer input. UpdateParameters applies a plain gradient-descent step
// using those buffers.
type Layer interface {
	// Forward maps input [batch x InputSize] to output [batch x OutputSize].
	Forward(input *mat.Dense) (*mat.Dense, error)

	// Backward maps the gradient with respect to the layer output
	// [batch x OutputSize] to the gradient with respect to its input
	// [batch x InputSize].
	Backward(outputGradient *mat.Dense) (*mat.Dense, error)

	// BackwardPreActivation is Backward for a gradient that is already
	// taken with respect to the pre-activation z, so the activation
	// derivative is skipped.
	BackwardPreActivation(dz *mat.Dense) (*mat.Dense, error)

	// UpdateParameters applies param -= learningRate * grad.
	UpdateParameters(learningRate float64) error

	// ResetParameters re-draws the weights, zeroes biases and gradient
	// buffers and drops any forward cache.
	ResetParameters() error

	// InputSize returns the number of input features.
	InputSize() int

	// OutputSize returns the number of output features.
	OutputSize() int

	// Activation returns the layer activation, or nil for a linear layer.
	Activation() Activation

	// Parameters returns the trainable parameters of this layer.
	Parameters() []*Parameter
}
