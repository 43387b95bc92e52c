// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand/v2"

	"github.com/born-ml/mlp/internal/nn"
	"gonum.org/v1/gonum/mat"
)

// Errors

var (
	// ErrInvalidArgument reports nil, empty or mis-shaped arguments and
	// out-of-range values.
	ErrInvalidArgument = nn.ErrInvalidArgument

	// ErrMissingConfiguration reports an operation attempted before a
	// required dependency was set.
	ErrMissingConfiguration = nn.ErrMissingConfiguration

	// ErrIllegalState reports an operation out of protocol order.
	ErrIllegalState = nn.ErrIllegalState
)

// ShapeError reports a dimension mismatch. It unwraps to ErrInvalidArgument.
type ShapeError = nn.ShapeError

// Layer is the contract every network layer implements.
type Layer = nn.Layer

// Parameter represents a trainable parameter in a neural network.
type Parameter = nn.Parameter

// NewParameter creates a new parameter with a zeroed gradient buffer.
func NewParameter(name string, value *mat.Dense) *Parameter {
	return nn.NewParameter(name, value)
}

// Layers

// Dense represents a fully connected layer.
type Dense = nn.Dense

// NewDense creates a new dense layer.
//
// Example:
//
//	layer, err := nn.NewDense(784, 128, nn.NewHe(nn.WithSeed(42)), nn.NewReLU())
func NewDense(inputSize, outputSize int, init Initializer, activation Activation) (*Dense, error) {
	return nn.NewDense(inputSize, outputSize, init, activation)
}

// Network is an ordered pipeline of layers.
type Network = nn.Network

// NewNetwork creates an empty network.
func NewNetwork() *Network {
	return nn.NewNetwork()
}

// Activations

// Activation is a stateful element-wise nonlinearity.
type Activation = nn.Activation

// ActivationKind identifies an activation variant.
type ActivationKind = nn.ActivationKind

// Activation kinds.
const (
	KindLinear  = nn.KindLinear
	KindReLU    = nn.KindReLU
	KindSigmoid = nn.KindSigmoid
	KindTanh    = nn.KindTanh
)

// ReLU represents the Rectified Linear Unit activation function.
type ReLU = nn.ReLU

// NewReLU creates a new ReLU activation.
func NewReLU() *ReLU {
	return nn.NewReLU()
}

// Sigmoid represents the logistic activation function.
type Sigmoid = nn.Sigmoid

// NewSigmoid creates a new Sigmoid activation.
func NewSigmoid() *Sigmoid {
	return nn.NewSigmoid()
}

// Tanh represents the hyperbolic tangent activation function.
type Tanh = nn.Tanh

// NewTanh creates a new Tanh activation.
func NewTanh() *Tanh {
	return nn.NewTanh()
}

// Linear represents the identity activation.
type Linear = nn.Linear

// NewLinear creates a new identity activation.
func NewLinear() *Linear {
	return nn.NewLinear()
}

// NewActivation creates an activation of the given kind.
func NewActivation(kind ActivationKind) (Activation, error) {
	return nn.NewActivation(kind)
}

// ParseActivation creates an activation from its name ("relu", "sigmoid",
// "tanh", "linear").
func ParseActivation(name string) (Activation, error) {
	return nn.ParseActivation(name)
}

// Loss functions

// Loss computes a scalar loss and its gradient over a batch.
type Loss = nn.Loss

// SigmoidFused marks a loss whose gradient is taken with respect to the
// pre-activation of a Sigmoid output layer.
type SigmoidFused = nn.SigmoidFused

// CrossEntropyEpsilon bounds predictions before taking logs.
const CrossEntropyEpsilon = nn.CrossEntropyEpsilon

// CrossEntropy is binary cross-entropy for sigmoid outputs.
type CrossEntropy = nn.CrossEntropy

// NewCrossEntropy creates a new cross-entropy loss.
func NewCrossEntropy() *CrossEntropy {
	return nn.NewCrossEntropy()
}

// MeanAbsoluteError is the mean of |p - t|.
type MeanAbsoluteError = nn.MeanAbsoluteError

// NewMeanAbsoluteError creates a new MAE loss.
func NewMeanAbsoluteError() *MeanAbsoluteError {
	return nn.NewMeanAbsoluteError()
}

// MeanSquaredError is the mean of (p - t)².
type MeanSquaredError = nn.MeanSquaredError

// NewMeanSquaredError creates a new MSE loss.
func NewMeanSquaredError() *MeanSquaredError {
	return nn.NewMeanSquaredError()
}

// ParseLoss creates a loss from its name ("cross-entropy", "mae", "mse").
func ParseLoss(name string) (Loss, error) {
	return nn.ParseLoss(name)
}

// Initialization

// Initializer produces initial weight matrices.
type Initializer = nn.Initializer

// InitOption configures an initializer's random source.
type InitOption = nn.InitOption

// WithSeed makes an initializer reproducible.
func WithSeed(seed uint64) InitOption {
	return nn.WithSeed(seed)
}

// WithSource draws from src.
func WithSource(src rand.Source) InitOption {
	return nn.WithSource(src)
}

// He draws from N(0, 2/inputSize). Intended for ReLU layers.
type He = nn.He

// NewHe creates a He initializer.
func NewHe(opts ...InitOption) *He {
	return nn.NewHe(opts...)
}

// Xavier draws from N(0, 2/(inputSize+outputSize)). Intended for saturating
// activations.
type Xavier = nn.Xavier

// NewXavier creates a Xavier initializer.
func NewXavier(opts ...InitOption) *Xavier {
	return nn.NewXavier(opts...)
}

// Uniform draws from U[min, max).
type Uniform = nn.Uniform

// NewUniform creates a uniform initializer. Returns ErrInvalidArgument
// unless minValue < maxValue.
func NewUniform(minValue, maxValue float64, opts ...InitOption) (*Uniform, error) {
	return nn.NewUniform(minValue, maxValue, opts...)
}
