// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides dense layers and the building blocks of a feed-forward
// network.
//
// # Overview
//
// This package contains:
//   - Layers: Dense, composed into a Network
//   - Activations: ReLU, Sigmoid, Tanh, Linear
//   - Loss functions: CrossEntropy, MeanAbsoluteError, MeanSquaredError
//   - Initialization: He, Xavier, Uniform
//   - Utilities: Layer interface, Parameter
//
// All matrices are *mat.Dense from gonum: rows are samples, columns are
// features, neurons or classes.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/mlp/nn"
//	)
//
//	func main() {
//	    hidden, _ := nn.NewDense(2, 8, nn.NewHe(nn.WithSeed(1)), nn.NewReLU())
//	    head, _ := nn.NewDense(8, 1, nn.NewXavier(nn.WithSeed(2)), nn.NewSigmoid())
//
//	    net := nn.NewNetwork()
//	    _ = net.AddLayer(hidden)
//	    _ = net.AddLayer(head)
//
//	    // Forward pass
//	    output, err := net.Predict(input)
//	}
//
// # Forward and Backward
//
// Layers and activations follow a two-phase protocol. Forward caches what
// the derivative needs; the next Backward consumes that cache. Backward
// without a preceding Forward returns ErrIllegalState:
//
//	out, _ := net.Forward(x)
//	grad, _ := loss.ComputeGradient(out, y)
//	_, _ = net.Backward(grad)
//	_ = net.UpdateParameters(0.1)
//
// Weight and bias gradients are batch means and are overwritten by every
// Backward call.
//
// # Loss Functions
//
// CrossEntropy: binary cross-entropy with clipping. Its gradient is taken
// with respect to the pre-activation of a Sigmoid output layer, so it is fed
// to Network.BackwardPreActivation:
//
//	criterion := nn.NewCrossEntropy()
//	loss, _ := criterion.ComputeLoss(predictions, targets)
//
// MeanAbsoluteError and MeanSquaredError: for regression tasks
//
//	criterion := nn.NewMeanAbsoluteError()
//
// # Errors
//
// Argument problems wrap ErrInvalidArgument (shape mismatches are a
// *ShapeError), a missing dependency wraps ErrMissingConfiguration and an
// operation on a network without layers or out of protocol order wraps
// ErrIllegalState.
package nn
