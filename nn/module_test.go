// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"testing"

	"github.com/born-ml/mlp/nn"
	"github.com/born-ml/mlp/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// TestLayerInterface verifies that concrete types implement the Layer interface.
func TestLayerInterface(t *testing.T) {
	dense, err := nn.NewDense(10, 5, nn.NewHe(nn.WithSeed(1)), nn.NewReLU())
	require.NoError(t, err)

	var layer nn.Layer = dense
	input := mat.NewDense(2, 10, nil)
	out, err := layer.Forward(input)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{Rows: 2, Cols: 5}, tensor.ShapeOf(out))

	params := layer.Parameters()
	require.Len(t, params, 2)
	assert.Equal(t, "weight", params[0].Name())
	assert.Equal(t, "bias", params[1].Name())
}

// TestActivationInterface verifies every activation kind through the public API.
func TestActivationInterface(t *testing.T) {
	for _, act := range []nn.Activation{nn.NewReLU(), nn.NewSigmoid(), nn.NewTanh(), nn.NewLinear()} {
		t.Run(act.Kind().String(), func(t *testing.T) {
			parsed, err := nn.ParseActivation(act.Kind().String())
			require.NoError(t, err)
			assert.Equal(t, act.Kind(), parsed.Kind())
		})
	}
}

// TestNetworkEndToEnd builds, runs and inspects a small network.
func TestNetworkEndToEnd(t *testing.T) {
	hidden, err := nn.NewDense(2, 3, nn.NewHe(nn.WithSeed(1)), nn.NewTanh())
	require.NoError(t, err)
	head, err := nn.NewDense(3, 1, nn.NewXavier(nn.WithSeed(2)), nn.NewSigmoid())
	require.NoError(t, err)

	net := nn.NewNetwork()
	require.NoError(t, net.AddLayer(hidden))
	require.NoError(t, net.AddLayer(head))

	x := tensor.MustFromRows([][]float64{{0, 1}, {1, 0}})
	y := tensor.MustFromRows([][]float64{{1}, {0}})

	loss, err := net.Evaluate(x, y, nn.NewCrossEntropy())
	require.NoError(t, err)
	assert.Greater(t, loss, 0.0)
	assert.Equal(t, 13, net.NumParameters())

	_, err = net.Backward(mat.NewDense(2, 1, nil))
	assert.ErrorIs(t, err, nn.ErrIllegalState)
}

// TestErrorTaxonomy verifies the exported sentinel errors.
func TestErrorTaxonomy(t *testing.T) {
	_, err := nn.NewDense(2, 2, nil, nil)
	assert.ErrorIs(t, err, nn.ErrMissingConfiguration)

	_, err = nn.NewUniform(1, 0)
	assert.ErrorIs(t, err, nn.ErrInvalidArgument)

	_, err = nn.NewCrossEntropy().ComputeLoss(mat.NewDense(3, 2, nil), mat.NewDense(3, 1, nil))
	var shapeErr *nn.ShapeError
	assert.ErrorAs(t, err, &shapeErr)
}
