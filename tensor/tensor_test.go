// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"testing"

	"github.com/born-ml/mlp/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// TestShapeAPI verifies the Shape alias exposes the expected API.
func TestShapeAPI(t *testing.T) {
	s := tensor.Shape{Rows: 3, Cols: 4}
	assert.Equal(t, 12, s.NumElements())
	assert.Equal(t, "[3 x 4]", s.String())
	assert.True(t, s.Equal(tensor.Shape{Rows: 3, Cols: 4}))
	assert.NoError(t, s.Validate())
	assert.ErrorIs(t, tensor.Shape{Rows: 0, Cols: 4}.Validate(), tensor.ErrInvalidArgument)
}

// TestMatrixHelpers verifies construction, conversion and copying helpers.
func TestMatrixHelpers(t *testing.T) {
	rows := [][]float64{{1, 2}, {3, 4}, {5, 6}}
	m, err := tensor.FromRows(rows)
	require.NoError(t, err)
	assert.Equal(t, rows, tensor.ToRows(m))
	assert.Equal(t, tensor.Shape{Rows: 3, Cols: 2}, tensor.ShapeOf(m))

	picked, err := tensor.SelectRows(m, []int{2, 0})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{5, 6}, {1, 2}}, tensor.ToRows(picked))

	part, err := tensor.Slice(m, 1, 3)
	require.NoError(t, err)
	part.Set(0, 0, 100)
	assert.Equal(t, 3.0, m.At(1, 0), "Slice copies")

	assert.True(t, tensor.IsEmpty(nil))
	assert.True(t, tensor.IsEmpty(&mat.Dense{}))
	assert.Nil(t, tensor.Clone(nil))
	assert.True(t, mat.Equal(m, tensor.Clone(m)))

	_, err = tensor.FromRows([][]float64{{1}, {2, 3}})
	assert.ErrorIs(t, err, tensor.ErrInvalidArgument)
}
