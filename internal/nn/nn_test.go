package nn_test

import (
	"errors"
	"testing"

	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/tensor"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

// TestParameter tests Parameter creation and methods.
func TestParameter(t *testing.T) {
	value := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	param := nn.NewParameter("test_param", value)

	assert.Equal(t, "test_param", param.Name())
	assert.Same(t, value, param.Value())
	assert.Equal(t, tensor.Shape{Rows: 2, Cols: 3}, param.Shape())
	assert.True(t, mat.Equal(mat.NewDense(2, 3, nil), param.Grad()))

	param.Grad().Set(1, 2, 7)
	param.ZeroGrad()
	assert.Equal(t, 0.0, param.Grad().At(1, 2))
}

func TestActivationKind_String(t *testing.T) {
	assert.Equal(t, "linear", nn.KindLinear.String())
	assert.Equal(t, "relu", nn.KindReLU.String())
	assert.Equal(t, "sigmoid", nn.KindSigmoid.String())
	assert.Equal(t, "tanh", nn.KindTanh.String())
}

func TestErrors_Taxonomy(t *testing.T) {
	assert.False(t, errors.Is(nn.ErrMissingConfiguration, nn.ErrInvalidArgument))
	assert.False(t, errors.Is(nn.ErrIllegalState, nn.ErrInvalidArgument))

	var err error = &nn.ShapeError{Op: "op", Want: tensor.Shape{Rows: 1, Cols: 2}, Got: tensor.Shape{Rows: 2, Cols: 1}}
	assert.ErrorIs(t, err, nn.ErrInvalidArgument)
	assert.Equal(t, "op: dimension mismatch: expected [1 x 2], got [2 x 1]", err.Error())
}
