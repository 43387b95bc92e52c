package nn_test

import (
	"testing"

	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func newTestNetwork(t *testing.T, seed uint64) *nn.Network {
	t.Helper()
	net := nn.NewNetwork()
	require.NoError(t, net.AddLayer(mustDense(t, 2, 4, nn.NewHe(nn.WithSeed(seed)), nn.NewReLU())))
	require.NoError(t, net.AddLayer(mustDense(t, 4, 1, nn.NewXavier(nn.WithSeed(seed+1)), nn.NewSigmoid())))
	return net
}

func TestNetwork_AddLayerMismatch(t *testing.T) {
	net := nn.NewNetwork()
	require.NoError(t, net.AddLayer(mustDense(t, 2, 3, nn.NewHe(), nil)))

	err := net.AddLayer(mustDense(t, 4, 1, nn.NewHe(), nil))
	assert.ErrorIs(t, err, nn.ErrInvalidArgument)
	assert.Equal(t, 1, net.Len(), "rejected layer must not be appended")

	err = net.AddLayer(nil)
	assert.ErrorIs(t, err, nn.ErrInvalidArgument)
	assert.Equal(t, 1, net.Len())
}

func TestNetwork_NoLayers(t *testing.T) {
	net := nn.NewNetwork()
	x := mat.NewDense(1, 2, nil)

	_, err := net.Forward(x)
	assert.ErrorIs(t, err, nn.ErrIllegalState)

	_, err = net.Predict(x)
	assert.ErrorIs(t, err, nn.ErrIllegalState)

	_, err = net.Backward(mat.NewDense(1, 1, nil))
	assert.ErrorIs(t, err, nn.ErrIllegalState)

	assert.Nil(t, net.OutputLayer())
}

func TestNetwork_EmptyInput(t *testing.T) {
	net := newTestNetwork(t, 1)

	_, err := net.Forward(nil)
	assert.ErrorIs(t, err, nn.ErrInvalidArgument)

	_, err = net.Predict(&mat.Dense{})
	assert.ErrorIs(t, err, nn.ErrInvalidArgument)

	_, err = net.Backward(nil)
	assert.ErrorIs(t, err, nn.ErrInvalidArgument)
}

func TestNetwork_ForwardShape(t *testing.T) {
	net := newTestNetwork(t, 1)

	out, err := net.Forward(mat.NewDense(5, 2, nil))
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{Rows: 5, Cols: 1}, tensor.ShapeOf(out))

	_, err = net.Forward(mat.NewDense(5, 3, nil))
	assert.ErrorIs(t, err, nn.ErrInvalidArgument)
}

func TestNetwork_BackwardWithoutForward(t *testing.T) {
	net := newTestNetwork(t, 1)

	_, err := net.Backward(mat.NewDense(2, 1, nil))
	assert.ErrorIs(t, err, nn.ErrIllegalState)
}

func TestNetwork_BackwardReturnsInputGradient(t *testing.T) {
	net := newTestNetwork(t, 1)

	_, err := net.Forward(mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6}))
	require.NoError(t, err)

	dx, err := net.Backward(mat.NewDense(3, 1, []float64{1, 1, 1}))
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{Rows: 3, Cols: 2}, tensor.ShapeOf(dx))
}

func TestNetwork_StepReducesLoss(t *testing.T) {
	net := newTestNetwork(t, 5)
	loss := nn.NewMeanSquaredError()
	x := tensor.MustFromRows([][]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}})
	y := tensor.MustFromRows([][]float64{{0}, {1}, {1}, {1}})

	before, err := net.Evaluate(x, y, loss)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		out, err := net.Forward(x)
		require.NoError(t, err)
		grad, err := loss.ComputeGradient(out, y)
		require.NoError(t, err)
		_, err = net.Backward(grad)
		require.NoError(t, err)
		require.NoError(t, net.UpdateParameters(0.5))
	}

	after, err := net.Evaluate(x, y, loss)
	require.NoError(t, err)
	assert.Less(t, after, before)
}

func TestNetwork_UpdateParametersRejectsNonPositiveRate(t *testing.T) {
	net := newTestNetwork(t, 1)
	assert.ErrorIs(t, net.UpdateParameters(0), nn.ErrInvalidArgument)
	assert.ErrorIs(t, net.UpdateParameters(-1), nn.ErrInvalidArgument)
}

func TestNetwork_Evaluate(t *testing.T) {
	net := newTestNetwork(t, 1)
	x := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	y := mat.NewDense(2, 1, []float64{0, 1})

	_, err := net.Evaluate(x, y, nil)
	assert.ErrorIs(t, err, nn.ErrMissingConfiguration)

	_, err = net.Evaluate(x, mat.NewDense(3, 1, nil), nn.NewCrossEntropy())
	assert.ErrorIs(t, err, nn.ErrInvalidArgument)

	_, err = net.Evaluate(x, mat.NewDense(2, 2, nil), nn.NewCrossEntropy())
	assert.ErrorIs(t, err, nn.ErrInvalidArgument, "target width differs from output width")

	got, err := net.Evaluate(x, y, nn.NewCrossEntropy())
	require.NoError(t, err)

	predictions, err := net.Predict(x)
	require.NoError(t, err)
	want, err := nn.NewCrossEntropy().ComputeLoss(predictions, y)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestNetwork_Accuracy(t *testing.T) {
	// A single linear layer with identity weights makes predictions equal inputs.
	net := nn.NewNetwork()
	identity := tensor.MustFromRows([][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	require.NoError(t, net.AddLayer(mustDense(t, 3, 3, fixedInit{w: identity}, nil)))

	x := tensor.MustFromRows([][]float64{{0.9, 0.05, 0.05}, {0.1, 0.7, 0.2}, {0.3, 0.3, 0.4}, {0.6, 0.3, 0.1}})
	y := tensor.MustFromRows([][]float64{{1, 0, 0}, {0, 1, 0}, {0, 1, 0}, {0, 0, 1}})

	acc, err := net.Accuracy(x, y)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, acc, 1e-12)
}

func TestNetwork_BinaryAccuracy(t *testing.T) {
	net := nn.NewNetwork()
	require.NoError(t, net.AddLayer(mustDense(t, 1, 1, fixedInit{w: mat.NewDense(1, 1, []float64{1})}, nil)))

	x := tensor.MustFromRows([][]float64{{0.2}, {0.8}, {0.6}, {0.4}})
	y := tensor.MustFromRows([][]float64{{0}, {1}, {0}, {0}})

	acc, err := net.BinaryAccuracy(x, y, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 75.0, acc, 1e-12)

	_, err = net.BinaryAccuracy(x, mat.NewDense(3, 1, nil), 0.5)
	assert.ErrorIs(t, err, nn.ErrInvalidArgument)
}

func TestNetwork_LayerAccess(t *testing.T) {
	net := newTestNetwork(t, 1)

	assert.Equal(t, 2, net.Len())
	first, err := net.Layer(0)
	require.NoError(t, err)
	assert.Equal(t, 2, first.InputSize())

	for _, i := range []int{-1, 2} {
		_, err := net.Layer(i)
		assert.ErrorIs(t, err, nn.ErrInvalidArgument)
	}

	layers := net.Layers()
	layers[0] = nil
	first, err = net.Layer(0)
	require.NoError(t, err)
	assert.NotNil(t, first, "Layers returns a copy")

	assert.Equal(t, 1, net.OutputLayer().OutputSize())

	net.Clear()
	assert.Equal(t, 0, net.Len())
}

func TestNetwork_SummaryAndParameterCount(t *testing.T) {
	net := newTestNetwork(t, 1)

	// 2*4+4 + 4*1+1
	assert.Equal(t, 17, net.NumParameters())

	summary := net.Summary()
	assert.Contains(t, summary, "Total Layers: 2")
	assert.Contains(t, summary, "Layer 1: [2 -> 4] (relu) - Parameters: 12")
	assert.Contains(t, summary, "Layer 2: [4 -> 1] (sigmoid) - Parameters: 5")
	assert.Contains(t, summary, "Total Parameters: 17")
}

func TestNetwork_StateDictRoundTrip(t *testing.T) {
	src := newTestNetwork(t, 1)
	dst := newTestNetwork(t, 100)
	x := mat.NewDense(3, 2, []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6})

	state := src.StateDict()
	assert.Len(t, state, 4)
	assert.Contains(t, state, "0.weight")
	assert.Contains(t, state, "1.bias")

	require.NoError(t, dst.LoadStateDict(state))

	want, err := src.Predict(x)
	require.NoError(t, err)
	got, err := dst.Predict(x)
	require.NoError(t, err)
	assert.True(t, mat.Equal(want, got))

	delete(state, "1.bias")
	assert.ErrorIs(t, dst.LoadStateDict(state), nn.ErrInvalidArgument)
}

func TestNetwork_ResetParameters(t *testing.T) {
	net := newTestNetwork(t, 1)
	before := net.StateDict()

	require.NoError(t, net.ResetParameters())
	after := net.StateDict()

	assert.False(t, mat.Equal(before["0.weight"], after["0.weight"]))
	assert.True(t, mat.Equal(mat.NewDense(1, 4, nil), after["0.bias"]))
}
