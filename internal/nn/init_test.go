package nn_test

import (
	"math"
	"testing"

	"github.com/born-ml/mlp/internal/nn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

func sampleStdDev(m *mat.Dense) (mean, std float64) {
	r, c := m.Dims()
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		data = append(data, m.RawRowView(i)...)
	}
	return stat.MeanStdDev(data, nil)
}

func TestInitializers_Shape(t *testing.T) {
	uniform, err := nn.NewUniform(-1, 1, nn.WithSeed(1))
	require.NoError(t, err)

	for _, init := range []nn.Initializer{nn.NewHe(nn.WithSeed(1)), nn.NewXavier(nn.WithSeed(1)), uniform} {
		t.Run(init.Name(), func(t *testing.T) {
			w, err := init.Init(3, 7)
			require.NoError(t, err)
			r, c := w.Dims()
			assert.Equal(t, 3, r)
			assert.Equal(t, 7, c)
		})
	}
}

func TestInitializers_InvalidDims(t *testing.T) {
	uniform, err := nn.NewUniform(0, 1)
	require.NoError(t, err)

	for _, init := range []nn.Initializer{nn.NewHe(), nn.NewXavier(), uniform} {
		for _, dims := range [][2]int{{0, 3}, {3, 0}, {-1, 2}} {
			_, err := init.Init(dims[0], dims[1])
			assert.ErrorIs(t, err, nn.ErrInvalidArgument, "%s %v", init.Name(), dims)
		}
	}
}

func TestHe_Distribution(t *testing.T) {
	w, err := nn.NewHe(nn.WithSeed(7)).Init(200, 100)
	require.NoError(t, err)

	mean, std := sampleStdDev(w)
	assert.InDelta(t, 0, mean, 0.01)
	assert.InDelta(t, math.Sqrt(2.0/200), std, 0.005)
}

func TestXavier_Distribution(t *testing.T) {
	w, err := nn.NewXavier(nn.WithSeed(7)).Init(150, 250)
	require.NoError(t, err)

	mean, std := sampleStdDev(w)
	assert.InDelta(t, 0, mean, 0.01)
	assert.InDelta(t, math.Sqrt(2.0/400), std, 0.003)
}

func TestUniform_Bounds(t *testing.T) {
	u, err := nn.NewUniform(-0.5, 0.25, nn.WithSeed(3))
	require.NoError(t, err)

	w, err := u.Init(50, 40)
	require.NoError(t, err)
	r, c := w.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := w.At(i, j)
			assert.GreaterOrEqual(t, v, -0.5)
			assert.Less(t, v, 0.25)
		}
	}

	lo, hi := u.Bounds()
	assert.Equal(t, -0.5, lo)
	assert.Equal(t, 0.25, hi)
}

func TestUniform_InvalidRange(t *testing.T) {
	_, err := nn.NewUniform(1, 1)
	assert.ErrorIs(t, err, nn.ErrInvalidArgument)

	_, err = nn.NewUniform(2, 1)
	assert.ErrorIs(t, err, nn.ErrInvalidArgument)
}

func TestInitializers_SeedReproducible(t *testing.T) {
	a, err := nn.NewXavier(nn.WithSeed(42)).Init(4, 3)
	require.NoError(t, err)
	b, err := nn.NewXavier(nn.WithSeed(42)).Init(4, 3)
	require.NoError(t, err)
	c, err := nn.NewXavier(nn.WithSeed(43)).Init(4, 3)
	require.NoError(t, err)

	assert.True(t, mat.Equal(a, b))
	assert.False(t, mat.Equal(a, c))
}

func TestInitializers_StreamAdvances(t *testing.T) {
	he := nn.NewHe(nn.WithSeed(5))
	a, err := he.Init(3, 3)
	require.NoError(t, err)
	b, err := he.Init(3, 3)
	require.NoError(t, err)

	assert.False(t, mat.Equal(a, b), "successive draws must continue the stream")
}
