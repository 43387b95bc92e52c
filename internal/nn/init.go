package nn

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Initializer produces the initial weight matrix of a layer.
//
// Init returns a fresh [inputSize x outputSize] matrix and fails with
// ErrInvalidArgument when either dimension is <= 0. Each initializer owns its
// random source, so successive calls continue the same stream.
type Initializer interface {
	Init(inputSize, outputSize int) (*mat.Dense, error)
	Name() string
}

// InitOption configures an initializer.
type InitOption func(*initConfig)

type initConfig struct {
	src rand.Source
}

// WithSeed makes the initializer draw from a PCG source seeded with seed.
//
// Without it the source is seeded from process randomness.
func WithSeed(seed uint64) InitOption {
	return func(c *initConfig) {
		c.src = rand.NewPCG(seed, seed)
	}
}

// WithSource draws from an explicit random source.
func WithSource(src rand.Source) InitOption {
	return func(c *initConfig) {
		c.src = src
	}
}

func newInitConfig(opts []InitOption) initConfig {
	var c initConfig
	for _, opt := range opts {
		opt(&c)
	}
	if c.src == nil {
		//nolint:gosec // Weight initialization is not security-critical.
		c.src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return c
}

func checkInitDims(name string, inputSize, outputSize int) error {
	if inputSize <= 0 || outputSize <= 0 {
		return fmt.Errorf("%s.Init: %w: number of inputs and outputs must be positive, got %d x %d",
			name, ErrInvalidArgument, inputSize, outputSize)
	}
	return nil
}

// fill draws every element of a new [rows x cols] matrix from d.
func fill(rows, cols int, d interface{ Rand() float64 }) *mat.Dense {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = d.Rand()
	}
	return mat.NewDense(rows, cols, data)
}

// He (Kaiming) initialization for layers followed by ReLU.
//
// Draws weights from N(0, sqrt(2 / fan_in)).
type He struct {
	src rand.Source
}

// NewHe creates a He initializer.
func NewHe(opts ...InitOption) *He {
	return &He{src: newInitConfig(opts).src}
}

// Init implements Initializer.
func (h *He) Init(inputSize, outputSize int) (*mat.Dense, error) {
	if err := checkInitDims(h.Name(), inputSize, outputSize); err != nil {
		return nil, err
	}
	normal := distuv.Normal{
		Mu:    0,
		Sigma: math.Sqrt(2.0 / float64(inputSize)),
		Src:   h.src,
	}
	return fill(inputSize, outputSize, normal), nil
}

// Name implements Initializer.
func (h *He) Name() string {
	return "He"
}

// Xavier (Glorot) initialization for layers followed by saturating
// activations such as Sigmoid and Tanh.
//
// Draws weights from N(0, sqrt(2 / (fan_in + fan_out))).
type Xavier struct {
	src rand.Source
}

// NewXavier creates a Xavier initializer.
func NewXavier(opts ...InitOption) *Xavier {
	return &Xavier{src: newInitConfig(opts).src}
}

// Init implements Initializer.
func (x *Xavier) Init(inputSize, outputSize int) (*mat.Dense, error) {
	if err := checkInitDims(x.Name(), inputSize, outputSize); err != nil {
		return nil, err
	}
	normal := distuv.Normal{
		Mu:    0,
		Sigma: math.Sqrt(2.0 / float64(inputSize+outputSize)),
		Src:   x.src,
	}
	return fill(inputSize, outputSize, normal), nil
}

// Name implements Initializer.
func (x *Xavier) Name() string {
	return "Xavier"
}

// Uniform draws weights uniformly from [min, max).
type Uniform struct {
	min float64
	max float64
	src rand.Source
}

// NewUniform creates a uniform initializer over [minValue, maxValue).
//
// Returns ErrInvalidArgument if minValue >= maxValue.
func NewUniform(minValue, maxValue float64, opts ...InitOption) (*Uniform, error) {
	if !(minValue < maxValue) {
		return nil, fmt.Errorf("NewUniform: %w: min %g must be less than max %g", ErrInvalidArgument, minValue, maxValue)
	}
	return &Uniform{
		min: minValue,
		max: maxValue,
		src: newInitConfig(opts).src,
	}, nil
}

// Init implements Initializer.
func (u *Uniform) Init(inputSize, outputSize int) (*mat.Dense, error) {
	if err := checkInitDims(u.Name(), inputSize, outputSize); err != nil {
		return nil, err
	}
	uniform := distuv.Uniform{
		Min: u.min,
		Max: u.max,
		Src: u.src,
	}
	return fill(inputSize, outputSize, uniform), nil
}

// Name implements Initializer.
func (u *Uniform) Name() string {
	return "Uniform"
}

// Bounds returns the [min, max) range.
func (u *Uniform) Bounds() (minValue, maxValue float64) {
	return u.min, u.max
}
