package nn

import (
	"fmt"
	"math"
	"strings"

	"github.com/born-ml/mlp/internal/parallel"
	"github.com/born-ml/mlp/internal/tensor"
	"gonum.org/v1/gonum/mat"
)

// ActivationKind identifies an activation variant.
type ActivationKind int

// Activation kinds.
const (
	KindLinear ActivationKind = iota
	KindReLU
	KindSigmoid
	KindTanh
)

// String returns the lower-case activation name.
func (k ActivationKind) String() string {
	switch k {
	case KindLinear:
		return "linear"
	case KindReLU:
		return "relu"
	case KindSigmoid:
		return "sigmoid"
	case KindTanh:
		return "tanh"
	default:
		return fmt.Sprintf("ActivationKind(%d)", int(k))
	}
}

// Activation is a stateful element-wise nonlinearity.
//
// Forward and Backward form a two-phase protocol. Forward records whatever
// the derivative needs and moves the instance into the ready state; Backward
// requires that state, multiplies dA element-wise by the local derivative at
// the recorded point, and consumes the record. Calling Backward without a
// preceding Forward returns ErrIllegalState, and a dA whose shape differs from
// the forward batch returns ErrInvalidArgument.
//
// An Activation instance belongs to exactly one layer and is not safe for
// concurrent use.
type Activation interface {
	// Forward applies the function to z [batch x n] and returns a new matrix.
	Forward(z *mat.Dense) (*mat.Dense, error)

	// Backward returns dA ⊙ f'(cached point) as a new matrix.
	Backward(dA *mat.Dense) (*mat.Dense, error)

	// Kind identifies the variant.
	Kind() ActivationKind

	// Ready reports whether a Forward is waiting for its Backward.
	Ready() bool

	// Reset drops the forward record.
	Reset()
}

// NewActivation returns a fresh activation of the given kind.
func NewActivation(kind ActivationKind) (Activation, error) {
	switch kind {
	case KindLinear:
		return NewLinear(), nil
	case KindReLU:
		return NewReLU(), nil
	case KindSigmoid:
		return NewSigmoid(), nil
	case KindTanh:
		return NewTanh(), nil
	default:
		return nil, fmt.Errorf("NewActivation: %w: unknown activation %v", ErrInvalidArgument, kind)
	}
}

// ParseActivation returns a fresh activation by name
// ("relu", "sigmoid", "tanh", "linear" or "identity").
func ParseActivation(name string) (Activation, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "linear", "identity":
		return NewLinear(), nil
	case "relu":
		return NewReLU(), nil
	case "sigmoid":
		return NewSigmoid(), nil
	case "tanh":
		return NewTanh(), nil
	default:
		return nil, fmt.Errorf("ParseActivation: %w: unknown activation %q", ErrInvalidArgument, name)
	}
}

// forwardRecord holds the state between Forward and Backward.
//
// point is the matrix the derivative is evaluated at (nil for Linear, whose
// derivative is constant); shape is the forward batch shape.
type forwardRecord struct {
	point *mat.Dense
	shape tensor.Shape
	ready bool
	cfg   parallel.Config
}

func (r *forwardRecord) Ready() bool {
	return r.ready
}

func (r *forwardRecord) Reset() {
	r.point = nil
	r.shape = tensor.Shape{}
	r.ready = false
}

func (r *forwardRecord) record(point *mat.Dense, shape tensor.Shape) {
	r.point = point
	r.shape = shape
	r.ready = true
}

// take validates dA against the record and consumes it.
func (r *forwardRecord) take(op string, dA *mat.Dense) (*mat.Dense, error) {
	if !r.ready {
		return nil, fmt.Errorf("%s: %w: backward called without a preceding forward", op, ErrIllegalState)
	}
	if err := tensor.RequireNonEmpty(op, "gradient", dA); err != nil {
		return nil, err
	}
	if err := tensor.RequireShape(op, dA, r.shape); err != nil {
		return nil, err
	}
	point := r.point
	r.Reset()
	return point, nil
}

// apply returns a new matrix with out[i][j] = f(src[i][j]), row-parallel.
func apply(src *mat.Dense, f func(v float64) float64, cfg parallel.Config) *mat.Dense {
	rows, cols := src.Dims()
	out := mat.NewDense(rows, cols, nil)
	parallel.For(rows, func(i int) {
		in := src.RawRowView(i)
		dst := out.RawRowView(i)
		for j := range dst {
			dst[j] = f(in[j])
		}
	}, cfg)
	return out
}

// scaleBy returns a new matrix with out[i][j] = dA[i][j] * d(point[i][j]).
func scaleBy(dA, point *mat.Dense, d func(v float64) float64, cfg parallel.Config) *mat.Dense {
	rows, cols := dA.Dims()
	out := mat.NewDense(rows, cols, nil)
	parallel.For(rows, func(i int) {
		g := dA.RawRowView(i)
		p := point.RawRowView(i)
		dst := out.RawRowView(i)
		for j := range dst {
			dst[j] = g[j] * d(p[j])
		}
	}, cfg)
	return out
}

// ReLU is a Rectified Linear Unit activation.
//
// Applies the element-wise function: f(x) = max(0, x).
// The derivative is 1 where the cached pre-activation is > 0 and 0
// elsewhere, including at exactly 0.
type ReLU struct {
	forwardRecord
}

// NewReLU creates a new ReLU activation.
func NewReLU() *ReLU {
	return &ReLU{forwardRecord{cfg: parallel.DefaultConfig()}}
}

// Forward applies ReLU and caches a copy of z.
func (r *ReLU) Forward(z *mat.Dense) (*mat.Dense, error) {
	if err := tensor.RequireNonEmpty("ReLU.Forward", "input", z); err != nil {
		return nil, err
	}
	r.record(mat.DenseCopyOf(z), tensor.ShapeOf(z))
	return apply(z, func(v float64) float64 { return math.Max(0, v) }, r.cfg), nil
}

// Backward masks dA by the sign of the cached pre-activation.
func (r *ReLU) Backward(dA *mat.Dense) (*mat.Dense, error) {
	z, err := r.take("ReLU.Backward", dA)
	if err != nil {
		return nil, err
	}
	return scaleBy(dA, z, func(v float64) float64 {
		if v > 0 {
			return 1
		}
		return 0
	}, r.cfg), nil
}

// Kind implements Activation.
func (r *ReLU) Kind() ActivationKind { return KindReLU }

// Sigmoid is a logistic activation.
//
// Applies σ(x) = 1 / (1 + exp(-x)), squashing values into (0, 1).
// The derivative is s·(1−s) where s is the cached output.
type Sigmoid struct {
	forwardRecord
}

// NewSigmoid creates a new Sigmoid activation.
func NewSigmoid() *Sigmoid {
	return &Sigmoid{forwardRecord{cfg: parallel.DefaultConfig()}}
}

// sigmoid evaluates σ(x) without overflowing exp for large |x|.
func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

// Forward applies σ and caches the output.
func (s *Sigmoid) Forward(z *mat.Dense) (*mat.Dense, error) {
	if err := tensor.RequireNonEmpty("Sigmoid.Forward", "input", z); err != nil {
		return nil, err
	}
	out := apply(z, sigmoid, s.cfg)
	s.record(out, tensor.ShapeOf(z))
	return mat.DenseCopyOf(out), nil
}

// Backward returns dA ⊙ s(1−s).
func (s *Sigmoid) Backward(dA *mat.Dense) (*mat.Dense, error) {
	out, err := s.take("Sigmoid.Backward", dA)
	if err != nil {
		return nil, err
	}
	return scaleBy(dA, out, func(v float64) float64 { return v * (1 - v) }, s.cfg), nil
}

// Kind implements Activation.
func (s *Sigmoid) Kind() ActivationKind { return KindSigmoid }

// Tanh is a hyperbolic tangent activation.
//
// Squashes values into (-1, 1). The derivative is 1 − t² where t is the
// cached output.
type Tanh struct {
	forwardRecord
}

// NewTanh creates a new Tanh activation.
func NewTanh() *Tanh {
	return &Tanh{forwardRecord{cfg: parallel.DefaultConfig()}}
}

// Forward applies tanh and caches the output.
func (t *Tanh) Forward(z *mat.Dense) (*mat.Dense, error) {
	if err := tensor.RequireNonEmpty("Tanh.Forward", "input", z); err != nil {
		return nil, err
	}
	out := apply(z, math.Tanh, t.cfg)
	t.record(out, tensor.ShapeOf(z))
	return mat.DenseCopyOf(out), nil
}

// Backward returns dA ⊙ (1 − t²).
func (t *Tanh) Backward(dA *mat.Dense) (*mat.Dense, error) {
	out, err := t.take("Tanh.Backward", dA)
	if err != nil {
		return nil, err
	}
	return scaleBy(dA, out, func(v float64) float64 { return 1 - v*v }, t.cfg), nil
}

// Kind implements Activation.
func (t *Tanh) Kind() ActivationKind { return KindTanh }

// Linear is the identity activation. Its derivative is 1 everywhere.
type Linear struct {
	forwardRecord
}

// NewLinear creates a new identity activation.
func NewLinear() *Linear {
	return &Linear{forwardRecord{cfg: parallel.DefaultConfig()}}
}

// Forward returns a copy of z.
func (l *Linear) Forward(z *mat.Dense) (*mat.Dense, error) {
	if err := tensor.RequireNonEmpty("Linear.Forward", "input", z); err != nil {
		return nil, err
	}
	l.record(nil, tensor.ShapeOf(z))
	return mat.DenseCopyOf(z), nil
}

// Backward returns a copy of dA.
func (l *Linear) Backward(dA *mat.Dense) (*mat.Dense, error) {
	if _, err := l.take("Linear.Backward", dA); err != nil {
		return nil, err
	}
	return mat.DenseCopyOf(dA), nil
}

// Kind implements Activation.
func (l *Linear) Kind() ActivationKind { return KindLinear }
