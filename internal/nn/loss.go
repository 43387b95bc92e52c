package nn

import (
	"fmt"
	"math"
	"strings"

	"github.com/born-ml/mlp/internal/parallel"
	"github.com/born-ml/mlp/internal/tensor"
	"gonum.org/v1/gonum/mat"
)

// Loss is a scalar objective over a batch.
//
// Both operations require non-empty predictions and targets of identical
// shape [batch x outputSize]; they fail with ErrInvalidArgument (a
// *ShapeError for dimension mismatches) before reading any data.
type Loss interface {
	// ComputeLoss returns the scalar loss of the batch.
	ComputeLoss(predictions, targets *mat.Dense) (float64, error)

	// ComputeGradient returns the gradient of the loss with respect to the
	// predictions as a new [batch x outputSize] matrix.
	ComputeGradient(predictions, targets *mat.Dense) (*mat.Dense, error)

	// Name returns the loss name.
	Name() string
}

// SigmoidFused is implemented by losses whose ComputeGradient already
// includes the derivative of a Sigmoid output layer, i.e. it returns the
// gradient with respect to the output layer's pre-activation.
//
// Trainers must pair such a loss with a Sigmoid output layer and feed the
// gradient past that layer's activation (Network.BackwardPreActivation).
type SigmoidFused interface {
	FusesSigmoid() bool
}

// ParseLoss returns a loss by name ("cross-entropy", "bce", "mae", "mse").
func ParseLoss(name string) (Loss, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "cross-entropy", "crossentropy", "bce":
		return NewCrossEntropy(), nil
	case "mae", "mean-absolute-error":
		return NewMeanAbsoluteError(), nil
	case "mse", "mean-squared-error":
		return NewMeanSquaredError(), nil
	default:
		return nil, fmt.Errorf("ParseLoss: %w: unknown loss %q", ErrInvalidArgument, name)
	}
}

// sumElements returns Σ f(p, t) over all elements, reduced in row order.
func sumElements(predictions, targets *mat.Dense, f func(p, t float64) float64, cfg parallel.Config) float64 {
	rows, _ := predictions.Dims()
	return parallel.SumRows(rows, func(i int) float64 {
		p := predictions.RawRowView(i)
		t := targets.RawRowView(i)
		var s float64
		for j := range p {
			s += f(p[j], t[j])
		}
		return s
	}, cfg)
}

// gradElements returns a new matrix with g[i][j] = f(p[i][j], t[i][j]).
func gradElements(predictions, targets *mat.Dense, f func(p, t float64) float64, cfg parallel.Config) *mat.Dense {
	rows, cols := predictions.Dims()
	out := mat.NewDense(rows, cols, nil)
	parallel.For(rows, func(i int) {
		p := predictions.RawRowView(i)
		t := targets.RawRowView(i)
		dst := out.RawRowView(i)
		for j := range dst {
			dst[j] = f(p[j], t[j])
		}
	}, cfg)
	return out
}

// CrossEntropyEpsilon bounds predictions into [ε, 1−ε] before taking logs.
const CrossEntropyEpsilon = 1e-15

// CrossEntropy is binary cross-entropy over every batch × class entry.
//
// Loss = mean(−t·ln(p) − (1−t)·ln(1−p)) with p clipped into [ε, 1−ε], so
// predictions outside (0, 1) never produce NaN or Inf.
//
// ComputeGradient returns (p − t) / batch per entry. That is the gradient
// with respect to the pre-activation of a Sigmoid output, not with respect to
// p, so CrossEntropy implements SigmoidFused.
type CrossEntropy struct {
	cfg parallel.Config
}

// NewCrossEntropy creates a binary cross-entropy loss.
func NewCrossEntropy() *CrossEntropy {
	return &CrossEntropy{cfg: parallel.DefaultConfig()}
}

// ComputeLoss implements Loss.
func (c *CrossEntropy) ComputeLoss(predictions, targets *mat.Dense) (float64, error) {
	if err := tensor.RequireSameShape("CrossEntropy.ComputeLoss", predictions, targets); err != nil {
		return 0, err
	}
	n := float64(tensor.ShapeOf(predictions).NumElements())
	total := sumElements(predictions, targets, func(p, t float64) float64 {
		p = math.Max(CrossEntropyEpsilon, math.Min(1-CrossEntropyEpsilon, p))
		return -t*math.Log(p) - (1-t)*math.Log(1-p)
	}, c.cfg)
	return total / n, nil
}

// ComputeGradient implements Loss.
func (c *CrossEntropy) ComputeGradient(predictions, targets *mat.Dense) (*mat.Dense, error) {
	if err := tensor.RequireSameShape("CrossEntropy.ComputeGradient", predictions, targets); err != nil {
		return nil, err
	}
	batch, _ := predictions.Dims()
	scale := 1 / float64(batch)
	return gradElements(predictions, targets, func(p, t float64) float64 {
		return (p - t) * scale
	}, c.cfg), nil
}

// FusesSigmoid implements SigmoidFused.
func (c *CrossEntropy) FusesSigmoid() bool { return true }

// Name implements Loss.
func (c *CrossEntropy) Name() string { return "cross-entropy" }

// MeanAbsoluteError is the mean of |p − t| over every entry.
//
// The gradient is sign(p − t) / (batch · outputSize), with 0 chosen as the
// subgradient where p == t.
type MeanAbsoluteError struct {
	cfg parallel.Config
}

// NewMeanAbsoluteError creates a mean absolute error loss.
func NewMeanAbsoluteError() *MeanAbsoluteError {
	return &MeanAbsoluteError{cfg: parallel.DefaultConfig()}
}

// ComputeLoss implements Loss.
func (m *MeanAbsoluteError) ComputeLoss(predictions, targets *mat.Dense) (float64, error) {
	if err := tensor.RequireSameShape("MeanAbsoluteError.ComputeLoss", predictions, targets); err != nil {
		return 0, err
	}
	n := float64(tensor.ShapeOf(predictions).NumElements())
	total := sumElements(predictions, targets, func(p, t float64) float64 {
		return math.Abs(p - t)
	}, m.cfg)
	return total / n, nil
}

// ComputeGradient implements Loss.
func (m *MeanAbsoluteError) ComputeGradient(predictions, targets *mat.Dense) (*mat.Dense, error) {
	if err := tensor.RequireSameShape("MeanAbsoluteError.ComputeGradient", predictions, targets); err != nil {
		return nil, err
	}
	k := 1 / float64(tensor.ShapeOf(predictions).NumElements())
	return gradElements(predictions, targets, func(p, t float64) float64 {
		switch d := p - t; {
		case d > 0:
			return k
		case d < 0:
			return -k
		default:
			return 0
		}
	}, m.cfg), nil
}

// Name implements Loss.
func (m *MeanAbsoluteError) Name() string { return "mae" }

// MeanSquaredError is the mean of (p − t)² over every entry.
//
// The gradient is 2(p − t) / (batch · outputSize).
type MeanSquaredError struct {
	cfg parallel.Config
}

// NewMeanSquaredError creates a mean squared error loss.
func NewMeanSquaredError() *MeanSquaredError {
	return &MeanSquaredError{cfg: parallel.DefaultConfig()}
}

// ComputeLoss implements Loss.
func (m *MeanSquaredError) ComputeLoss(predictions, targets *mat.Dense) (float64, error) {
	if err := tensor.RequireSameShape("MeanSquaredError.ComputeLoss", predictions, targets); err != nil {
		return 0, err
	}
	n := float64(tensor.ShapeOf(predictions).NumElements())
	total := sumElements(predictions, targets, func(p, t float64) float64 {
		d := p - t
		return d * d
	}, m.cfg)
	return total / n, nil
}

// ComputeGradient implements Loss.
func (m *MeanSquaredError) ComputeGradient(predictions, targets *mat.Dense) (*mat.Dense, error) {
	if err := tensor.RequireSameShape("MeanSquaredError.ComputeGradient", predictions, targets); err != nil {
		return nil, err
	}
	k := 2 / float64(tensor.ShapeOf(predictions).NumElements())
	return gradElements(predictions, targets, func(p, t float64) float64 {
		return (p - t) * k
	}, m.cfg), nil
}

// Name implements Loss.
func (m *MeanSquaredError) Name() string { return "mse" }
