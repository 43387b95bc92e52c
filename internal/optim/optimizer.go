// Package optim implements optimization algorithms for training neural networks.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//
// Optimizers read the gradient buffer of each nn.Parameter, which the owning
// layer overwrites on every backward pass, and update the value in place.
//
// Example usage:
//
//	optimizer, err := optim.NewAdam(optim.AdamConfig{LR: 0.001})
//
//	// Training loop
//	for _, batch := range batches {
//	    out, _ := net.Forward(batch.X)
//	    grad, _ := loss.ComputeGradient(out, batch.Y)
//	    _, _ = net.Backward(grad)
//
//	    // Update parameters
//	    if err := optimizer.Step(net.Parameters()); err != nil {
//	        return err
//	    }
//	}
package optim

import (
	"fmt"

	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/tensor"
	"gonum.org/v1/gonum/mat"
)

// Optimizer is the base interface for all optimization algorithms.
//
// Optimizers update model parameters based on computed gradients to
// minimize the loss function during training.
type Optimizer interface {
	// Step applies one update to every parameter using its current
	// gradient buffer.
	//
	// Example:
	//   _, _ = net.Backward(grad)
	//   err := optimizer.Step(net.Parameters())
	Step(params []*nn.Parameter) error

	// GetLR returns the current learning rate.
	//
	// Useful for monitoring and learning rate scheduling.
	GetLR() float64

	// Name identifies the algorithm in logs.
	Name() string
}

func checkLR(op string, lr float64) error {
	if !(lr > 0) {
		return fmt.Errorf("%s: %w: learning rate must be positive, got %g", op, nn.ErrInvalidArgument, lr)
	}
	return nil
}

func checkUnitInterval(op, name string, v float64) error {
	if !(v >= 0 && v < 1) {
		return fmt.Errorf("%s: %w: %s must be in [0, 1), got %g", op, nn.ErrInvalidArgument, name, v)
	}
	return nil
}

func checkParams(op string, params []*nn.Parameter) error {
	for i, p := range params {
		if p == nil {
			return fmt.Errorf("%s: %w: parameter %d is nil", op, nn.ErrInvalidArgument, i)
		}
	}
	return nil
}

// slots holds one per-parameter buffer in first-seen order, so state
// dictionaries have stable indices.
type slots struct {
	index   map[*nn.Parameter]int
	buffers []*mat.Dense
}

func newSlots() *slots {
	return &slots{index: make(map[*nn.Parameter]int)}
}

// get returns the buffer for p, allocating a zero one on first use.
func (s *slots) get(p *nn.Parameter) *mat.Dense {
	if i, ok := s.index[p]; ok {
		return s.buffers[i]
	}
	shape := p.Shape()
	buf := mat.NewDense(shape.Rows, shape.Cols, nil)
	s.index[p] = len(s.buffers)
	s.buffers = append(s.buffers, buf)
	return buf
}

func (s *slots) export(prefix string, dst map[string]*mat.Dense) {
	for i, buf := range s.buffers {
		dst[fmt.Sprintf("%s.%d", prefix, i)] = mat.DenseCopyOf(buf)
	}
}

// load replaces the slots with the buffers "<prefix>.<i>" for params[i].
// Parameters without a key start from zero state.
func (s *slots) load(op, prefix string, params []*nn.Parameter, stateDict map[string]*mat.Dense) error {
	for i, p := range params {
		buf, ok := stateDict[fmt.Sprintf("%s.%d", prefix, i)]
		if !ok {
			continue
		}
		if err := tensor.RequireShape(fmt.Sprintf("%s %s.%d", op, prefix, i), buf, p.Shape()); err != nil {
			return err
		}
	}
	fresh := newSlots()
	for i, p := range params {
		slot := fresh.get(p)
		if buf, ok := stateDict[fmt.Sprintf("%s.%d", prefix, i)]; ok {
			slot.Copy(buf)
		}
	}
	*s = *fresh
	return nil
}
