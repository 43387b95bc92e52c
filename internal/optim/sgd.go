package optim

import (
	"fmt"

	"github.com/born-ml/mlp/internal/nn"
	"gonum.org/v1/gonum/mat"
)

// SGD implements Stochastic Gradient Descent optimizer with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// Without momentum the step is identical to Network.UpdateParameters.
//
// Example:
//
//	optimizer, err := optim.NewSGD(optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	})
type SGD struct {
	lr         float64
	momentum   float64
	velocities *slots
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer.
//
// A zero LR selects the default. Returns ErrInvalidArgument for a negative
// learning rate or a momentum outside [0, 1).
func NewSGD(config SGDConfig) (*SGD, error) {
	if config.LR == 0 {
		config.LR = 0.01
	}
	if err := checkLR("NewSGD", config.LR); err != nil {
		return nil, err
	}
	if err := checkUnitInterval("NewSGD", "momentum", config.Momentum); err != nil {
		return nil, err
	}
	return &SGD{
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: newSlots(),
	}, nil
}

// Step performs a single optimization step.
//
//   - Without momentum: param -= lr * grad
//   - With momentum: velocity = momentum * velocity + grad, param -= lr * velocity
func (s *SGD) Step(params []*nn.Parameter) error {
	if err := checkParams("SGD.Step", params); err != nil {
		return err
	}
	for _, param := range params {
		value, grad := param.Value(), param.Grad()
		if s.momentum == 0 {
			value.AddScaled(value, -s.lr, grad)
			continue
		}
		velocity := s.velocities.get(param)
		velocity.Scale(s.momentum, velocity)
		velocity.Add(velocity, grad)
		value.AddScaled(value, -s.lr, velocity)
	}
	return nil
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float64 {
	return s.lr
}

// SetLR updates the learning rate.
//
// Useful for learning rate scheduling during training.
func (s *SGD) SetLR(lr float64) error {
	if err := checkLR("SGD.SetLR", lr); err != nil {
		return err
	}
	s.lr = lr
	return nil
}

// Momentum returns the momentum factor.
func (s *SGD) Momentum() float64 {
	return s.momentum
}

// Name returns "sgd".
func (s *SGD) Name() string {
	return "sgd"
}

// StateDict returns the optimizer state for serialization.
//
// For SGD with momentum, this exports copies of the velocity buffers in the
// order parameters were first stepped. Without momentum, returns an empty map.
//
// State keys: "velocity.{param_index}".
func (s *SGD) StateDict() map[string]*mat.Dense {
	stateDict := make(map[string]*mat.Dense)
	if s.momentum == 0 {
		return stateDict
	}
	s.velocities.export("velocity", stateDict)
	return stateDict
}

// LoadStateDict restores velocity buffers for params, matched by index.
//
// Returns an error if a velocity shape doesn't match its parameter. Without
// momentum the state is ignored.
func (s *SGD) LoadStateDict(params []*nn.Parameter, stateDict map[string]*mat.Dense) error {
	if s.momentum == 0 {
		return nil
	}
	if err := checkParams("SGD.LoadStateDict", params); err != nil {
		return err
	}
	if err := s.velocities.load("SGD.LoadStateDict", "velocity", params, stateDict); err != nil {
		return fmt.Errorf("SGD.LoadStateDict: %w", err)
	}
	return nil
}
