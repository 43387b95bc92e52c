package optim

import (
	"fmt"
	"math"

	"github.com/born-ml/mlp/internal/nn"
	"gonum.org/v1/gonum/mat"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Update rule:
//
//	m_t = beta1 * m_{t-1} + (1-beta1) * gradient       // First moment
//	v_t = beta2 * v_{t-1} + (1-beta2) * gradient²      // Second moment
//	m_hat = m_t / (1 - beta1^t)                        // Bias correction
//	v_hat = v_t / (1 - beta2^t)                        // Bias correction
//	param = param - lr * m_hat / (sqrt(v_hat) + eps)  // Parameter update
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
//
// Example:
//
//	optimizer, err := optim.NewAdam(optim.AdamConfig{
//	    LR:    0.001,
//	    Betas: [2]float64{0.9, 0.999},
//	    Eps:   1e-8,
//	})
type Adam struct {
	lr    float64
	beta1 float64
	beta2 float64
	eps   float64
	t     int    // Timestep for bias correction
	m     *slots // First moment estimates
	v     *slots // Second moment estimates
}

// AdamConfig holds configuration for Adam optimizer.
type AdamConfig struct {
	LR    float64    // Learning rate (default: 0.001)
	Betas [2]float64 // Coefficients for computing running averages (default: [0.9, 0.999])
	Eps   float64    // Term for numerical stability (default: 1e-8)
}

// NewAdam creates a new Adam optimizer.
//
// Zero fields select the defaults:
//   - LR: 0.001
//   - Beta1: 0.9
//   - Beta2: 0.999
//   - Eps: 1e-8
//
// Returns ErrInvalidArgument for a negative learning rate or epsilon, or
// betas outside [0, 1).
func NewAdam(config AdamConfig) (*Adam, error) {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Betas[0] == 0 {
		config.Betas[0] = 0.9
	}
	if config.Betas[1] == 0 {
		config.Betas[1] = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}

	if err := checkLR("NewAdam", config.LR); err != nil {
		return nil, err
	}
	for i, beta := range config.Betas {
		if err := checkUnitInterval("NewAdam", fmt.Sprintf("beta%d", i+1), beta); err != nil {
			return nil, err
		}
	}
	if !(config.Eps > 0) {
		return nil, fmt.Errorf("NewAdam: %w: eps must be positive, got %g", nn.ErrInvalidArgument, config.Eps)
	}

	return &Adam{
		lr:    config.LR,
		beta1: config.Betas[0],
		beta2: config.Betas[1],
		eps:   config.Eps,
		m:     newSlots(),
		v:     newSlots(),
	}, nil
}

// Step performs a single optimization step using Adam algorithm.
//
//  1. Update biased first moment estimate
//  2. Update biased second moment estimate
//  3. Compute bias-corrected moment estimates
//  4. Update parameters
func (a *Adam) Step(params []*nn.Parameter) error {
	if err := checkParams("Adam.Step", params); err != nil {
		return err
	}

	a.t++
	biasCorrection1 := 1.0 - math.Pow(a.beta1, float64(a.t))
	biasCorrection2 := 1.0 - math.Pow(a.beta2, float64(a.t))

	for _, param := range params {
		a.updateParameter(param, a.m.get(param), a.v.get(param), biasCorrection1, biasCorrection2)
	}
	return nil
}

// updateParameter performs Adam update for a single parameter.
func (a *Adam) updateParameter(param *nn.Parameter, m, v *mat.Dense, biasCorrection1, biasCorrection2 float64) {
	value, grad := param.Value(), param.Grad()
	rows, _ := value.Dims()
	for r := 0; r < rows; r++ {
		gradRow := grad.RawRowView(r)
		mRow := m.RawRowView(r)
		vRow := v.RawRowView(r)
		paramRow := value.RawRowView(r)
		for i, g := range gradRow {
			mRow[i] = a.beta1*mRow[i] + (1.0-a.beta1)*g
			vRow[i] = a.beta2*vRow[i] + (1.0-a.beta2)*g*g

			mHat := mRow[i] / biasCorrection1
			vHat := vRow[i] / biasCorrection2

			paramRow[i] -= a.lr * mHat / (math.Sqrt(vHat) + a.eps)
		}
	}
}

// GetLR returns the current learning rate.
func (a *Adam) GetLR() float64 {
	return a.lr
}

// SetLR updates the learning rate.
func (a *Adam) SetLR(lr float64) error {
	if err := checkLR("Adam.SetLR", lr); err != nil {
		return err
	}
	a.lr = lr
	return nil
}

// GetTimestep returns the current timestep.
func (a *Adam) GetTimestep() int {
	return a.t
}

// Name returns "adam".
func (a *Adam) Name() string {
	return "adam"
}

// StateDict returns copies of the moment buffers keyed "m.{i}" and "v.{i}".
// The timestep is available from GetTimestep.
func (a *Adam) StateDict() map[string]*mat.Dense {
	stateDict := make(map[string]*mat.Dense)
	a.m.export("m", stateDict)
	a.v.export("v", stateDict)
	return stateDict
}

// LoadStateDict restores moment buffers for params and sets the timestep.
func (a *Adam) LoadStateDict(params []*nn.Parameter, stateDict map[string]*mat.Dense, timestep int) error {
	if timestep < 0 {
		return fmt.Errorf("Adam.LoadStateDict: %w: negative timestep %d", nn.ErrInvalidArgument, timestep)
	}
	if err := checkParams("Adam.LoadStateDict", params); err != nil {
		return err
	}
	m, v := newSlots(), newSlots()
	if err := m.load("Adam.LoadStateDict", "m", params, stateDict); err != nil {
		return err
	}
	if err := v.load("Adam.LoadStateDict", "v", params, stateDict); err != nil {
		return err
	}
	a.m, a.v, a.t = m, v, timestep
	return nil
}
