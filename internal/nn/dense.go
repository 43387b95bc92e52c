package nn

import (
	"fmt"

	"github.com/born-ml/mlp/internal/tensor"
	"gonum.org/v1/gonum/mat"
)

// Dense implements a fully connected layer.
//
// Performs the transformation: y = act(x @ W + b)
// where:
//   - x is the input with shape [batch_size, input_size]
//   - W is the weight matrix with shape [input_size, output_size]
//   - b is the bias vector, stored as a [1, output_size] row
//   - act is the activation (identity when nil)
//
// Weights come from the configured Initializer. Biases start at zero.
//
// Example:
//
//	layer, err := nn.NewDense(784, 128, nn.NewHe(nn.WithSeed(42)), nn.NewReLU())
//	output, err := layer.Forward(input)  // shape: [batch, 128]
type Dense struct {
	inputSize   int
	outputSize  int
	weight      *Parameter // [input_size, output_size]
	bias        *Parameter // [1, output_size]
	activation  Activation
	initializer Initializer

	// Forward cache, valid while ready is true.
	input *mat.Dense // [batch, input_size]
	z     *mat.Dense // [batch, output_size]
	ready bool
}

// NewDense creates a new Dense layer.
//
// Parameters:
//   - inputSize: Number of input features (> 0)
//   - outputSize: Number of output features (> 0)
//   - init: Weight initializer (required)
//   - activation: Activation applied to the pre-activation, or nil for a linear layer
//
// Returns ErrMissingConfiguration if init is nil and ErrInvalidArgument for
// non-positive sizes.
func NewDense(inputSize, outputSize int, init Initializer, activation Activation) (*Dense, error) {
	if init == nil {
		return nil, fmt.Errorf("NewDense: %w: weight initializer is required", ErrMissingConfiguration)
	}
	w, err := initWeights(init, inputSize, outputSize)
	if err != nil {
		return nil, fmt.Errorf("NewDense: %w", err)
	}
	return &Dense{
		inputSize:   inputSize,
		outputSize:  outputSize,
		weight:      NewParameter("weight", w),
		bias:        NewParameter("bias", mat.NewDense(1, outputSize, nil)),
		activation:  activation,
		initializer: init,
	}, nil
}

func initWeights(init Initializer, inputSize, outputSize int) (*mat.Dense, error) {
	w, err := init.Init(inputSize, outputSize)
	if err != nil {
		return nil, err
	}
	if err := tensor.RequireShape(init.Name()+".Init", w, tensor.Shape{Rows: inputSize, Cols: outputSize}); err != nil {
		return nil, err
	}
	return w, nil
}

// Forward computes the output of the dense layer.
//
// Caches the input and the pre-activation z = x @ W + b, then returns act(z),
// or z itself when the layer is linear.
//
// Input shape: [batch_size, input_size]
// Output shape: [batch_size, output_size]
func (d *Dense) Forward(input *mat.Dense) (*mat.Dense, error) {
	if err := tensor.RequireNonEmpty("Dense.Forward", "input", input); err != nil {
		return nil, err
	}
	batch, cols := input.Dims()
	if cols != d.inputSize {
		return nil, &ShapeError{
			Op:   "Dense.Forward",
			Want: tensor.Shape{Rows: batch, Cols: d.inputSize},
			Got:  tensor.Shape{Rows: batch, Cols: cols},
		}
	}

	z := mat.NewDense(batch, d.outputSize, nil)
	z.Mul(input, d.weight.value)
	b := d.bias.value.RawRowView(0)
	for i := 0; i < batch; i++ {
		row := z.RawRowView(i)
		for j := range row {
			row[j] += b[j]
		}
	}

	d.input = mat.DenseCopyOf(input)
	d.z = z
	d.ready = true

	if d.activation == nil {
		return mat.DenseCopyOf(z), nil
	}
	out, err := d.activation.Forward(z)
	if err != nil {
		d.clearCache()
		return nil, fmt.Errorf("Dense.Forward: %w", err)
	}
	return out, nil
}

// Backward propagates the gradient with respect to the layer output.
//
// Using the batch cached by the matching Forward call:
//
//	dz    = act.Backward(outputGradient)   (outputGradient when linear)
//	dW    = (1/batch) · xᵀ @ dz
//	db    = (1/batch) · Σ_batch dz
//	dx    = dz @ Wᵀ
//
// The gradient buffers are overwritten and the cache is consumed.
// Returns dx with shape [batch_size, input_size].
func (d *Dense) Backward(outputGradient *mat.Dense) (*mat.Dense, error) {
	if err := d.checkBackward("Dense.Backward", outputGradient); err != nil {
		return nil, err
	}
	dz := outputGradient
	if d.activation != nil {
		var err error
		dz, err = d.activation.Backward(outputGradient)
		if err != nil {
			return nil, fmt.Errorf("Dense.Backward: %w", err)
		}
	}
	return d.backwardFrom(dz), nil
}

// BackwardPreActivation is Backward with dz supplied directly.
//
// The activation record is dropped without evaluating its derivative.
func (d *Dense) BackwardPreActivation(dz *mat.Dense) (*mat.Dense, error) {
	if err := d.checkBackward("Dense.BackwardPreActivation", dz); err != nil {
		return nil, err
	}
	if d.activation != nil {
		d.activation.Reset()
	}
	return d.backwardFrom(dz), nil
}

func (d *Dense) checkBackward(op string, g *mat.Dense) error {
	if !d.ready {
		return fmt.Errorf("%s: %w: backward called without a preceding forward", op, ErrIllegalState)
	}
	if err := tensor.RequireNonEmpty(op, "gradient", g); err != nil {
		return err
	}
	batch, _ := d.input.Dims()
	return tensor.RequireShape(op, g, tensor.Shape{Rows: batch, Cols: d.outputSize})
}

func (d *Dense) backwardFrom(dz *mat.Dense) *mat.Dense {
	batch, _ := d.input.Dims()
	scale := 1 / float64(batch)

	dW := d.weight.grad
	dW.Mul(d.input.T(), dz)
	dW.Scale(scale, dW)

	db := d.bias.grad.RawRowView(0)
	for j := range db {
		var sum float64
		for b := 0; b < batch; b++ {
			sum += dz.At(b, j)
		}
		db[j] = sum * scale
	}

	dx := mat.NewDense(batch, d.inputSize, nil)
	dx.Mul(dz, d.weight.value.T())

	d.clearCache()
	return dx
}

func (d *Dense) clearCache() {
	d.input = nil
	d.z = nil
	d.ready = false
}

// UpdateParameters applies W -= lr·dW and b -= lr·db.
//
// Returns ErrInvalidArgument if learningRate <= 0.
func (d *Dense) UpdateParameters(learningRate float64) error {
	if !(learningRate > 0) {
		return fmt.Errorf("Dense.UpdateParameters: %w: learning rate must be positive, got %g", ErrInvalidArgument, learningRate)
	}
	for _, p := range d.Parameters() {
		p.value.AddScaled(p.value, -learningRate, p.grad)
	}
	return nil
}

// ResetParameters re-draws the weights from the initializer, zeroes the
// biases and gradient buffers and drops the forward cache.
func (d *Dense) ResetParameters() error {
	w, err := initWeights(d.initializer, d.inputSize, d.outputSize)
	if err != nil {
		return fmt.Errorf("Dense.ResetParameters: %w", err)
	}
	d.weight.value.Copy(w)
	d.bias.value.Zero()
	d.weight.ZeroGrad()
	d.bias.ZeroGrad()
	d.clearCache()
	if d.activation != nil {
		d.activation.Reset()
	}
	return nil
}

// Parameters returns [weight, bias].
func (d *Dense) Parameters() []*Parameter {
	return []*Parameter{d.weight, d.bias}
}

// Weight returns the weight parameter.
func (d *Dense) Weight() *Parameter {
	return d.weight
}

// Bias returns the bias parameter.
func (d *Dense) Bias() *Parameter {
	return d.bias
}

// Weights returns a copy of the weight matrix [input_size, output_size].
func (d *Dense) Weights() *mat.Dense {
	return mat.DenseCopyOf(d.weight.value)
}

// Biases returns a copy of the bias vector.
func (d *Dense) Biases() []float64 {
	return mat.Row(nil, 0, d.bias.value)
}

// WeightGradients returns a copy of the weight gradient buffer.
func (d *Dense) WeightGradients() *mat.Dense {
	return mat.DenseCopyOf(d.weight.grad)
}

// BiasGradients returns a copy of the bias gradient buffer.
func (d *Dense) BiasGradients() []float64 {
	return mat.Row(nil, 0, d.bias.grad)
}

// Activation returns the layer activation, or nil for a linear layer.
func (d *Dense) Activation() Activation {
	return d.activation
}

// Initializer returns the weight initializer.
func (d *Dense) Initializer() Initializer {
	return d.initializer
}

// InputSize returns the number of input features.
func (d *Dense) InputSize() int {
	return d.inputSize
}

// OutputSize returns the number of output features.
func (d *Dense) OutputSize() int {
	return d.outputSize
}

// Ready reports whether a Forward is waiting for its Backward.
func (d *Dense) Ready() bool {
	return d.ready
}

// String describes the layer, e.g. "Dense(2 -> 1, sigmoid)".
func (d *Dense) String() string {
	act := KindLinear
	if d.activation != nil {
		act = d.activation.Kind()
	}
	return fmt.Sprintf("Dense(%d -> %d, %s)", d.inputSize, d.outputSize, act)
}

// StateDict returns copies of the parameters keyed "weight" and "bias".
func (d *Dense) StateDict() map[string]*mat.Dense {
	return map[string]*mat.Dense{
		"weight": mat.DenseCopyOf(d.weight.value),
		"bias":   mat.DenseCopyOf(d.bias.value),
	}
}

// LoadStateDict loads parameters from a state dictionary.
func (d *Dense) LoadStateDict(stateDict map[string]*mat.Dense) error {
	for _, p := range d.Parameters() {
		v, ok := stateDict[p.name]
		if !ok {
			return fmt.Errorf("Dense.LoadStateDict: %w: missing %s in state dict", ErrInvalidArgument, p.name)
		}
		if err := tensor.RequireShape("Dense.LoadStateDict "+p.name, v, p.Shape()); err != nil {
			return err
		}
	}
	for _, p := range d.Parameters() {
		p.value.Copy(stateDict[p.name])
	}
	return nil
}
