package nn

import (
	"fmt"
	"strings"

	"github.com/born-ml/mlp/internal/tensor"
	"gonum.org/v1/gonum/mat"
)

// Network is an ordered pipeline of layers.
//
// Each layer's output becomes the next layer's input. The network owns its
// layers but holds no learnable state of its own and no cross-layer gradient
// accumulator: all temporary gradient state lives inside each layer.
//
// Example:
//
//	net := nn.NewNetwork()
//	hidden, _ := nn.NewDense(2, 8, nn.NewHe(nn.WithSeed(1)), nn.NewReLU())
//	head, _ := nn.NewDense(8, 1, nn.NewXavier(nn.WithSeed(2)), nn.NewSigmoid())
//	_ = net.AddLayer(hidden)
//	_ = net.AddLayer(head)
//
//	predictions, err := net.Predict(inputs)
type Network struct {
	layers []Layer
}

// NewNetwork creates an empty network.
func NewNetwork() *Network {
	return &Network{}
}

// AddLayer appends a layer to the pipeline.
//
// The first layer defines the network input size. Every later layer must
// take the previous layer's output size as input; otherwise AddLayer returns
// ErrInvalidArgument and leaves the network unchanged.
func (n *Network) AddLayer(layer Layer) error {
	if layer == nil {
		return fmt.Errorf("Network.AddLayer: %w: layer cannot be nil", ErrInvalidArgument)
	}
	if len(n.layers) > 0 {
		last := n.layers[len(n.layers)-1]
		if last.OutputSize() != layer.InputSize() {
			return fmt.Errorf("Network.AddLayer: %w: layer input size (%d) must match previous layer output size (%d)",
				ErrInvalidArgument, layer.InputSize(), last.OutputSize())
		}
	}
	n.layers = append(n.layers, layer)
	return nil
}

func (n *Network) requireLayers(op string) error {
	if len(n.layers) == 0 {
		return fmt.Errorf("%s: %w: network has no layers", op, ErrIllegalState)
	}
	return nil
}

// Forward threads input through every layer and returns the last output.
//
// Returns ErrIllegalState for a network without layers and
// ErrInvalidArgument for an empty input.
func (n *Network) Forward(input *mat.Dense) (*mat.Dense, error) {
	if err := n.requireLayers("Network.Forward"); err != nil {
		return nil, err
	}
	if err := tensor.RequireNonEmpty("Network.Forward", "input", input); err != nil {
		return nil, err
	}
	output := input
	for i, layer := range n.layers {
		var err error
		output, err = layer.Forward(output)
		if err != nil {
			return nil, fmt.Errorf("Network.Forward: layer %d: %w", i, err)
		}
	}
	return output, nil
}

// Backward threads a loss gradient through the layers in reverse order.
//
// It returns the gradient with respect to the network input, which callers
// normally discard.
func (n *Network) Backward(lossGradient *mat.Dense) (*mat.Dense, error) {
	return n.backward("Network.Backward", lossGradient, false)
}

// BackwardPreActivation is Backward for a gradient taken with respect to the
// last layer's pre-activation (see SigmoidFused). The last layer skips its
// activation derivative; every other layer runs a normal Backward.
func (n *Network) BackwardPreActivation(dz *mat.Dense) (*mat.Dense, error) {
	return n.backward("Network.BackwardPreActivation", dz, true)
}

func (n *Network) backward(op string, gradient *mat.Dense, fused bool) (*mat.Dense, error) {
	if err := tensor.RequireNonEmpty(op, "loss gradient", gradient); err != nil {
		return nil, err
	}
	if err := n.requireLayers(op); err != nil {
		return nil, err
	}
	last := len(n.layers) - 1
	for i := last; i >= 0; i-- {
		var err error
		if fused && i == last {
			gradient, err = n.layers[i].BackwardPreActivation(gradient)
		} else {
			gradient, err = n.layers[i].Backward(gradient)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: layer %d: %w", op, i, err)
		}
	}
	return gradient, nil
}

// UpdateParameters applies each layer's local gradient-descent step in
// forward order.
func (n *Network) UpdateParameters(learningRate float64) error {
	if !(learningRate > 0) {
		return fmt.Errorf("Network.UpdateParameters: %w: learning rate must be positive, got %g", ErrInvalidArgument, learningRate)
	}
	for i, layer := range n.layers {
		if err := layer.UpdateParameters(learningRate); err != nil {
			return fmt.Errorf("Network.UpdateParameters: layer %d: %w", i, err)
		}
	}
	return nil
}

// ResetParameters re-initializes every layer.
func (n *Network) ResetParameters() error {
	for i, layer := range n.layers {
		if err := layer.ResetParameters(); err != nil {
			return fmt.Errorf("Network.ResetParameters: layer %d: %w", i, err)
		}
	}
	return nil
}

// Predict runs a forward pass.
func (n *Network) Predict(inputs *mat.Dense) (*mat.Dense, error) {
	if err := tensor.RequireNonEmpty("Network.Predict", "inputs", inputs); err != nil {
		return nil, err
	}
	if err := n.requireLayers("Network.Predict"); err != nil {
		return nil, err
	}
	return n.Forward(inputs)
}

// Evaluate predicts inputs and returns the loss against targets.
func (n *Network) Evaluate(inputs, targets *mat.Dense, loss Loss) (float64, error) {
	if loss == nil {
		return 0, fmt.Errorf("Network.Evaluate: %w: loss function cannot be nil", ErrMissingConfiguration)
	}
	if err := checkRows("Network.Evaluate", inputs, targets); err != nil {
		return 0, err
	}
	predictions, err := n.Predict(inputs)
	if err != nil {
		return 0, err
	}
	return loss.ComputeLoss(predictions, targets)
}

// Accuracy returns the percentage of rows whose argmax prediction matches the
// argmax target.
func (n *Network) Accuracy(inputs, targets *mat.Dense) (float64, error) {
	predictions, err := n.predictAligned("Network.Accuracy", inputs, targets)
	if err != nil {
		return 0, err
	}
	rows, _ := predictions.Dims()
	correct := 0
	for i := 0; i < rows; i++ {
		if argmax(predictions.RawRowView(i)) == argmax(targets.RawRowView(i)) {
			correct++
		}
	}
	return 100 * float64(correct) / float64(rows), nil
}

// BinaryAccuracy returns the percentage of entries where thresholding the
// prediction at threshold reproduces the 0/1 target.
func (n *Network) BinaryAccuracy(inputs, targets *mat.Dense, threshold float64) (float64, error) {
	predictions, err := n.predictAligned("Network.BinaryAccuracy", inputs, targets)
	if err != nil {
		return 0, err
	}
	rows, cols := predictions.Dims()
	correct := 0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			predicted := 0.0
			if predictions.At(i, j) > threshold {
				predicted = 1
			}
			if predicted == targets.At(i, j) {
				correct++
			}
		}
	}
	return 100 * float64(correct) / float64(rows*cols), nil
}

func (n *Network) predictAligned(op string, inputs, targets *mat.Dense) (*mat.Dense, error) {
	if err := checkRows(op, inputs, targets); err != nil {
		return nil, err
	}
	predictions, err := n.Predict(inputs)
	if err != nil {
		return nil, err
	}
	if err := tensor.RequireShape(op, targets, tensor.ShapeOf(predictions)); err != nil {
		return nil, err
	}
	return predictions, nil
}

func checkRows(op string, inputs, targets *mat.Dense) error {
	if tensor.IsEmpty(inputs) || tensor.IsEmpty(targets) {
		return fmt.Errorf("%s: %w: inputs and targets cannot be nil or empty", op, ErrInvalidArgument)
	}
	if ri, _ := inputs.Dims(); ri != tensor.ShapeOf(targets).Rows {
		return fmt.Errorf("%s: %w: number of input samples (%d) must match number of target samples (%d)",
			op, ErrInvalidArgument, ri, tensor.ShapeOf(targets).Rows)
	}
	return nil
}

func argmax(row []float64) int {
	best := 0
	for i := 1; i < len(row); i++ {
		if row[i] > row[best] {
			best = i
		}
	}
	return best
}

// Len returns the number of layers.
func (n *Network) Len() int {
	return len(n.layers)
}

// Layer returns the layer at the given index.
func (n *Network) Layer(index int) (Layer, error) {
	if index < 0 || index >= len(n.layers) {
		return nil, fmt.Errorf("Network.Layer: %w: index %d out of range [0, %d)", ErrInvalidArgument, index, len(n.layers))
	}
	return n.layers[index], nil
}

// Layers returns a copy of the layer list.
func (n *Network) Layers() []Layer {
	return append([]Layer(nil), n.layers...)
}

// OutputLayer returns the last layer, or nil for an empty network.
func (n *Network) OutputLayer() Layer {
	if len(n.layers) == 0 {
		return nil
	}
	return n.layers[len(n.layers)-1]
}

// Clear removes every layer.
func (n *Network) Clear() {
	n.layers = nil
}

// Parameters returns the parameters of every layer in forward order.
func (n *Network) Parameters() []*Parameter {
	var params []*Parameter
	for _, layer := range n.layers {
		params = append(params, layer.Parameters()...)
	}
	return params
}

// NumParameters returns the total number of trainable scalars.
func (n *Network) NumParameters() int {
	total := 0
	for _, layer := range n.layers {
		for _, p := range layer.Parameters() {
			total += p.Shape().NumElements()
		}
	}
	return total
}

// Summary returns a human-readable description of the architecture.
func (n *Network) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total Layers: %d\n", len(n.layers))
	for i, layer := range n.layers {
		params := 0
		for _, p := range layer.Parameters() {
			params += p.Shape().NumElements()
		}
		act := KindLinear
		if a := layer.Activation(); a != nil {
			act = a.Kind()
		}
		fmt.Fprintf(&b, "Layer %d: [%d -> %d] (%s) - Parameters: %d\n",
			i+1, layer.InputSize(), layer.OutputSize(), act, params)
	}
	fmt.Fprintf(&b, "Total Parameters: %d\n", n.NumParameters())
	return b.String()
}

// StateDict returns copies of every parameter keyed "<layer>.<name>"
// (e.g., "0.weight", "0.bias", "1.weight").
func (n *Network) StateDict() map[string]*mat.Dense {
	stateDict := make(map[string]*mat.Dense)
	for i, layer := range n.layers {
		for _, p := range layer.Parameters() {
			stateDict[fmt.Sprintf("%d.%s", i, p.Name())] = mat.DenseCopyOf(p.Value())
		}
	}
	return stateDict
}

// LoadStateDict loads parameters from a state dictionary produced by
// StateDict. Shapes are validated before anything is written.
func (n *Network) LoadStateDict(stateDict map[string]*mat.Dense) error {
	for i, layer := range n.layers {
		for _, p := range layer.Parameters() {
			key := fmt.Sprintf("%d.%s", i, p.Name())
			v, ok := stateDict[key]
			if !ok {
				return fmt.Errorf("Network.LoadStateDict: %w: missing %s", ErrInvalidArgument, key)
			}
			if err := tensor.RequireShape("Network.LoadStateDict "+key, v, p.Shape()); err != nil {
				return err
			}
		}
	}
	for i, layer := range n.layers {
		for _, p := range layer.Parameters() {
			p.Value().Copy(stateDict[fmt.Sprintf("%d.%s", i, p.Name())])
		}
	}
	return nil
}
