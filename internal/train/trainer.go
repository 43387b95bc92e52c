// Package train implements mini-batch gradient-descent training for nn.Network.
package train

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/optim"
	"github.com/born-ml/mlp/internal/tensor"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
)

// Config holds the training hyperparameters.
type Config struct {
	LearningRate float64 // Step size for layer-local updates (default: 0.01)
	Epochs       int     // Full passes over the data (default: 100)
	BatchSize    int     // Samples per update (default: 32)
	LogEvery     int     // Per-epoch log cadence, 0 disables epoch lines (default: 10)

	// Optimizer replaces the layer-local update when set. LearningRate is
	// then unused and may be zero.
	Optimizer optim.Optimizer
}

// DefaultConfig returns the default training configuration.
func DefaultConfig() Config {
	return Config{
		LearningRate: 0.01,
		Epochs:       100,
		BatchSize:    32,
		LogEvery:     10,
	}
}

// Option configures a Trainer.
type Option func(*Trainer)

// WithLogger sets the progress logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Trainer) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithLoss sets the loss function.
func WithLoss(loss nn.Loss) Option {
	return func(t *Trainer) {
		t.loss = loss
	}
}

// WithSeed makes the shuffle order reproducible.
func WithSeed(seed uint64) Option {
	return func(t *Trainer) {
		t.rng = rand.New(rand.NewPCG(seed, seed))
	}
}

// Trainer runs epochs of shuffled mini-batch training over a Network.
//
// Each epoch draws a fresh permutation of the samples from the trainer's own
// random source, splits it into ⌈n/batchSize⌉ contiguous batches (the last
// one may be smaller) and, per batch, runs forward, loss, backward and a
// parameter update. The per-epoch training loss is the sample-weighted mean
// of the batch losses.
//
// A Trainer is not safe for concurrent use.
//
// Example:
//
//	trainer, err := train.NewTrainer(net, train.Config{
//	    LearningRate: 0.5,
//	    Epochs:       200,
//	    BatchSize:    4,
//	}, train.WithLoss(nn.NewCrossEntropy()), train.WithSeed(42))
//
//	err = trainer.Train(inputs, targets)
//	history := trainer.TrainingLossHistory()
type Trainer struct {
	network      *nn.Network
	loss         nn.Loss
	optimizer    optim.Optimizer
	learningRate float64
	epochs       int
	batchSize    int
	logEvery     int
	rng          *rand.Rand
	logger       *slog.Logger

	trainingHistory   []float64
	validationHistory []float64
}

// NewTrainer creates a trainer for network.
//
// Returns ErrInvalidArgument for a nil network or non-positive
// hyperparameters. The learning rate is only checked when no optimizer is
// configured.
func NewTrainer(network *nn.Network, config Config, opts ...Option) (*Trainer, error) {
	if network == nil {
		return nil, fmt.Errorf("NewTrainer: %w: network cannot be nil", nn.ErrInvalidArgument)
	}
	if config.Optimizer == nil {
		if err := checkPositiveFloat("NewTrainer", "learning rate", config.LearningRate); err != nil {
			return nil, err
		}
	}
	if err := checkPositiveInt("NewTrainer", "epochs", config.Epochs); err != nil {
		return nil, err
	}
	if err := checkPositiveInt("NewTrainer", "batch size", config.BatchSize); err != nil {
		return nil, err
	}
	if config.LogEvery < 0 {
		return nil, fmt.Errorf("NewTrainer: %w: log cadence cannot be negative, got %d", nn.ErrInvalidArgument, config.LogEvery)
	}

	t := &Trainer{
		network:      network,
		optimizer:    config.Optimizer,
		learningRate: config.LearningRate,
		epochs:       config.Epochs,
		batchSize:    config.BatchSize,
		logEvery:     config.LogEvery,
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.rng == nil {
		t.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return t, nil
}

func checkPositiveFloat(op, name string, v float64) error {
	if !(v > 0) {
		return fmt.Errorf("%s: %w: %s must be positive, got %g", op, nn.ErrInvalidArgument, name, v)
	}
	return nil
}

func checkPositiveInt(op, name string, v int) error {
	if v <= 0 {
		return fmt.Errorf("%s: %w: %s must be positive, got %d", op, nn.ErrInvalidArgument, name, v)
	}
	return nil
}

// Train runs the configured number of epochs over inputs and targets.
//
// Returns ErrMissingConfiguration when no loss is set, ErrInvalidArgument for
// empty or mismatched data and ErrIllegalState for a network without layers.
func (t *Trainer) Train(inputs, targets *mat.Dense) error {
	return t.run("Trainer.Train", inputs, targets, nil, nil)
}

// TrainWithValidation is Train plus a validation loss evaluated after every
// epoch. Validation never updates parameters.
func (t *Trainer) TrainWithValidation(inputs, targets, valInputs, valTargets *mat.Dense) error {
	if tensor.IsEmpty(valInputs) || tensor.IsEmpty(valTargets) {
		return fmt.Errorf("Trainer.TrainWithValidation: %w: validation inputs and targets cannot be nil or empty", nn.ErrInvalidArgument)
	}
	return t.run("Trainer.TrainWithValidation", inputs, targets, valInputs, valTargets)
}

func (t *Trainer) run(op string, inputs, targets, valInputs, valTargets *mat.Dense) error {
	fused, err := t.validate(op, inputs, targets, valInputs, valTargets)
	if err != nil {
		return err
	}

	t.trainingHistory = t.trainingHistory[:0]
	t.validationHistory = t.validationHistory[:0]

	samples, _ := inputs.Dims()
	logger := t.logger.With("run_id", uuid.NewString())
	logger.Info("training started",
		"samples", samples,
		"epochs", t.epochs,
		"batch_size", t.batchSize,
		"loss", t.loss.Name(),
		"optimizer", t.optimizerName(),
		"learning_rate", t.effectiveLR(),
	)

	for epoch := 0; epoch < t.epochs; epoch++ {
		epochLoss, err := t.runEpoch(inputs, targets, fused)
		if err != nil {
			return fmt.Errorf("%s: epoch %d: %w", op, epoch+1, err)
		}
		t.trainingHistory = append(t.trainingHistory, epochLoss)

		attrs := []any{"epoch", epoch + 1, "epochs", t.epochs, "loss", epochLoss}
		if valInputs != nil {
			valLoss, err := t.network.Evaluate(valInputs, valTargets, t.loss)
			if err != nil {
				return fmt.Errorf("%s: epoch %d: validation: %w", op, epoch+1, err)
			}
			t.validationHistory = append(t.validationHistory, valLoss)
			attrs = append(attrs, "val_loss", valLoss)
		}
		if t.shouldLog(epoch) {
			logger.Info("epoch completed", attrs...)
		}
	}

	logger.Info("training finished", "final_loss", t.trainingHistory[len(t.trainingHistory)-1])
	return nil
}

// validate checks every precondition and reports whether the loss gradient
// must enter the network below the output activation.
func (t *Trainer) validate(op string, inputs, targets, valInputs, valTargets *mat.Dense) (bool, error) {
	if t.loss == nil {
		return false, fmt.Errorf("%s: %w: loss function not set", op, nn.ErrMissingConfiguration)
	}
	if err := checkData(op, "training", inputs, targets); err != nil {
		return false, err
	}
	if t.optimizer == nil {
		if err := checkPositiveFloat(op, "learning rate", t.learningRate); err != nil {
			return false, err
		}
	}
	if t.network.Len() == 0 {
		return false, fmt.Errorf("%s: %w: network has no layers", op, nn.ErrIllegalState)
	}
	first, _ := t.network.Layer(0)
	last := t.network.OutputLayer()
	if err := checkWidths(op, "training", inputs, targets, first.InputSize(), last.OutputSize()); err != nil {
		return false, err
	}
	if valInputs != nil || valTargets != nil {
		if err := checkData(op, "validation", valInputs, valTargets); err != nil {
			return false, err
		}
		if err := checkWidths(op, "validation", valInputs, valTargets, first.InputSize(), last.OutputSize()); err != nil {
			return false, err
		}
	}

	sf, ok := t.loss.(nn.SigmoidFused)
	if !ok || !sf.FusesSigmoid() {
		return false, nil
	}
	if act := last.Activation(); act == nil || act.Kind() != nn.KindSigmoid {
		return false, fmt.Errorf("%s: %w: %s loss requires a sigmoid output layer", op, nn.ErrInvalidArgument, t.loss.Name())
	}
	return true, nil
}

func checkData(op, set string, inputs, targets *mat.Dense) error {
	if tensor.IsEmpty(inputs) || tensor.IsEmpty(targets) {
		return fmt.Errorf("%s: %w: %s inputs and targets cannot be nil or empty", op, nn.ErrInvalidArgument, set)
	}
	ri, _ := inputs.Dims()
	rt, _ := targets.Dims()
	if ri != rt {
		return fmt.Errorf("%s: %w: %s inputs have %d rows but targets have %d", op, nn.ErrInvalidArgument, set, ri, rt)
	}
	return nil
}

func checkWidths(op, set string, inputs, targets *mat.Dense, inputSize, outputSize int) error {
	if _, c := inputs.Dims(); c != inputSize {
		return fmt.Errorf("%s: %w: %s inputs have %d columns, network expects %d", op, nn.ErrInvalidArgument, set, c, inputSize)
	}
	if _, c := targets.Dims(); c != outputSize {
		return fmt.Errorf("%s: %w: %s targets have %d columns, network produces %d", op, nn.ErrInvalidArgument, set, c, outputSize)
	}
	return nil
}

// runEpoch trains one shuffled pass and returns the sample-weighted mean loss.
func (t *Trainer) runEpoch(inputs, targets *mat.Dense, fused bool) (float64, error) {
	samples, inCols := inputs.Dims()
	_, outCols := targets.Dims()

	perm := t.permutation(samples)
	x, err := tensor.SelectRows(inputs, perm)
	if err != nil {
		return 0, err
	}
	y, err := tensor.SelectRows(targets, perm)
	if err != nil {
		return 0, err
	}

	var total float64
	for start := 0; start < samples; start += t.batchSize {
		end := min(start+t.batchSize, samples)
		bx := x.Slice(start, end, 0, inCols).(*mat.Dense)
		by := y.Slice(start, end, 0, outCols).(*mat.Dense)

		batchLoss, err := t.step(bx, by, fused)
		if err != nil {
			return 0, fmt.Errorf("batch starting at %d: %w", start, err)
		}
		total += batchLoss * float64(end-start)
	}
	return total / float64(samples), nil
}

// step runs forward, loss, backward and update on one batch.
func (t *Trainer) step(x, y *mat.Dense, fused bool) (float64, error) {
	predictions, err := t.network.Forward(x)
	if err != nil {
		return 0, err
	}
	loss, err := t.loss.ComputeLoss(predictions, y)
	if err != nil {
		return 0, err
	}
	gradient, err := t.loss.ComputeGradient(predictions, y)
	if err != nil {
		return 0, err
	}
	if fused {
		_, err = t.network.BackwardPreActivation(gradient)
	} else {
		_, err = t.network.Backward(gradient)
	}
	if err != nil {
		return 0, err
	}
	if t.optimizer != nil {
		err = t.optimizer.Step(t.network.Parameters())
	} else {
		err = t.network.UpdateParameters(t.learningRate)
	}
	return loss, err
}

// permutation returns a Fisher–Yates shuffle of [0, n).
func (t *Trainer) permutation(n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := t.rng.IntN(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}

// shouldLog selects the first epoch, every logEvery-th and the last one.
func (t *Trainer) shouldLog(epoch int) bool {
	if t.logEvery == 0 {
		return false
	}
	return epoch == 0 || epoch == t.epochs-1 || (epoch+1)%t.logEvery == 0
}

func (t *Trainer) effectiveLR() float64 {
	if t.optimizer == nil {
		return t.learningRate
	}
	return t.optimizer.GetLR()
}

func (t *Trainer) optimizerName() string {
	if t.optimizer == nil {
		return "layer-sgd"
	}
	return t.optimizer.Name()
}

// TrainingLossHistory returns a copy of the per-epoch training losses of the
// last run.
func (t *Trainer) TrainingLossHistory() []float64 {
	return append([]float64(nil), t.trainingHistory...)
}

// ValidationLossHistory returns a copy of the per-epoch validation losses of
// the last run, empty when it had no validation data.
func (t *Trainer) ValidationLossHistory() []float64 {
	return append([]float64(nil), t.validationHistory...)
}

// Network returns the trained network.
func (t *Trainer) Network() *nn.Network {
	return t.network
}

// Loss returns the loss function, or nil if none is set.
func (t *Trainer) Loss() nn.Loss {
	return t.loss
}

// SetLoss sets the loss function. Returns ErrInvalidArgument for nil.
func (t *Trainer) SetLoss(loss nn.Loss) error {
	if loss == nil {
		return fmt.Errorf("Trainer.SetLoss: %w: loss function cannot be nil", nn.ErrInvalidArgument)
	}
	t.loss = loss
	return nil
}

// Optimizer returns the configured optimizer, or nil for layer-local updates.
func (t *Trainer) Optimizer() optim.Optimizer {
	return t.optimizer
}

// SetOptimizer replaces the optimizer. Nil restores layer-local updates,
// which need a positive learning rate by the next run.
func (t *Trainer) SetOptimizer(optimizer optim.Optimizer) {
	t.optimizer = optimizer
}

// LearningRate returns the layer-local learning rate.
func (t *Trainer) LearningRate() float64 {
	return t.learningRate
}

// SetLearningRate sets the layer-local learning rate.
func (t *Trainer) SetLearningRate(lr float64) error {
	if err := checkPositiveFloat("Trainer.SetLearningRate", "learning rate", lr); err != nil {
		return err
	}
	t.learningRate = lr
	return nil
}

// Epochs returns the number of epochs per run.
func (t *Trainer) Epochs() int {
	return t.epochs
}

// SetEpochs sets the number of epochs per run.
func (t *Trainer) SetEpochs(epochs int) error {
	if err := checkPositiveInt("Trainer.SetEpochs", "epochs", epochs); err != nil {
		return err
	}
	t.epochs = epochs
	return nil
}

// BatchSize returns the mini-batch size.
func (t *Trainer) BatchSize() int {
	return t.batchSize
}

// SetBatchSize sets the mini-batch size.
func (t *Trainer) SetBatchSize(size int) error {
	if err := checkPositiveInt("Trainer.SetBatchSize", "batch size", size); err != nil {
		return err
	}
	t.batchSize = size
	return nil
}
