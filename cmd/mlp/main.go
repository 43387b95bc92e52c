// Package main provides the mlp command-line driver.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/born-ml/mlp/dataset"
	"github.com/born-ml/mlp/nn"
	"github.com/born-ml/mlp/train"
)

const version = "v0.1.0-dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		usage(stdout)
		return nil
	}
	switch args[0] {
	case "version":
		fmt.Fprintf(stdout, "mlp %s\n", version)
		return nil
	case "train":
		return trainCommand(args[1:], stdout, stderr)
	default:
		usage(stdout)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "mlp - feed-forward network training")
	fmt.Fprintf(w, "Version: %s\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  version    Show version")
	fmt.Fprintln(w, "  train      Train a network on a CSV file")
}

type trainOptions struct {
	data       string
	target     string
	hidden     string
	activation string
	loss       string
	lr         float64
	epochs     int
	batch      int
	test       float64
	seed       uint64
	logEvery   int
}

func parseTrainFlags(args []string, stderr io.Writer) (trainOptions, error) {
	var opts trainOptions
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.data, "data", "", "path to the CSV file (required)")
	fs.StringVar(&opts.target, "target", "", "target column name or index (default: last column)")
	fs.StringVar(&opts.hidden, "hidden", "64,32", "comma-separated hidden layer sizes")
	fs.StringVar(&opts.activation, "activation", "relu", "hidden activation: relu, sigmoid, tanh, linear")
	fs.StringVar(&opts.loss, "loss", "cross-entropy", "loss: cross-entropy, mae, mse")
	fs.Float64Var(&opts.lr, "lr", 0.1, "learning rate")
	fs.IntVar(&opts.epochs, "epochs", 100, "training epochs")
	fs.IntVar(&opts.batch, "batch", 32, "batch size")
	fs.Float64Var(&opts.test, "test", 0.2, "fraction of samples held out for testing")
	fs.Uint64Var(&opts.seed, "seed", 42, "random seed")
	fs.IntVar(&opts.logEvery, "log-every", 10, "log progress every N epochs (0 disables per-epoch lines)")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.data == "" {
		return opts, errors.New("train: -data is required")
	}
	return opts, nil
}

func trainCommand(args []string, stdout, stderr io.Writer) error {
	opts, err := parseTrainFlags(args, stderr)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(stderr, nil))

	reader, err := dataset.NewReader(opts.data)
	if err != nil {
		return err
	}
	table, err := reader.Load()
	if err != nil {
		return err
	}
	fmt.Fprint(stdout, table.Summary())

	target, err := targetColumn(table, opts.target)
	if err != nil {
		return err
	}
	x, y, err := table.SplitTarget(target)
	if err != nil {
		return err
	}
	split, err := dataset.NewSplitter(dataset.WithSeed(opts.seed)).TrainTestSplit(x, y, opts.test)
	if err != nil {
		return err
	}

	loss, err := nn.ParseLoss(opts.loss)
	if err != nil {
		return err
	}
	hidden, err := parseSizes(opts.hidden)
	if err != nil {
		return err
	}
	_, inputSize := x.Dims()
	_, outputSize := y.Dims()
	net, err := buildNetwork(inputSize, outputSize, hidden, opts.activation, loss, opts.seed)
	if err != nil {
		return err
	}
	fmt.Fprint(stdout, net.Summary())

	trainer, err := train.NewTrainer(net, train.Config{
		LearningRate: opts.lr,
		Epochs:       opts.epochs,
		BatchSize:    opts.batch,
		LogEvery:     opts.logEvery,
	}, train.WithLoss(loss), train.WithSeed(opts.seed), train.WithLogger(logger))
	if err != nil {
		return err
	}
	if err := trainer.TrainWithValidation(split.XTrain, split.YTrain, split.XTest, split.YTest); err != nil {
		return err
	}

	testLoss, err := net.Evaluate(split.XTest, split.YTest, loss)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Test loss: %.6f\n", testLoss)

	if _, ok := loss.(nn.SigmoidFused); ok {
		acc, err := net.BinaryAccuracy(split.XTest, split.YTest, 0.5)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Test accuracy: %.2f%%\n", acc)
	}
	return nil
}

// targetColumn resolves -target as a header name first, then as an index.
// An empty value selects the last column.
func targetColumn(table *dataset.Table, name string) (int, error) {
	if name == "" {
		return table.NumCols() - 1, nil
	}
	if idx := table.ColumnIndex(name); idx >= 0 {
		return idx, nil
	}
	idx, err := strconv.Atoi(name)
	if err != nil {
		return 0, fmt.Errorf("train: unknown target column %q", name)
	}
	return idx, nil
}

func parseSizes(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	sizes := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("train: invalid hidden layer size %q", p)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}

// buildNetwork stacks the hidden layers and an output head. The head is
// Sigmoid for cross-entropy and Linear otherwise.
func buildNetwork(inputSize, outputSize int, hidden []int, activation string, loss nn.Loss, seed uint64) (*nn.Network, error) {
	net := nn.NewNetwork()
	in := inputSize
	for i, size := range hidden {
		act, err := nn.ParseActivation(activation)
		if err != nil {
			return nil, err
		}
		var init nn.Initializer = nn.NewXavier(nn.WithSeed(seed + uint64(i)))
		if act.Kind() == nn.KindReLU {
			init = nn.NewHe(nn.WithSeed(seed + uint64(i)))
		}
		layer, err := nn.NewDense(in, size, init, act)
		if err != nil {
			return nil, err
		}
		if err := net.AddLayer(layer); err != nil {
			return nil, err
		}
		in = size
	}

	var head nn.Activation = nn.NewLinear()
	if _, ok := loss.(nn.SigmoidFused); ok {
		head = nn.NewSigmoid()
	}
	out, err := nn.NewDense(in, outputSize, nn.NewXavier(nn.WithSeed(seed+uint64(len(hidden)))), head)
	if err != nil {
		return nil, err
	}
	if err := net.AddLayer(out); err != nil {
		return nil, err
	}
	return net, nil
}
