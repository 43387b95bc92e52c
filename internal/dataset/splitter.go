package dataset

import (
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/mlp/internal/tensor"
	"gonum.org/v1/gonum/mat"
)

// Split is a train/test partition of aligned inputs and targets.
type Split struct {
	XTrain, XTest *mat.Dense
	YTrain, YTest *mat.Dense
}

// Batch is one contiguous slice of aligned inputs and targets.
type Batch struct {
	X, Y *mat.Dense
}

// Splitter partitions data sets using its own random source.
type Splitter struct {
	rng *rand.Rand
}

// SplitterOption configures a Splitter.
type SplitterOption func(*Splitter)

// WithSeed makes the splits reproducible.
func WithSeed(seed uint64) SplitterOption {
	return func(s *Splitter) {
		s.rng = rand.New(rand.NewPCG(seed, seed))
	}
}

// NewSplitter creates a splitter seeded from process randomness unless
// WithSeed is given.
func NewSplitter(opts ...SplitterOption) *Splitter {
	s := &Splitter{}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return s
}

// TrainTestSplit shuffles the rows and puts the first ⌊n·(1−testRatio)⌋ of
// them in the training set and the rest in the test set.
//
// testRatio must lie in (0, 1) and both sets must end up non-empty.
func (s *Splitter) TrainTestSplit(x, y *mat.Dense, testRatio float64) (Split, error) {
	if !(testRatio > 0 && testRatio < 1) {
		return Split{}, fmt.Errorf("Splitter.TrainTestSplit: %w: test ratio must be in (0, 1), got %g", ErrInvalidArgument, testRatio)
	}
	n, err := alignedRows("Splitter.TrainTestSplit", x, y)
	if err != nil {
		return Split{}, err
	}
	trainSize := int(float64(n) * (1 - testRatio))
	if trainSize == 0 || trainSize == n {
		return Split{}, fmt.Errorf("Splitter.TrainTestSplit: %w: ratio %g leaves an empty set for %d samples", ErrInvalidArgument, testRatio, n)
	}

	perm := s.rng.Perm(n)
	var split Split
	if split.XTrain, err = tensor.SelectRows(x, perm[:trainSize]); err != nil {
		return Split{}, err
	}
	if split.YTrain, err = tensor.SelectRows(y, perm[:trainSize]); err != nil {
		return Split{}, err
	}
	if split.XTest, err = tensor.SelectRows(x, perm[trainSize:]); err != nil {
		return Split{}, err
	}
	if split.YTest, err = tensor.SelectRows(y, perm[trainSize:]); err != nil {
		return Split{}, err
	}
	return split, nil
}

// Batches cuts x and y, in row order, into ⌈n/size⌉ batches. The last batch
// may be smaller.
func (s *Splitter) Batches(x, y *mat.Dense, size int) ([]Batch, error) {
	if size <= 0 {
		return nil, fmt.Errorf("Splitter.Batches: %w: batch size must be positive, got %d", ErrInvalidArgument, size)
	}
	n, err := alignedRows("Splitter.Batches", x, y)
	if err != nil {
		return nil, err
	}
	batches := make([]Batch, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		end := min(start+size, n)
		bx, err := tensor.Slice(x, start, end)
		if err != nil {
			return nil, err
		}
		by, err := tensor.Slice(y, start, end)
		if err != nil {
			return nil, err
		}
		batches = append(batches, Batch{X: bx, Y: by})
	}
	return batches, nil
}

func alignedRows(op string, x, y *mat.Dense) (int, error) {
	if tensor.IsEmpty(x) || tensor.IsEmpty(y) {
		return 0, fmt.Errorf("%s: %w: inputs and targets cannot be nil or empty", op, ErrInvalidArgument)
	}
	rx, _ := x.Dims()
	ry, _ := y.Dims()
	if rx != ry {
		return 0, fmt.Errorf("%s: %w: inputs have %d rows but targets have %d", op, ErrInvalidArgument, rx, ry)
	}
	return rx, nil
}
