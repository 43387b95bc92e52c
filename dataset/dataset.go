// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package dataset

import (
	"github.com/born-ml/mlp/internal/dataset"
)

// Errors
var (
	// ErrNoData reports a file without data rows.
	ErrNoData = dataset.ErrNoData

	// ErrNoHeader reports a lookup by column name on a headerless table.
	ErrNoHeader = dataset.ErrNoHeader

	// ErrInvalidArgument reports malformed input or out-of-range arguments.
	ErrInvalidArgument = dataset.ErrInvalidArgument
)

// Reader loads a delimited text file into a Table.
type Reader = dataset.Reader

// ReaderOption configures a Reader.
type ReaderOption = dataset.ReaderOption

// NewReader creates a reader for path.
func NewReader(path string, opts ...ReaderOption) (*Reader, error) {
	return dataset.NewReader(path, opts...)
}

// WithHeader sets whether the first record holds column names (default true).
func WithHeader(hasHeader bool) ReaderOption {
	return dataset.WithHeader(hasHeader)
}

// WithDelimiter sets the field delimiter (default ',').
func WithDelimiter(delimiter rune) ReaderOption {
	return dataset.WithDelimiter(delimiter)
}

// Table is parsed string data with optional headers.
type Table = dataset.Table

// Split is a train/test partition of aligned inputs and targets.
type Split = dataset.Split

// Batch is one contiguous slice of aligned inputs and targets.
type Batch = dataset.Batch

// Splitter partitions data sets using its own random source.
type Splitter = dataset.Splitter

// SplitterOption configures a Splitter.
type SplitterOption = dataset.SplitterOption

// NewSplitter creates a splitter.
func NewSplitter(opts ...SplitterOption) *Splitter {
	return dataset.NewSplitter(opts...)
}

// WithSeed makes splits reproducible.
func WithSeed(seed uint64) SplitterOption {
	return dataset.WithSeed(seed)
}
