// Package dataset loads numeric CSV data and prepares it for training.
//
// A Reader turns a delimited text file into a Table of string cells. The
// Table converts selected columns into gonum matrices, and a Splitter
// produces shuffled train/test partitions and fixed-size batches.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/born-ml/mlp/internal/tensor"
)

var (
	// ErrNoData is returned when a file holds no data rows.
	ErrNoData = errors.New("no data found")

	// ErrNoHeader is returned by name lookups on a table read without a header.
	ErrNoHeader = errors.New("table has no header")

	// ErrInvalidArgument is the root of argument validation failures.
	ErrInvalidArgument = tensor.ErrInvalidArgument
)

// Reader reads a CSV file into a Table.
//
// Example:
//
//	r, err := dataset.NewReader("iris.csv", dataset.WithDelimiter(';'))
//	table, err := r.Load()
//	x, y, err := table.SplitTarget(4)
type Reader struct {
	path      string
	hasHeader bool
	delimiter rune
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithHeader sets whether the first non-blank line is a header (default: true).
func WithHeader(hasHeader bool) ReaderOption {
	return func(r *Reader) {
		r.hasHeader = hasHeader
	}
}

// WithDelimiter sets the field delimiter (default: ',').
func WithDelimiter(delimiter rune) ReaderOption {
	return func(r *Reader) {
		r.delimiter = delimiter
	}
}

// NewReader creates a reader for the file at path.
func NewReader(path string, opts ...ReaderOption) (*Reader, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("NewReader: %w: file path cannot be empty", ErrInvalidArgument)
	}
	r := &Reader{path: path, hasHeader: true, delimiter: ','}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Path returns the file path.
func (r *Reader) Path() string {
	return r.path
}

// Load reads and parses the whole file.
func (r *Reader) Load() (*Table, error) {
	file, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	table, err := r.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.path, err)
	}
	return table, nil
}

// Parse reads CSV records from src using the reader's settings.
//
// Blank lines are skipped and every cell is trimmed. All data rows must have
// the same number of fields as the first one. Returns ErrNoData when no data
// row remains.
func (r *Reader) Parse(src io.Reader) (*Table, error) {
	cr := csv.NewReader(src)
	cr.Comma = r.delimiter
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	table := &Table{}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		if isBlank(record) {
			continue
		}
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}

		if r.hasHeader && table.headers == nil {
			table.headers = record
			continue
		}
		if len(table.rows) > 0 && len(record) != len(table.rows[0]) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("%w: invalid record length at line %d: got %d, want %d",
				ErrInvalidArgument, line, len(record), len(table.rows[0]))
		}
		table.rows = append(table.rows, record)
	}

	if len(table.rows) == 0 {
		return nil, ErrNoData
	}
	return table, nil
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
