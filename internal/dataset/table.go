package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Table holds parsed CSV cells. Rows all have the same width.
type Table struct {
	headers []string
	rows    [][]string
}

// Headers returns a copy of the header names, or nil without a header.
func (t *Table) Headers() []string {
	if t.headers == nil {
		return nil
	}
	return append([]string(nil), t.headers...)
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// NumCols returns the number of fields per data row.
func (t *Table) NumCols() int {
	if len(t.rows) == 0 {
		return 0
	}
	return len(t.rows[0])
}

// Row returns a copy of the cells of data row i.
func (t *Table) Row(i int) ([]string, error) {
	if i < 0 || i >= len(t.rows) {
		return nil, fmt.Errorf("Table.Row: %w: row index %d out of range [0, %d)", ErrInvalidArgument, i, len(t.rows))
	}
	return append([]string(nil), t.rows[i]...), nil
}

// Matrix converts every cell to float64.
func (t *Table) Matrix() (*mat.Dense, error) {
	indices := make([]int, t.NumCols())
	for i := range indices {
		indices[i] = i
	}
	return t.Columns(indices...)
}

// Columns converts the given columns, in the given order, to a matrix.
//
// Conversion failures name the offending row and column.
func (t *Table) Columns(indices ...int) (*mat.Dense, error) {
	if len(indices) == 0 {
		return nil, fmt.Errorf("Table.Columns: %w: no columns selected", ErrInvalidArgument)
	}
	cols := t.NumCols()
	for _, c := range indices {
		if c < 0 || c >= cols {
			return nil, fmt.Errorf("Table.Columns: %w: column index %d out of range [0, %d)", ErrInvalidArgument, c, cols)
		}
	}

	out := mat.NewDense(len(t.rows), len(indices), nil)
	for i, row := range t.rows {
		dst := out.RawRowView(i)
		for j, c := range indices {
			v, err := strconv.ParseFloat(row[c], 64)
			if err != nil {
				return nil, fmt.Errorf("Table.Columns: %w: cannot convert %q at row %d, column %d: %w",
					ErrInvalidArgument, row[c], i, c, err)
			}
			dst[j] = v
		}
	}
	return out, nil
}

// ColumnsByName is Columns with case-insensitive header lookup.
//
// Returns ErrNoHeader when the table was read without a header.
func (t *Table) ColumnsByName(names ...string) (*mat.Dense, error) {
	if t.headers == nil {
		return nil, fmt.Errorf("Table.ColumnsByName: %w", ErrNoHeader)
	}
	indices := make([]int, len(names))
	for i, name := range names {
		indices[i] = t.ColumnIndex(name)
		if indices[i] < 0 {
			return nil, fmt.Errorf("Table.ColumnsByName: %w: column %q not found", ErrInvalidArgument, name)
		}
	}
	return t.Columns(indices...)
}

// ColumnIndex returns the index of the named header, ignoring case, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.headers {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

// SplitTarget returns the features (every column except target) and the
// target column as a one-column matrix.
func (t *Table) SplitTarget(target int) (x, y *mat.Dense, err error) {
	cols := t.NumCols()
	if target < 0 || target >= cols {
		return nil, nil, fmt.Errorf("Table.SplitTarget: %w: target column %d out of range [0, %d)", ErrInvalidArgument, target, cols)
	}
	if cols < 2 {
		return nil, nil, fmt.Errorf("Table.SplitTarget: %w: need at least one feature column", ErrInvalidArgument)
	}
	features := make([]int, 0, cols-1)
	for c := 0; c < cols; c++ {
		if c != target {
			features = append(features, c)
		}
	}
	if x, err = t.Columns(features...); err != nil {
		return nil, nil, err
	}
	if y, err = t.Columns(target); err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

// Summary describes the table shape and headers.
func (t *Table) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rows: %d\n", t.NumRows())
	fmt.Fprintf(&b, "Columns: %d\n", t.NumCols())
	if t.headers != nil {
		fmt.Fprintf(&b, "Headers: %s\n", strings.Join(t.headers, ", "))
	}
	return b.String()
}
