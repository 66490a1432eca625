package motion

import (
	"fmt"
	"slices"
)

// Table is a set of equal-length float64 columns, keyed by name, with a
// fixed column order. The first column is always TimeColumn.
type Table struct {
	names   []string
	columns [][]float64
}

// NewTable creates an empty table with the given column names. The first
// name must be TimeColumn.
func NewTable(names []string) (*Table, error) {
	if len(names) == 0 || names[0] != TimeColumn {
		return nil, fmt.Errorf("first column must be %q, got %v", TimeColumn, names)
	}
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			return nil, fmt.Errorf("duplicate column %q", n)
		}
		seen[n] = struct{}{}
	}
	return &Table{
		names:   slices.Clone(names),
		columns: make([][]float64, len(names)),
	}, nil
}

// Columns returns the column names in declaration order.
func (t *Table) Columns() []string {
	return slices.Clone(t.names)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.columns[0])
}

// AppendRow adds one row; the row must carry a value per column.
func (t *Table) AppendRow(row []float64) error {
	if len(row) != len(t.names) {
		return fmt.Errorf("row has %d values, table has %d columns", len(row), len(t.names))
	}
	for i, v := range row {
		t.columns[i] = append(t.columns[i], v)
	}
	return nil
}

// Column returns the named column, or false if the table has no such column.
// The returned slice is shared with the table and must not be modified.
func (t *Table) Column(name string) ([]float64, bool) {
	i := slices.Index(t.names, name)
	if i < 0 {
		return nil, false
	}
	return t.columns[i], true
}

// Time returns the timestamp column.
func (t *Table) Time() []float64 {
	return t.columns[0]
}

// Slice returns a chunk over rows [from, to). Column data is shared.
func (t *Table) Slice(from, to int) *Chunk {
	cols := make([][]float64, len(t.columns))
	for i, c := range t.columns {
		cols[i] = c[from:to:to]
	}
	return &Chunk{names: t.names, columns: cols}
}
