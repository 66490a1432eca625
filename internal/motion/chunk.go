package motion

import (
	"slices"
)

// Chunk is a bounded, contiguous slice of a time-ordered source. It carries
// every declared column of the source for the rows it covers.
type Chunk struct {
	names   []string
	columns [][]float64
}

// NewChunk builds a chunk from column names and column data. Column slices are
// taken over by the chunk. The first column is the timestamp column.
func NewChunk(names []string, columns [][]float64) *Chunk {
	return &Chunk{names: names, columns: columns}
}

// Len returns the number of rows in the chunk.
func (c *Chunk) Len() int {
	if len(c.columns) == 0 {
		return 0
	}
	return len(c.columns[0])
}

// Time returns the chunk's timestamp column.
func (c *Chunk) Time() []float64 {
	return c.columns[0]
}

// First returns the chunk's first timestamp. Callers must not call it on an
// empty chunk.
func (c *Chunk) First() float64 {
	return c.columns[0][0]
}

// Last returns the chunk's last timestamp. Callers must not call it on an
// empty chunk.
func (c *Chunk) Last() float64 {
	t := c.columns[0]
	return t[len(t)-1]
}

// Column returns the named column of the chunk.
func (c *Chunk) Column(name string) ([]float64, bool) {
	i := slices.Index(c.names, name)
	if i < 0 {
		return nil, false
	}
	return c.columns[i], true
}
