package window

import (
	"context"
	"fmt"

	"github.com/roman-kulish/attitude-survey/internal/motion"
)

// ChunkReader provides an iterator over the chunks of a time-ordered source.
// Chunks are delivered in source order and together cover every row exactly
// once.
type ChunkReader interface {
	// Columns returns the column names every chunk carries, Time first.
	Columns() []string

	// Next advances to the next chunk and returns true if there is one, false
	// when the source is exhausted or an error occurred.
	Next(context.Context) bool

	// Current returns the chunk read by the last successful Next.
	Current() *motion.Chunk

	// Error returns the error that stopped the iteration, if any. If Next
	// returns false, Error tells end of data and failure apart.
	Error() error

	// Close releases any resources associated with the reader.
	Close() error
}

// TableReader chunks an in-memory table. Chunks share the table's storage.
type TableReader struct {
	table     *motion.Table
	chunkSize int
	offset    int
	current   *motion.Chunk
	err       error
}

// NewTableReader returns a reader over t that yields chunkSize rows at a time.
func NewTableReader(t *motion.Table, chunkSize int) (*TableReader, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChunkSize, chunkSize)
	}
	return &TableReader{table: t, chunkSize: chunkSize}, nil
}

func (r *TableReader) Columns() []string {
	return r.table.Columns()
}

func (r *TableReader) Next(ctx context.Context) bool {
	if r.err != nil {
		return false
	}

	select {
	case <-ctx.Done():
		r.err = ctx.Err()
		return false
	default:
	}

	n := r.table.Len()
	if r.offset >= n {
		r.current = nil
		return false
	}

	end := min(r.offset+r.chunkSize, n)
	r.current = r.table.Slice(r.offset, end)
	r.offset = end
	return true
}

func (r *TableReader) Current() *motion.Chunk {
	return r.current
}

func (r *TableReader) Error() error {
	return r.err
}

func (r *TableReader) Close() error {
	r.current = nil
	return nil
}
