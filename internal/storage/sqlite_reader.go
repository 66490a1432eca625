package storage

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/roman-kulish/attitude-survey/internal/motion"
	"github.com/roman-kulish/attitude-survey/internal/window"
)

// ReaderOption configures a SqliteChunkReader.
type ReaderOption func(*SqliteChunkReader)

// WithTimeRange narrows the reader to samples whose timestamp lies in w,
// both ends inclusive. Chunks then only hold matching rows; windowed
// extraction over them gives the same series as over the full session.
func WithTimeRange(w motion.TimeWindow) ReaderOption {
	return func(r *SqliteChunkReader) {
		r.timeRange = w
	}
}

// SqliteChunkReader implements window.ChunkReader over an imported session.
type SqliteChunkReader struct {
	db        *sql.DB
	session   *Session
	chunkSize int
	timeRange motion.TimeWindow

	lastSeq int64
	current *motion.Chunk
	done    bool
	err     error
}

var _ window.ChunkReader = (*SqliteChunkReader)(nil)

func newSqliteChunkReader(db *sql.DB, session *Session, chunkSize int, opts ...ReaderOption) *SqliteChunkReader {
	r := &SqliteChunkReader{
		db:        db,
		session:   session,
		chunkSize: chunkSize,
		timeRange: motion.TimeWindow{Initial: math.Inf(-1), Final: math.Inf(1)},
		lastSeq:   -1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Session returns the session this reader is accessing.
func (r *SqliteChunkReader) Session() *Session {
	return r.session
}

func (r *SqliteChunkReader) Columns() []string {
	return r.session.Columns
}

func (r *SqliteChunkReader) Next(ctx context.Context) bool {
	if r.err != nil || r.done || r.db == nil {
		return false
	}

	select {
	case <-ctx.Done():
		r.err = ctx.Err()
		return false
	default:
	}

	chunk, lastSeq, err := r.fetch(ctx)
	if err != nil {
		r.err = err
		r.current = nil
		return false
	}
	if chunk.Len() < r.chunkSize {
		r.done = true
	}
	if chunk.Len() == 0 {
		r.current = nil
		return false
	}

	r.lastSeq = lastSeq
	r.current = chunk
	return true
}

func (r *SqliteChunkReader) fetch(ctx context.Context) (chunk *motion.Chunk, lastSeq int64, err error) {
	rows, err := r.db.QueryContext(ctx, selectSamplesSQL,
		r.session.ID, r.lastSeq, r.timeRange.Initial, r.timeRange.Final, r.chunkSize)
	if err != nil {
		return nil, 0, fmt.Errorf("querying samples: %w", err)
	}
	defer closeWithError(rows, &err)

	columns := make([][]float64, 4)
	for i := range columns {
		columns[i] = make([]float64, 0, r.chunkSize)
	}

	var t, x, y, z float64
	for rows.Next() {
		if err = rows.Scan(&lastSeq, &t, &x, &y, &z); err != nil {
			return nil, 0, fmt.Errorf("scanning sample: %w", err)
		}
		columns[0] = append(columns[0], t)
		columns[1] = append(columns[1], x)
		columns[2] = append(columns[2], y)
		columns[3] = append(columns[3], z)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating samples: %w", err)
	}

	return motion.NewChunk(r.session.Columns, columns), lastSeq, nil
}

func (r *SqliteChunkReader) Current() *motion.Chunk {
	return r.current
}

func (r *SqliteChunkReader) Error() error {
	return r.err
}

// Close releases the reader. The store's connection stays open.
func (r *SqliteChunkReader) Close() error {
	r.current = nil
	r.db = nil
	return nil
}
