package logfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/roman-kulish/attitude-survey/internal/motion"
)

// DefaultChunkSize is the number of rows per chunk when none is given.
const DefaultChunkSize = 1 << 16

// recordReader reads a comma-delimited log file one numeric row at a time.
// The first line is a header and is always skipped; the schema, not the
// header, names the columns.
type recordReader struct {
	path   string
	schema Schema
	file   *os.File
	csv    *csv.Reader
	header bool
	row    []float64
}

func openRecords(path string, schema Schema) (*recordReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &SourceNotFoundError{Path: path, Err: err}
	}

	r := csv.NewReader(f)
	r.Comma = ','
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.ReuseRecord = true

	return &recordReader{
		path:   path,
		schema: schema,
		file:   f,
		csv:    r,
		row:    make([]float64, len(schema.Columns)),
	}, nil
}

// next returns the next parsed row. The returned slice is reused by the
// following call. io.EOF marks the end of the file.
func (r *recordReader) next() ([]float64, error) {
	if !r.header {
		r.header = true
		if _, err := r.csv.Read(); err != nil {
			return nil, r.wrap(err)
		}
	}

	record, err := r.csv.Read()
	if err != nil {
		return nil, r.wrap(err)
	}

	line, _ := r.csv.FieldPos(0)
	if len(record) != len(r.schema.Columns) {
		return nil, &MalformedRecordError{
			Path: r.path,
			Line: line,
			Err:  fmt.Errorf("expected %d fields, got %d", len(r.schema.Columns), len(record)),
		}
	}

	for i, field := range record {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, &MalformedRecordError{
				Path:   r.path,
				Line:   line,
				Column: r.schema.Columns[i],
				Err:    err,
			}
		}
		r.row[i] = v
	}
	return r.row, nil
}

func (r *recordReader) wrap(err error) error {
	if errors.Is(err, io.EOF) {
		return io.EOF
	}
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return &MalformedRecordError{Path: r.path, Line: parseErr.Line, Err: parseErr.Err}
	}
	return fmt.Errorf("reading '%s': %w", r.path, err)
}

func (r *recordReader) close() error {
	return r.file.Close()
}

// WithLogger sets the logger for the chunk reader
func WithLogger(logger *slog.Logger) func(*ChunkReader) {
	return func(c *ChunkReader) {
		c.logger = logger
	}
}

// ChunkReader scans a log file lazily, chunkSize rows at a time. Only the
// current chunk is held in memory; each chunk owns freshly allocated column
// slices, so callers may keep chunks after advancing.
type ChunkReader struct {
	records   *recordReader
	chunkSize int

	current *motion.Chunk
	rows    int
	done    bool
	err     error
	logger  *slog.Logger
}

// OpenChunks opens a log file for chunked scanning.
func OpenChunks(path string, schema Schema, chunkSize int, options ...func(*ChunkReader)) (*ChunkReader, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("invalid chunk size %d", chunkSize)
	}

	records, err := openRecords(path, schema)
	if err != nil {
		return nil, err
	}

	c := ChunkReader{
		records:   records,
		chunkSize: chunkSize,
		logger:    discardLogger(),
	}
	for _, option := range options {
		option(&c)
	}

	attrs := []any{
		slog.String("path", path),
		slog.String("schema", schema.Name),
		slog.Int("chunkSize", chunkSize),
	}
	if stat, err := records.file.Stat(); err == nil {
		attrs = append(attrs, slog.String("size", humanize.Bytes(uint64(stat.Size()))))
	}
	c.logger.Info("reading file", attrs...)

	return &c, nil
}

// Columns returns the schema's column names.
func (c *ChunkReader) Columns() []string {
	return c.records.schema.Columns
}

// Next reads the next chunk. It returns false at the end of the file or on
// error; check Error to tell them apart.
func (c *ChunkReader) Next(ctx context.Context) bool {
	if c.err != nil || c.done {
		return false
	}

	select {
	case <-ctx.Done():
		c.err = ctx.Err()
		return false
	default:
	}

	names := c.records.schema.Columns
	columns := make([][]float64, len(names))
	for i := range columns {
		columns[i] = make([]float64, 0, c.chunkSize)
	}

	n := 0
	for n < c.chunkSize {
		row, err := c.records.next()
		if errors.Is(err, io.EOF) {
			c.done = true
			break
		}
		if err != nil {
			c.err = err
			c.current = nil
			return false
		}
		for i, v := range row {
			columns[i] = append(columns[i], v)
		}
		n++
	}

	if n == 0 {
		c.current = nil
		return false
	}

	c.rows += n
	c.current = motion.NewChunk(names, columns)
	return true
}

// Current returns the chunk read by the last successful Next.
func (c *ChunkReader) Current() *motion.Chunk {
	return c.current
}

// Error returns the error that stopped the scan, if any.
func (c *ChunkReader) Error() error {
	return c.err
}

// Rows returns the number of data rows read so far.
func (c *ChunkReader) Rows() int {
	return c.rows
}

// Close releases the underlying file.
func (c *ChunkReader) Close() error {
	c.current = nil
	return c.records.close()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
