package window

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/roman-kulish/attitude-survey/internal/logfile"
	"github.com/roman-kulish/attitude-survey/internal/motion"
)

var (
	// ErrUnknownChannel is returned when the requested channel is not a column
	// of the source.
	ErrUnknownChannel = errors.New("unknown channel")

	// ErrInvalidWindow is returned when the window's initial time is after its
	// final time.
	ErrInvalidWindow = errors.New("invalid time window")

	// ErrInvalidChunkSize is returned for a chunk size that is not positive.
	ErrInvalidChunkSize = errors.New("invalid chunk size")
)

// Request describes a windowed extraction.
type Request struct {
	Channel string
	Window  motion.TimeWindow
}

// ScanStats reports how much of the source an extraction touched.
type ScanStats struct {
	ChunksRead      int  // Chunks pulled from the reader, the stopping chunk included
	ChunksDiscarded int  // Chunks that ended before the window
	ChunksRetained  int  // Chunks that overlapped the window
	StoppedEarly    bool // A chunk starting after the window ended the scan
}

// WithLogger sets the logger for the extractor
func WithLogger(logger *slog.Logger) func(*Extractor) {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// Extractor pulls a time-windowed series out of a chunked source.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates an extractor.
func NewExtractor(options ...func(*Extractor)) *Extractor {
	e := Extractor{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, option := range options {
		option(&e)
	}
	return &e
}

// Extract returns the (time, value) pairs of req.Channel whose timestamp lies
// in req.Window, both ends inclusive, in source order.
//
// Timestamps must be non-decreasing across the source. A chunk whose last
// timestamp is before the window is discarded; the first chunk whose first
// timestamp is after the window ends the scan, so no later chunk is read.
// A window that matches nothing yields an empty series and no error.
//
// The reader is not closed.
func (e *Extractor) Extract(ctx context.Context, reader ChunkReader, req Request) (motion.Series, ScanStats, error) {
	var stats ScanStats
	series := motion.Series{Channel: req.Channel, Time: []float64{}, Values: []float64{}}

	if !req.Window.Valid() {
		return series, stats, fmt.Errorf("%w: initial %g is after final %g", ErrInvalidWindow, req.Window.Initial, req.Window.Final)
	}
	if !slices.Contains(reader.Columns(), req.Channel) {
		return series, stats, fmt.Errorf("%w: %q (have %v)", ErrUnknownChannel, req.Channel, reader.Columns())
	}

	var retained []*motion.Chunk
	for reader.Next(ctx) {
		chunk := reader.Current()
		stats.ChunksRead++

		if chunk.Len() == 0 {
			continue
		}
		if chunk.Last() < req.Window.Initial {
			stats.ChunksDiscarded++
			continue
		}
		if chunk.First() > req.Window.Final {
			stats.StoppedEarly = true
			break
		}
		retained = append(retained, chunk)
		stats.ChunksRetained++
	}
	if err := reader.Error(); err != nil {
		return series, stats, fmt.Errorf("reading chunks: %w", err)
	}

	for _, chunk := range retained {
		t := chunk.Time()
		v, _ := chunk.Column(req.Channel)
		for i, ts := range t {
			if req.Window.Contains(ts) {
				series.Time = append(series.Time, ts)
				series.Values = append(series.Values, v[i])
			}
		}
	}

	e.logger.Debug("window extracted",
		slog.String("channel", req.Channel),
		slog.Float64("initial", req.Window.Initial),
		slog.Float64("final", req.Window.Final),
		slog.Int("points", series.Len()),
		slog.Int("chunksRead", stats.ChunksRead),
		slog.Int("chunksRetained", stats.ChunksRetained),
		slog.Bool("stoppedEarly", stats.StoppedEarly))

	return series, stats, nil
}

// Extract runs a default extractor over reader.
func Extract(ctx context.Context, reader ChunkReader, req Request) (motion.Series, ScanStats, error) {
	return NewExtractor().Extract(ctx, reader, req)
}

// ExtractFile scans the log file at path in chunks of chunkSize rows and
// extracts req from it. Only the current chunk and the retained chunks are
// held in memory.
func (e *Extractor) ExtractFile(ctx context.Context, path string, schema logfile.Schema, chunkSize int, req Request) (series motion.Series, stats ScanStats, err error) {
	if chunkSize <= 0 {
		return series, stats, fmt.Errorf("%w: %d", ErrInvalidChunkSize, chunkSize)
	}

	reader, err := logfile.OpenChunks(path, schema, chunkSize, logfile.WithLogger(e.logger))
	if err != nil {
		return series, stats, err
	}
	defer func() {
		if cErr := reader.Close(); cErr != nil && err == nil {
			err = fmt.Errorf("closing '%s': %w", path, cErr)
		}
	}()

	return e.Extract(ctx, reader, req)
}
