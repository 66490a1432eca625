package storage

import (
	"context"
	"errors"

	"github.com/roman-kulish/attitude-survey/internal/logfile"
	"github.com/roman-kulish/attitude-survey/internal/window"
)

// ErrSessionNotFound is returned when no session has the requested ID.
var ErrSessionNotFound = errors.New("session not found")

// Store provides an interface for keeping raw accelerometer logs in a
// database, so that windows can be extracted from them repeatedly without
// re-parsing the source files.
type Store interface {
	// CreateSession registers a new import and returns its unique identifier.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - name: Human-readable session name
	//   - sourcePath: Path of the log file the samples come from
	//   - columns: Source column names, Time first, followed by three axes
	//
	// Returns:
	//   - sessionID: Unique identifier for the created session
	//   - error: If session creation fails or context is cancelled
	CreateSession(ctx context.Context, name, sourcePath string, columns []string) (sessionID int64, err error)

	// Session retrieves a session by its ID, with its sample count and time
	// range. Returns ErrSessionNotFound if there is no such session.
	Session(ctx context.Context, id int64) (session *Session, err error)

	// Sessions returns all sessions ordered by ID.
	Sessions(ctx context.Context) (sessions []*Session, err error)

	// ImportChunks appends every chunk of reader to the session, one
	// transaction per chunk, and returns the number of rows stored. Samples
	// keep their source order.
	ImportChunks(ctx context.Context, sessionID int64, reader window.ChunkReader) (rows int64, err error)

	// ImportFile creates a session for the log file at path and imports it.
	// A failed import leaves no session behind.
	ImportFile(ctx context.Context, name, path string, schema logfile.Schema, chunkSize int) (session *Session, err error)

	// ReadChunks returns a reader over the session's samples in source order,
	// chunkSize rows at a time. The reader must be closed after use.
	ReadChunks(ctx context.Context, sessionID int64, chunkSize int, opts ...ReaderOption) (*SqliteChunkReader, error)

	// Close releases all database connections and resources.
	// It is safe to call Close multiple times.
	Close() error
}

var _ Store = (*SqliteStore)(nil)
