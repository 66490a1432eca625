package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	_ "github.com/mattn/go-sqlite3"

	"github.com/roman-kulish/attitude-survey/internal/logfile"
	"github.com/roman-kulish/attitude-survey/internal/motion"
	"github.com/roman-kulish/attitude-survey/internal/window"
)

// WithLogger sets the logger for the store
func WithLogger(logger *slog.Logger) func(*SqliteStore) {
	return func(s *SqliteStore) {
		s.logger = logger
	}
}

// SqliteStore handles database operations
type SqliteStore struct {
	dbPath string
	logger *slog.Logger

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// NewSqliteStore creates a store backed by the Sqlite database at dbPath.
// Connections are opened, and the schema initialized, on first use.
func NewSqliteStore(dbPath string, options ...func(*SqliteStore)) *SqliteStore {
	s := SqliteStore{
		dbPath: dbPath,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, option := range options {
		option(&s)
	}
	return &s
}

func runSQLCommand(db *sql.DB, sql string) error {
	_, err := db.Exec(sql)
	return err
}

func (s *SqliteStore) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}

		if err = runSQLCommand(db, initSchemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *SqliteStore) getReadDB() (*sql.DB, error) {
	s.readDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

func (s *SqliteStore) CreateSession(ctx context.Context, name, sourcePath string, columns []string) (sessionID int64, err error) {
	if len(columns) != 4 || columns[0] != motion.TimeColumn {
		err = fmt.Errorf("expected %s and three axis columns, got %v", motion.TimeColumn, columns)
		return
	}
	for _, c := range columns {
		if strings.Contains(c, columnSeparator) {
			err = fmt.Errorf("column name %q contains %q", c, columnSeparator)
			return
		}
	}

	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, insertSessionSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	result, err := stmt.ExecContext(ctx, name, sourcePath, strings.Join(columns, columnSeparator))
	if err != nil {
		err = fmt.Errorf("inserting session: %w", err)
		return
	}

	sessionID, err = result.LastInsertId()
	if err != nil {
		err = fmt.Errorf("getting session ID: %w", err)
	}
	return
}

func (s *SqliteStore) Session(ctx context.Context, id int64) (session *Session, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}
	return loadSession(ctx, db, id)
}

func loadSession(ctx context.Context, db *sql.DB, id int64) (session *Session, err error) {
	stmt, err := db.PrepareContext(ctx, selectSessionSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	var data sessionData
	if err = stmt.QueryRowContext(ctx, id).Scan(data.scanArgs()...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = fmt.Errorf("%w: %d", ErrSessionNotFound, id)
			return
		}
		err = fmt.Errorf("scanning session: %w", err)
		return
	}
	return data.toSession(), nil
}

func (s *SqliteStore) Sessions(ctx context.Context) (sessions []*Session, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectSessionsSQL)
	if err != nil {
		err = fmt.Errorf("querying sessions: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var data sessionData
		if err = rows.Scan(data.scanArgs()...); err != nil {
			err = fmt.Errorf("scanning session: %w", err)
			return
		}
		sessions = append(sessions, data.toSession())
	}
	if err = rows.Err(); err != nil {
		err = fmt.Errorf("iterating sessions: %w", err)
	}
	return
}

func (s *SqliteStore) ImportChunks(ctx context.Context, sessionID int64, reader window.ChunkReader) (rows int64, err error) {
	db, err := s.getWriteDB()
	if err != nil {
		return 0, fmt.Errorf("getting write connection: %w", err)
	}

	sess, err := loadSession(ctx, db, sessionID)
	if err != nil {
		return 0, err
	}
	if columns := reader.Columns(); !slices.Equal(columns, sess.Columns) {
		return 0, fmt.Errorf("reader columns %v do not match session columns %v", columns, sess.Columns)
	}

	var seq int64
	if err = db.QueryRowContext(ctx, selectMaxSeqSQL, sessionID).Scan(&seq); err != nil {
		return 0, fmt.Errorf("querying last sequence: %w", err)
	}
	seq++

	for reader.Next(ctx) {
		chunk := reader.Current()

		var n int64
		if n, err = s.storeChunk(ctx, db, sessionID, seq, sess.Columns, chunk); err != nil {
			return rows, err
		}
		seq += n
		rows += n

		s.logger.Debug("chunk stored",
			slog.Int64("sessionID", sessionID),
			slog.Int64("rows", n),
			slog.Int64("total", rows))
	}
	if err = reader.Error(); err != nil {
		return rows, fmt.Errorf("reading chunks: %w", err)
	}
	return rows, nil
}

func (s *SqliteStore) storeChunk(ctx context.Context, db *sql.DB, sessionID, seq int64, columns []string, chunk *motion.Chunk) (n int64, err error) {
	if chunk.Len() == 0 {
		return 0, nil
	}

	axes := make([][]float64, 3)
	for i, name := range columns[1:] {
		c, ok := chunk.Column(name)
		if !ok {
			return 0, fmt.Errorf("chunk has no column %q", name)
		}
		axes[i] = c
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollbackWithError(tx, &err)

	stmt, err := tx.PrepareContext(ctx, insertSampleSQL)
	if err != nil {
		return 0, fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	for i, t := range chunk.Time() {
		if _, err = stmt.ExecContext(ctx, sessionID, seq+int64(i), t, axes[0][i], axes[1][i], axes[2][i]); err != nil {
			return 0, fmt.Errorf("inserting sample: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return int64(chunk.Len()), nil
}

// ImportFile creates a session named name and imports the log file at path
// into it, chunkSize rows per transaction. If the import fails the session
// and any samples already stored for it are removed.
func (s *SqliteStore) ImportFile(ctx context.Context, name, path string, schema logfile.Schema, chunkSize int) (session *Session, err error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: %d", window.ErrInvalidChunkSize, chunkSize)
	}

	reader, err := logfile.OpenChunks(path, schema, chunkSize, logfile.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}
	defer closeWithError(reader, &err)

	id, err := s.CreateSession(ctx, name, path, schema.Columns)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		// A partial import must not remain visible as a session.
		if dErr := s.deleteSession(context.WithoutCancel(ctx), id); dErr != nil {
			err = errors.Join(err, fmt.Errorf("removing partial session %d: %w", id, dErr))
		}
	}()

	rows, err := s.ImportChunks(ctx, id, reader)
	if err != nil {
		return nil, fmt.Errorf("importing '%s': %w", path, err)
	}

	s.logger.Info("file imported",
		slog.Int64("sessionID", id),
		slog.String("path", path),
		slog.String("schema", schema.Name),
		slog.String("rows", humanize.Comma(rows)))

	db, err := s.getWriteDB()
	if err != nil {
		return nil, fmt.Errorf("getting write connection: %w", err)
	}
	return loadSession(ctx, db, id)
}

func (s *SqliteStore) deleteSession(ctx context.Context, id int64) (err error) {
	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollbackWithError(tx, &err)

	if _, err = tx.ExecContext(ctx, deleteSamplesSQL, id); err != nil {
		return fmt.Errorf("deleting samples: %w", err)
	}
	if _, err = tx.ExecContext(ctx, deleteSessionSQL, id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ReadChunks creates a reader over the samples of an imported session. The
// reader pages through the session by sequence number, so only one chunk is
// held in memory at a time.
//
// Parameters:
//   - ctx: Context for cancellation and timeouts
//   - sessionID: Unique identifier of the session to read from
//   - chunkSize: Rows per chunk, must be positive
//   - opts: Optional configuration parameters for the reader (WithTimeRange)
//
// The returned reader must be closed after use. Each reader instance should
// only be used from a single goroutine.
func (s *SqliteStore) ReadChunks(ctx context.Context, sessionID int64, chunkSize int, opts ...ReaderOption) (*SqliteChunkReader, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: %d", window.ErrInvalidChunkSize, chunkSize)
	}

	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	sess, err := loadSession(ctx, db, sessionID)
	if err != nil {
		return nil, err
	}
	return newSqliteChunkReader(db, sess, chunkSize, opts...), nil
}

func (s *SqliteStore) Close() error {
	s.closeOnce.Do(func() {
		var writeErr, readErr error

		if s.writeDB != nil {
			_ = runSQLCommand(s.writeDB, initIndexesSQL)

			writeErr = s.writeDB.Close()
			s.writeDB = nil
		}

		if s.readDB != nil {
			readErr = s.readDB.Close()
			s.readDB = nil
		}

		s.closeErr = errors.Join(writeErr, readErr)
	})

	return s.closeErr
}
