package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/roman-kulish/attitude-survey/internal/storage"
)

func Run(ctx context.Context, config *Config, logger *slog.Logger) (err error) {
	if config.List {
		if _, err = os.Stat(config.DBPath); errors.Is(err, fs.ErrNotExist) {
			logger.Info("no sessions", slog.String("db", config.DBPath))
			return nil
		} else if err != nil {
			return fmt.Errorf("checking database file '%s': %w", config.DBPath, err)
		}
	}

	var opts []func(*storage.SqliteStore)
	if config.Verbose {
		opts = append(opts, storage.WithLogger(logger))
	}

	store := storage.NewSqliteStore(config.DBPath, opts...)
	defer func() {
		if cErr := store.Close(); cErr != nil && err == nil {
			err = fmt.Errorf("closing store: %w", cErr)
		}
	}()

	if config.List {
		return listSessions(ctx, store, logger)
	}

	start := time.Now()
	logger.Info("importing, hold on tight, large files take a while",
		slog.String("path", config.InputFile),
		slog.String("schema", config.Schema.Name),
		slog.String("chunkSize", humanize.Comma(int64(config.ChunkSize))))

	sess, err := store.ImportFile(ctx, config.Name, config.InputFile, config.Schema, config.ChunkSize)
	if err != nil {
		return err
	}

	logger.Info("session created", sessionAttrs(sess, slog.Duration("took", time.Since(start)))...)
	return nil
}

func listSessions(ctx context.Context, store *storage.SqliteStore, logger *slog.Logger) error {
	sessions, err := store.Sessions(ctx)
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}
	if len(sessions) == 0 {
		logger.Info("no sessions")
		return nil
	}
	for _, sess := range sessions {
		logger.Info("session", sessionAttrs(sess)...)
	}
	return nil
}

func sessionAttrs(sess *storage.Session, extra ...any) []any {
	attrs := []any{
		slog.Int64("id", sess.ID),
		slog.String("name", sess.Name),
		slog.String("source", sess.SourcePath),
		slog.String("created", humanize.Time(sess.CreatedAt)),
		slog.String("samples", humanize.Comma(sess.Samples)),
	}
	if sess.TimeRange != nil {
		attrs = append(attrs, slog.Group("time",
			slog.Float64("from", sess.TimeRange.Initial),
			slog.Float64("to", sess.TimeRange.Final)))
	}
	return append(attrs, extra...)
}
