package app

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/roman-kulish/attitude-survey/internal/kinematics"
	"github.com/roman-kulish/attitude-survey/internal/logfile"
	"github.com/roman-kulish/attitude-survey/internal/motion"
	"github.com/roman-kulish/attitude-survey/internal/orientation"
	"github.com/roman-kulish/attitude-survey/internal/storage"
	"github.com/roman-kulish/attitude-survey/internal/window"
)

// Report is what a run computed.
type Report struct {
	Euler  *orientation.EulerSeries
	Polar  *orientation.PolarSeries
	Window *motion.Series
	Scan   window.ScanStats
}

func Run(ctx context.Context, config *Config, logger *slog.Logger) (*Report, error) {
	var report Report

	if config.Orientation.Path != "" {
		if err := runOrientation(config, logger, &report); err != nil {
			return nil, fmt.Errorf("orientation: %w", err)
		}
	}

	var err error
	switch {
	case config.FromStore():
		err = extractFromStore(ctx, config, logger, &report)
	case config.Accel.Path != "":
		err = extractFromFile(ctx, config, logger, &report)
	}
	if err != nil {
		return nil, fmt.Errorf("extracting window: %w", err)
	}

	return &report, nil
}

func runOrientation(config *Config, logger *slog.Logger, report *Report) error {
	log, err := logfile.LoadOrientation(config.Orientation.Path)
	if err != nil {
		return err
	}

	opts := []func(*orientation.Series){orientation.WithLogger(logger)}
	if config.Orientation.SkipInvalid {
		opts = append(opts, orientation.WithSkipInvalid())
	}
	series := orientation.NewSeries(kinematics.New(), opts...)

	if report.Euler, err = series.Euler(log.W, log.X, log.Y, log.Z, config.Orientation.Radians); err != nil {
		return fmt.Errorf("converting to Euler angles: %w", err)
	}
	if report.Polar, err = series.Polar(log.W, log.X, log.Y, log.Z); err != nil {
		return fmt.Errorf("converting to polar form: %w", err)
	}

	unit := "deg"
	if config.Orientation.Radians {
		unit = "rad"
	}
	logger.Info("orientation converted",
		slog.String("path", config.Orientation.Path),
		slog.String("samples", humanize.Comma(int64(len(log.Time)))),
		slog.String("unit", unit),
		summarize("phi", report.Euler.Phi),
		summarize("theta", report.Euler.Theta),
		summarize("psi", report.Euler.Psi),
		summarize("inc", report.Polar.Inc),
		summarize("azi", report.Polar.Azi))

	return nil
}

func extractFromFile(ctx context.Context, config *Config, logger *slog.Logger, report *Report) error {
	schema, _ := logfile.SchemaByName(config.Accel.Schema)
	path := config.Accel.Path

	size, err := logfile.Size(path)
	if err != nil {
		return err
	}

	req := request(config)
	extractor := window.NewExtractor(window.WithLogger(logger))

	var series motion.Series
	if logfile.IsLargeSize(size, int64(config.Accel.SizeLimit)) {
		logger.Info("scanning large file in chunks",
			slog.String("path", path),
			slog.String("size", humanize.Bytes(uint64(size))),
			slog.String("limit", config.Accel.SizeLimit.String()))

		series, report.Scan, err = extractor.ExtractFile(ctx, path, schema, config.Accel.ChunkSize, req)
		if err != nil {
			return err
		}
	} else {
		logger.Info("loading file",
			slog.String("path", path),
			slog.String("size", humanize.Bytes(uint64(size))))

		table, err := logfile.LoadTable(path, schema)
		if err != nil {
			return err
		}
		reader, err := window.NewTableReader(table, config.Accel.ChunkSize)
		if err != nil {
			return err
		}
		if series, report.Scan, err = extractor.Extract(ctx, reader, req); err != nil {
			return err
		}
	}

	report.Window = &series
	logWindow(logger, config, report)
	return nil
}

func extractFromStore(ctx context.Context, config *Config, logger *slog.Logger, report *Report) (err error) {
	if _, err = os.Stat(config.Storage.Database); err != nil {
		return fmt.Errorf("database file '%s' does not exist: %w", config.Storage.Database, err)
	}

	store := storage.NewSqliteStore(config.Storage.Database, storage.WithLogger(logger))
	defer func() {
		if cErr := store.Close(); cErr != nil && err == nil {
			err = fmt.Errorf("closing store: %w", cErr)
		}
	}()

	req := request(config)
	reader, err := store.ReadChunks(ctx, config.Storage.Session, config.Accel.ChunkSize,
		storage.WithTimeRange(req.Window))
	if err != nil {
		return err
	}
	defer reader.Close()

	sess := reader.Session()
	logger.Info("reading session",
		slog.Int64("id", sess.ID),
		slog.String("name", sess.Name),
		slog.String("source", sess.SourcePath),
		slog.String("samples", humanize.Comma(sess.Samples)))

	series, stats, err := window.NewExtractor(window.WithLogger(logger)).Extract(ctx, reader, req)
	if err != nil {
		return err
	}

	report.Window, report.Scan = &series, stats
	logWindow(logger, config, report)
	return nil
}

func request(config *Config) window.Request {
	return window.Request{
		Channel: config.Window.Channel,
		Window:  motion.TimeWindow{Initial: config.Window.From, Final: config.Window.To},
	}
}

func logWindow(logger *slog.Logger, config *Config, report *Report) {
	logger.Info("window extracted",
		slog.Group("window",
			slog.Float64("from", config.Window.From),
			slog.Float64("to", config.Window.To)),
		slog.String("points", humanize.Comma(int64(report.Window.Len()))),
		summarize(config.Window.Channel, report.Window.Values),
		slog.Group("scan",
			slog.Int("read", report.Scan.ChunksRead),
			slog.Int("discarded", report.Scan.ChunksDiscarded),
			slog.Int("retained", report.Scan.ChunksRetained),
			slog.Bool("stoppedEarly", report.Scan.StoppedEarly)))
}

// summarize reports min, max, mean and standard deviation of the finite
// values of v.
func summarize(name string, v []float64) slog.Attr {
	finite := make([]float64, 0, len(v))
	for _, x := range v {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			finite = append(finite, x)
		}
	}
	if len(finite) == 0 {
		return slog.Group(name, slog.Int("n", 0))
	}

	mean, std := stat.MeanStdDev(finite, nil)
	return slog.Group(name,
		slog.Int("n", len(finite)),
		slog.Float64("min", floats.Min(finite)),
		slog.Float64("max", floats.Max(finite)),
		slog.Float64("mean", mean),
		slog.Float64("std", std))
}
