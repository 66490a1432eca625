package logfile

import (
	"errors"
	"fmt"
	"io"

	"github.com/roman-kulish/attitude-survey/internal/motion"
)

// OrientationLog holds the columns of an orientation log.
type OrientationLog struct {
	Time []float64
	Acc  []float64
	W    []float64
	X    []float64
	Y    []float64
	Z    []float64
}

// Samples returns the log as quaternion samples.
func (l *OrientationLog) Samples() []motion.QuaternionSample {
	samples := make([]motion.QuaternionSample, len(l.Time))
	for i := range l.Time {
		samples[i] = motion.QuaternionSample{T: l.Time[i], W: l.W[i], X: l.X[i], Y: l.Y[i], Z: l.Z[i]}
	}
	return samples
}

// AccelDCLog holds the columns of a DC MEMS accelerometer log.
type AccelDCLog struct {
	Time []float64
	X    []float64
	Y    []float64
	Z    []float64
}

// AxisStats holds the per-second aggregates of one accelerometer axis.
type AxisStats struct {
	Avg []float64
	Min []float64
	Max []float64
	Std []float64
}

// Accel1HzLog holds the columns of a 1 Hz aggregate accelerometer log.
type Accel1HzLog struct {
	Time []float64
	X    AxisStats
	Y    AxisStats
	Z    AxisStats
}

// LoadTable reads a whole log file into a table with the schema's columns.
func LoadTable(path string, schema Schema) (t *motion.Table, err error) {
	t, err = motion.NewTable(schema.Columns)
	if err != nil {
		return nil, fmt.Errorf("creating table: %w", err)
	}

	records, err := openRecords(path, schema)
	if err != nil {
		return nil, err
	}
	defer closeWithError(records, &err)

	for {
		row, err := records.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if err = t.AppendRow(row); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// LoadOrientation reads a whole orientation log.
func LoadOrientation(path string) (*OrientationLog, error) {
	t, err := LoadTable(path, OrientationSchema)
	if err != nil {
		return nil, err
	}
	return &OrientationLog{
		Time: t.Time(),
		Acc:  mustColumn(t, "Acc"),
		W:    mustColumn(t, "W"),
		X:    mustColumn(t, "X"),
		Y:    mustColumn(t, "Y"),
		Z:    mustColumn(t, "Z"),
	}, nil
}

// LoadAccelDC reads a whole DC accelerometer log.
func LoadAccelDC(path string) (*AccelDCLog, error) {
	t, err := LoadTable(path, AccelDCSchema)
	if err != nil {
		return nil, err
	}
	return &AccelDCLog{
		Time: t.Time(),
		X:    mustColumn(t, "X (DC)"),
		Y:    mustColumn(t, "Y (DC)"),
		Z:    mustColumn(t, "Z (DC)"),
	}, nil
}

// LoadAccel1Hz reads a whole 1 Hz aggregate log.
func LoadAccel1Hz(path string) (*Accel1HzLog, error) {
	t, err := LoadTable(path, Accel1HzSchema)
	if err != nil {
		return nil, err
	}

	axis := func(prefix string) AxisStats {
		return AxisStats{
			Avg: mustColumn(t, prefix+"_avg"),
			Min: mustColumn(t, prefix+"_min"),
			Max: mustColumn(t, prefix+"_max"),
			Std: mustColumn(t, prefix+"_std"),
		}
	}
	return &Accel1HzLog{
		Time: t.Time(),
		X:    axis("x"),
		Y:    axis("y"),
		Z:    axis("z"),
	}, nil
}

// mustColumn is only used with names taken from the package's own schemas.
func mustColumn(t *motion.Table, name string) []float64 {
	c, ok := t.Column(name)
	if !ok {
		panic(fmt.Sprintf("logfile: schema column %q missing from table", name))
	}
	return c
}

func closeWithError(cl interface{ close() error }, err *error) {
	if cErr := cl.close(); cErr != nil && *err == nil {
		*err = cErr
	}
}
