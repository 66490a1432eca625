package logfile

import (
	"github.com/roman-kulish/attitude-survey/internal/motion"
)

// Schema is the fixed, order-significant column layout of a log file.
type Schema struct {
	Name    string
	Columns []string
}

var (
	// OrientationSchema describes the quaternion orientation log.
	OrientationSchema = Schema{
		Name:    "orientation",
		Columns: []string{motion.TimeColumn, "Acc", "W", "X", "Y", "Z"},
	}

	// AccelHFSchema describes the high-frequency accelerometer log.
	AccelHFSchema = Schema{
		Name:    "accel-hf",
		Columns: []string{motion.TimeColumn, "X", "Y", "Z"},
	}

	// AccelDCSchema describes the DC MEMS accelerometer log.
	AccelDCSchema = Schema{
		Name:    "accel-dc",
		Columns: []string{motion.TimeColumn, "X (DC)", "Y (DC)", "Z (DC)"},
	}

	// Accel1HzSchema describes the 1 Hz aggregate accelerometer log.
	Accel1HzSchema = Schema{
		Name: "accel-1hz",
		Columns: []string{
			motion.TimeColumn,
			"x_avg", "x_min", "x_max", "x_std",
			"y_avg", "y_min", "y_max", "y_std",
			"z_avg", "z_min", "z_max", "z_std",
		},
	}
)

var schemas = map[string]Schema{
	OrientationSchema.Name: OrientationSchema,
	AccelHFSchema.Name:     AccelHFSchema,
	AccelDCSchema.Name:     AccelDCSchema,
	Accel1HzSchema.Name:    Accel1HzSchema,
}

// SchemaByName returns the schema with the given name.
func SchemaByName(name string) (Schema, bool) {
	s, ok := schemas[name]
	return s, ok
}
