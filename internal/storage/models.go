package storage

import (
	"database/sql"
	"strings"
	"time"

	"github.com/roman-kulish/attitude-survey/internal/motion"
)

// Session is an imported accelerometer log.
type Session struct {
	ID         int64              `json:"id"`
	CreatedAt  time.Time          `json:"createdAt"`
	Name       string             `json:"name"`
	SourcePath string             `json:"sourcePath"`
	Columns    []string           `json:"columns"` // Source column names, Time first
	Samples    int64              `json:"samples"`
	TimeRange  *motion.TimeWindow `json:"timeRange,omitempty"` // nil for an empty session
}

type sessionData struct {
	ID         int64
	CreatedAt  time.Time
	Name       string
	SourcePath string
	Columns    string
	Samples    int64
	MinTime    sql.NullFloat64
	MaxTime    sql.NullFloat64
}

func (d *sessionData) scanArgs() []any {
	return []any{&d.ID, &d.CreatedAt, &d.Name, &d.SourcePath, &d.Columns, &d.Samples, &d.MinTime, &d.MaxTime}
}

func (d *sessionData) toSession() *Session {
	sess := Session{
		ID:         d.ID,
		CreatedAt:  d.CreatedAt,
		Name:       d.Name,
		SourcePath: d.SourcePath,
		Columns:    strings.Split(d.Columns, columnSeparator),
		Samples:    d.Samples,
	}
	if d.MinTime.Valid && d.MaxTime.Valid {
		sess.TimeRange = &motion.TimeWindow{Initial: d.MinTime.Float64, Final: d.MaxTime.Float64}
	}
	return &sess
}

// columnSeparator joins column names in the sessions table. Column names
// never contain it since the source files are comma-delimited.
const columnSeparator = ","
