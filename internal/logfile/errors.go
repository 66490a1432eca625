package logfile

import (
	"fmt"
	"io/fs"
)

// SourceNotFoundError is returned when a log file is missing or cannot be opened.
type SourceNotFoundError struct {
	Path string
	Err  error
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("source '%s' not found: %s", e.Path, e.Err)
}

func (e *SourceNotFoundError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, fs.ErrNotExist) match any missing source, even when
// the underlying cause is a permission error.
func (e *SourceNotFoundError) Is(target error) bool {
	return target == fs.ErrNotExist
}

// MalformedRecordError is returned when a line of a log file does not match
// its schema or holds a field that is not a number. Parsing stops at the
// first malformed record.
type MalformedRecordError struct {
	Path   string
	Line   int
	Column string // empty when the whole record is malformed
	Err    error
}

func (e *MalformedRecordError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s:%d: malformed record: %s", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: malformed field %q: %s", e.Path, e.Line, e.Column, e.Err)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}
