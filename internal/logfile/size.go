package logfile

import (
	"os"
)

// DefaultSizeLimit is the byte size above which a source is considered large.
const DefaultSizeLimit int64 = 100_000_000

// IsLargeSize reports whether size is strictly greater than limit.
func IsLargeSize(size, limit int64) bool {
	return size > limit
}

// IsLarge reports whether the file at path is larger than limit bytes. The
// answer is advisory; callers use it to choose between loading a whole file
// and scanning it in chunks.
func IsLarge(path string, limit int64) (bool, error) {
	size, err := Size(path)
	if err != nil {
		return false, err
	}
	return IsLargeSize(size, limit), nil
}

// Size returns the size of the file at path in bytes.
func Size(path string) (int64, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return 0, &SourceNotFoundError{Path: path, Err: err}
	}
	return stat.Size(), nil
}
