package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// backupLayout is the timestamp layout of backup file names.
const backupLayout = "20060102_150405"

// Backup writes items as an indented JSON array to
// <dir>/<prefix>_<YYYYMMDD_HHMMSS>.json and returns the path.
func Backup[T any](dir, prefix string, items []T, now time.Time) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.json", prefix, now.Format(backupLayout)))
	data, err := encodeArray(items)
	if err != nil {
		return "", fmt.Errorf("encoding backup: %w", err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}
