package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// JSONFile stores a collection as an indented JSON array in one file.
type JSONFile[T any] struct {
	path string
	name string
	log  *zap.Logger
}

// NewJSONFile returns a store backed by path. A nil logger discards
// diagnostics.
func NewJSONFile[T any](path string, log *zap.Logger) *JSONFile[T] {
	if log == nil {
		log = zap.NewNop()
	}
	name := filepath.Base(path)
	return &JSONFile[T]{path: path, name: name, log: log}
}

// Path returns the file backing the store.
func (s *JSONFile[T]) Path() string {
	return s.path
}

// Load reads the whole file. A missing or empty file yields no records. A
// file that is not a JSON array is moved aside to <path>.corrupt and treated
// as empty so the next Save does not destroy it.
func (s *JSONFile[T]) Load() ([]T, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		aside := s.path + ".corrupt"
		s.log.Warn("store file is not a JSON array, starting empty",
			zap.String("store", s.name), zap.String("moved_to", aside), zap.Error(err))
		if rerr := os.Rename(s.path, aside); rerr != nil {
			return nil, fmt.Errorf("moving aside %s: %w", s.path, rerr)
		}
		return nil, nil
	}
	return decodeRecords[T](s.log, s.name, raws), nil
}

// Save rewrites the whole file.
func (s *JSONFile[T]) Save(items []T) error {
	data, err := encodeArray(items)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", s.name, err)
	}
	return writeFileAtomic(s.path, data)
}

// writeFileAtomic writes data using the temp-file, fsync, rename pattern.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tally-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
