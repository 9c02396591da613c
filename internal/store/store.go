// Package store persists tally collections. A collection is loaded whole
// and rewritten whole after every mutation, either as an indented JSON array
// in <data_dir>/<name>.json or as rows of a SQLite table. CSV import/export
// and timestamped JSON backups live here as well.
package store

import (
	"encoding/json"

	"go.uber.org/zap"
)

// Store loads and saves one collection.
type Store[T any] interface {
	// Load returns every record in stored order. A missing store is an
	// empty collection, not an error. Malformed records are skipped and
	// logged.
	Load() ([]T, error)

	// Save replaces the stored collection with items.
	Save(items []T) error
}

// validator is implemented by entities that can check themselves after
// decoding.
type validator interface {
	Validate() error
}

// decodeRecords unmarshals each raw record, dropping (and logging) the ones
// that fail to parse or validate.
func decodeRecords[T any](log *zap.Logger, name string, raws []json.RawMessage) []T {
	items := make([]T, 0, len(raws))
	for i, raw := range raws {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			log.Warn("skipping malformed record", zap.String("store", name), zap.Int("index", i), zap.Error(err))
			continue
		}
		if val, ok := any(v).(validator); ok {
			if err := val.Validate(); err != nil {
				log.Warn("skipping invalid record", zap.String("store", name), zap.Int("index", i), zap.Error(err))
				continue
			}
		}
		items = append(items, v)
	}
	return items
}

// encodeArray renders items as an indented JSON array. A nil slice is
// written as [].
func encodeArray[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
