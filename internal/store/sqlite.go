package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// schemaSQL creates the single table shared by every collection.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS records (
	collection TEXT    NOT NULL,
	position   INTEGER NOT NULL,
	body       TEXT    NOT NULL,
	PRIMARY KEY (collection, position)
);
`

// SQLiteTable stores a collection as ordered rows of the records table.
type SQLiteTable[T any] struct {
	db   *sql.DB
	name string
	log  *zap.Logger
}

// NewSQLiteTable returns a store for collection name in db. The schema must
// already exist; Backend.Attach creates it.
func NewSQLiteTable[T any](db *sql.DB, name string, log *zap.Logger) *SQLiteTable[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &SQLiteTable[T]{db: db, name: name, log: log}
}

// Load reads the collection in position order.
func (s *SQLiteTable[T]) Load() ([]T, error) {
	rows, err := s.db.Query(`SELECT body FROM records WHERE collection = ? ORDER BY position`, s.name)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.name, err)
	}
	defer rows.Close()

	var raws []json.RawMessage
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.name, err)
		}
		raws = append(raws, json.RawMessage(body))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", s.name, err)
	}
	return decodeRecords[T](s.log, s.name, raws), nil
}

// Save replaces every row of the collection in one transaction.
func (s *SQLiteTable[T]) Save(items []T) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin %s: %w", s.name, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM records WHERE collection = ?`, s.name); err != nil {
		return fmt.Errorf("clear %s: %w", s.name, err)
	}

	stmt, err := tx.Prepare(`INSERT INTO records (collection, position, body) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare %s: %w", s.name, err)
	}
	defer stmt.Close()

	for i, item := range items {
		body, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("encoding %s record %d: %w", s.name, i, err)
		}
		if _, err := stmt.Exec(s.name, i, string(body)); err != nil {
			return fmt.Errorf("insert %s record %d: %w", s.name, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", s.name, err)
	}
	return nil
}
