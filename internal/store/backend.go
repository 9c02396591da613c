package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/tally/pkg/types"
)

// DatabaseFile is the SQLite database name inside the data directory.
const DatabaseFile = "tally.db"

// Backend lifecycle errors.
var (
	ErrDetached        = errors.New("backend is detached")
	ErrAlreadyAttached = errors.New("backend is already attached")
	ErrInvalidName     = errors.New("invalid collection name")
)

// Backend owns the data directory (and for sqlite, the database handle)
// that collection stores are opened against.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	dataDir  string
	db       *sql.DB
	log      *zap.Logger
}

// NewBackend creates a detached backend. A nil logger discards diagnostics.
func NewBackend(log *zap.Logger) *Backend {
	if log == nil {
		log = zap.NewNop()
	}
	return &Backend{log: log}
}

// Attach validates config, creates DataDir if needed and, for the sqlite
// backend, opens the database and creates the schema.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	if config.Backend == types.BackendSQLite {
		db, err := sql.Open("sqlite", filepath.Join(dataDir, DatabaseFile))
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		if _, err := db.Exec(schemaSQL); err != nil {
			db.Close()
			return fmt.Errorf("create schema: %w", err)
		}
		b.db = db
	}

	b.config = config
	b.dataDir = dataDir
	b.attached = true
	b.log.Debug("backend attached", zap.String("backend", config.Backend), zap.String("data_dir", dataDir))
	return nil
}

// Detach releases the database handle. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// DataDir returns the attached data directory.
func (b *Backend) DataDir() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dataDir
}

// Open returns the store for the named collection on b.
// Returns ErrDetached if b is not attached.
func Open[T any](b *Backend, name string) (Store[T], error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, ErrDetached
	}
	if name == "" || strings.ContainsAny(name, `/\.`) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	switch b.config.Backend {
	case types.BackendSQLite:
		return NewSQLiteTable[T](b.db, name, b.log), nil
	default:
		return NewJSONFile[T](filepath.Join(b.dataDir, name+".json"), b.log), nil
	}
}
