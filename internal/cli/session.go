package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/tally/internal/logging"
	"github.com/mesh-intelligence/tally/internal/paths"
	"github.com/mesh-intelligence/tally/internal/store"
	"github.com/mesh-intelligence/tally/pkg/types"
)

// session is the resolved configuration, logger and attached backend for
// one command run.
type session struct {
	settings  settings
	configDir string
	dataDir   string
	backupDir string
	log       *zap.Logger
	backend   *store.Backend
}

// resolveSettings loads the config and applies flag overrides without
// touching storage.
func resolveSettings(flags *rootFlags) (settings, string, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return settings{}, "", sysErrorf("resolve config dir: %w", err)
	}
	s, err := loadConfig(configDir)
	if err != nil {
		return settings{}, "", sysErrorf("load config: %w", err)
	}
	if flags.backend != "" {
		s.Backend = flags.backend
	}
	if flags.logLevel != "" {
		s.LogLevel = flags.logLevel
	}
	return s, configDir, nil
}

// openSession resolves directories, builds the logger and attaches the
// configured backend. Callers must close the session.
func openSession(cmd *cobra.Command, flags *rootFlags) (*session, error) {
	s, configDir, err := resolveSettings(flags)
	if err != nil {
		return nil, err
	}
	dataDir, err := paths.ResolveDataDir(flags.dataDir, s.DataDir)
	if err != nil {
		return nil, sysErrorf("resolve data dir: %w", err)
	}
	backupDir, err := paths.ResolveBackupDir(s.BackupDir, dataDir)
	if err != nil {
		return nil, sysErrorf("resolve backup dir: %w", err)
	}
	log, err := logging.New(s.logConfig(), cmd.ErrOrStderr())
	if err != nil {
		return nil, sysErrorf("%w", err)
	}

	backend := store.NewBackend(log)
	if err := backend.Attach(types.Config{Backend: s.Backend, DataDir: dataDir}); err != nil {
		return nil, sysErrorf("attach %s backend: %w", s.Backend, err)
	}
	log.Debug("session opened",
		zap.String("config_dir", configDir),
		zap.String("data_dir", dataDir),
		zap.String("backend", s.Backend))

	return &session{
		settings:  s,
		configDir: configDir,
		dataDir:   dataDir,
		backupDir: backupDir,
		log:       log,
		backend:   backend,
	}, nil
}

// close detaches the backend and flushes the logger.
func (s *session) close() error {
	err := s.backend.Detach()
	_ = s.log.Sync()
	if err != nil {
		return sysErrorf("detach backend: %w", err)
	}
	return nil
}

// withSession opens a session, runs fn and closes the session.
func withSession(cmd *cobra.Command, flags *rootFlags, fn func(*session) error) error {
	s, err := openSession(cmd, flags)
	if err != nil {
		return err
	}
	runErr := fn(s)
	closeErr := s.close()
	if runErr != nil {
		return runErr
	}
	return closeErr
}

// openStore opens the named collection store on the session backend.
func openStore[T any](s *session, name string) (store.Store[T], error) {
	st, err := store.Open[T](s.backend, name)
	if err != nil {
		return nil, sysErrorf("open %s: %w", name, err)
	}
	return st, nil
}
