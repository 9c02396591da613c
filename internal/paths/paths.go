// Package paths resolves where tally keeps its configuration, data and
// backups.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user configuration directory.
const AppName = "tally"

// DataDirName is the data directory created under the working directory
// when nothing else selects one.
const DataDirName = ".tally-db"

// BackupDirName is the backup directory created under the data directory.
const BackupDirName = "backups"

// Environment overrides.
const (
	EnvConfigDir = "TALLY_CONFIG_DIR"
	EnvDataDir   = "TALLY_DATA_DIR"
)

// Hooks overridden in tests.
var (
	userHomeDir   = os.UserHomeDir
	userConfigDir = os.UserConfigDir
	getwd         = os.Getwd
)

// DefaultConfigDir returns $XDG_CONFIG_HOME/tally or ~/.config/tally on
// Linux and os.UserConfigDir()/tally elsewhere.
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, AppName), nil
		}
		home, err := userHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", AppName), nil
	}
	dir, err := userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}

// ResolveConfigDir picks the config directory: flag, then TALLY_CONFIG_DIR,
// then DefaultConfigDir.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir picks the data directory: flag, then the config file
// value, then TALLY_DATA_DIR, then ./.tally-db.
func ResolveDataDir(flag, configured string) (string, error) {
	for _, dir := range []string{flag, configured, os.Getenv(EnvDataDir)} {
		if dir != "" {
			return filepath.Abs(dir)
		}
	}
	cwd, err := getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DataDirName), nil
}

// ResolveBackupDir returns configured as an absolute path, or
// <dataDir>/backups when it is empty.
func ResolveBackupDir(configured, dataDir string) (string, error) {
	if configured != "" {
		return filepath.Abs(configured)
	}
	return filepath.Join(dataDir, BackupDirName), nil
}
