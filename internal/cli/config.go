package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/tally/internal/logging"
	"github.com/mesh-intelligence/tally/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envPrefix      = "TALLY"
)

// Config keys.
const (
	cfgKeyBackend           = "backend"
	cfgKeyDataDir           = "data_dir"
	cfgKeyLogLevel          = "log_level"
	cfgKeyLogFormat         = "log_format"
	cfgKeyLowStockThreshold = "low_stock_threshold"
	cfgKeyBackupDir         = "backup_dir"
)

// settings is the decoded configuration. It is also the shape of the
// config.yaml written on first run.
type settings struct {
	Backend           string `mapstructure:"backend" yaml:"backend"`
	DataDir           string `mapstructure:"data_dir" yaml:"data_dir,omitempty"`
	LogLevel          string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat         string `mapstructure:"log_format" yaml:"log_format"`
	LowStockThreshold int    `mapstructure:"low_stock_threshold" yaml:"low_stock_threshold"`
	BackupDir         string `mapstructure:"backup_dir" yaml:"backup_dir,omitempty"`
}

func defaultSettings() settings {
	return settings{
		Backend:           types.BackendJSON,
		LogLevel:          logging.DefaultLevel,
		LogFormat:         logging.DefaultFormat,
		LowStockThreshold: types.DefaultLowStockThreshold,
	}
}

func (s settings) logConfig() logging.Config {
	return logging.Config{Level: s.LogLevel, Format: s.LogFormat}
}

// loadConfig reads config.yaml from configDir, creating the directory and a
// default file on first run. TALLY_* environment variables override file
// values, except data_dir which follows the directory precedence in
// internal/paths.
func loadConfig(configDir string) (settings, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return settings{}, fmt.Errorf("create config dir: %w", err)
	}
	if err := writeConfigIfMissing(filepath.Join(configDir, configFileExt), defaultSettings()); err != nil {
		return settings{}, err
	}

	def := defaultSettings()
	v := viper.New()
	v.SetDefault(cfgKeyBackend, def.Backend)
	v.SetDefault(cfgKeyLogLevel, def.LogLevel)
	v.SetDefault(cfgKeyLogFormat, def.LogFormat)
	v.SetDefault(cfgKeyLowStockThreshold, def.LowStockThreshold)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	for _, key := range []string{cfgKeyBackend, cfgKeyLogLevel, cfgKeyLogFormat, cfgKeyLowStockThreshold, cfgKeyBackupDir} {
		if err := v.BindEnv(key); err != nil {
			return settings{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return settings{}, fmt.Errorf("decode config: %w", err)
	}
	return s, nil
}

// writeConfigIfMissing writes s to path unless the file already exists.
func writeConfigIfMissing(path string, s settings) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	data, err := yaml.Marshal(&s)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	header := []byte("# tally configuration\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
