// Package logging builds the zap loggers used by tally commands, stores and
// managers. Diagnostics go to stderr so menu output on stdout stays clean.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Supported output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Defaults applied when Config fields are empty.
const (
	DefaultLevel  = "warn"
	DefaultFormat = FormatConsole
)

// Config selects the minimum level and the encoder.
type Config struct {
	Level  string `mapstructure:"log_level" yaml:"log_level"`
	Format string `mapstructure:"log_format" yaml:"log_format"`
}

// Validate checks level and format, treating empty values as defaults.
func (c Config) Validate() error {
	if _, err := c.level(); err != nil {
		return err
	}
	switch c.format() {
	case FormatConsole, FormatJSON:
		return nil
	default:
		return fmt.Errorf("unknown log format %q (valid: %s, %s)", c.Format, FormatConsole, FormatJSON)
	}
}

func (c Config) level() (zapcore.Level, error) {
	name := strings.ToLower(strings.TrimSpace(c.Level))
	if name == "" {
		name = DefaultLevel
	}
	lvl, err := zapcore.ParseLevel(name)
	if err != nil {
		return lvl, fmt.Errorf("parse log level: %w", err)
	}
	return lvl, nil
}

func (c Config) format() string {
	f := strings.ToLower(strings.TrimSpace(c.Format))
	if f == "" {
		return DefaultFormat
	}
	return f
}

// New creates a logger writing to w. A nil w writes to stderr.
func New(cfg Config, w io.Writer) (*zap.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid log config: %w", err)
	}
	lvl, _ := cfg.level()
	if w == nil {
		w = os.Stderr
	}
	core := zapcore.NewCore(newEncoder(cfg.format()), zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}

// newEncoder creates JSON or console encoder.
func newEncoder(format string) zapcore.Encoder {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	if format == FormatConsole {
		encoderCfg.TimeKey = ""
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewConsoleEncoder(encoderCfg)
	}
	return zapcore.NewJSONEncoder(encoderCfg)
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
