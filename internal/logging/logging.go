// Package logging builds the zap loggers used by the engine and the CLI.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/conn-castle/spatialfill/internal/messages"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config holds logging configuration.
type Config struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	// Path is a file path, "stderr", or "stdout". Empty means stderr.
	Path        string `toml:"path"`
	Development bool   `toml:"development"`
}

// New builds a logger from cfg. An empty level means "warn" so that CLI output stays
// readable unless the user asks for more.
func New(cfg Config) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}

	level := strings.TrimSpace(cfg.Level)
	if level == "" {
		level = "warn"
	}
	atomic, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf(messages.LoggingLevelInvalidFmt, cfg.Level, err)
	}
	zc.Level = atomic

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", FormatConsole:
		zc.Encoding = FormatConsole
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	case FormatJSON:
		zc.Encoding = FormatJSON
	default:
		return nil, fmt.Errorf(messages.LoggingFormatInvalidFmt, cfg.Format, FormatConsole, FormatJSON)
	}
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		path = "stderr"
	}
	zc.OutputPaths = []string{path}
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.DisableStacktrace = !cfg.Development

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf(messages.LoggingBuildFmt, err)
	}
	return logger.Named("sfill"), nil
}
