// Package logging builds the process logger from configuration.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/a3tai/huntreport/internal/config"
)

// New returns a logger for cfg. Output always goes to stderr: in stdio mode
// stdout carries the MCP protocol, and in CLI mode stdout carries results.
// In stdio mode only warnings and above are written unless debug is enabled.
func New(cfg *config.Config) *logrus.Logger {
	return NewWithOutput(cfg, os.Stderr)
}

// NewWithOutput is New with an explicit destination
func NewWithOutput(cfg *config.Config, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:    true,
		DisableColors:    cfg.IsStdioMode(),
		QuoteEmptyFields: true,
	})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	// levels run from panic (0) to trace, so a larger value is more verbose
	if cfg.IsStdioMode() && !cfg.IsDebug() && level > logrus.WarnLevel {
		level = logrus.WarnLevel
	}
	logger.SetLevel(level)

	return logger
}
