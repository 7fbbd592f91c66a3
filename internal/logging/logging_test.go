package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/a3tai/huntreport/internal/config"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		logLevel string
		want     logrus.Level
	}{
		{name: "cli info", mode: config.ModeCLI, logLevel: "info", want: logrus.InfoLevel},
		{name: "cli debug", mode: config.ModeCLI, logLevel: "debug", want: logrus.DebugLevel},
		{name: "stdio info is quieted", mode: config.ModeStdio, logLevel: "info", want: logrus.WarnLevel},
		{name: "stdio error stays", mode: config.ModeStdio, logLevel: "error", want: logrus.ErrorLevel},
		{name: "stdio debug", mode: config.ModeStdio, logLevel: "debug", want: logrus.DebugLevel},
		{name: "unknown falls back to info", mode: config.ModeCLI, logLevel: "loud", want: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Mode = tt.mode
			cfg.LogLevel = tt.logLevel

			assert.Equal(t, tt.want, New(cfg).GetLevel())
		})
	}
}

func TestNewWithOutput_WritesFields(t *testing.T) {
	cfg := config.DefaultConfig()
	var buf bytes.Buffer

	logger := NewWithOutput(cfg, &buf)
	logger.WithField("hunt_code", "EE001E1R").Warn("record is mid-assembly")

	assert.Contains(t, buf.String(), "hunt_code=EE001E1R")
	assert.Contains(t, buf.String(), "level=warning")
}
