package logger

import (
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"

	"github.com/scan-io-git/scantriage/internal/config"
)

func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		level string
		want  hclog.Level
	}{
		{name: "config level", level: "debug", want: hclog.Debug},
		{name: "env wins over config", env: "error", level: "debug", want: hclog.Error},
		{name: "empty defaults to info", want: hclog.Info},
		{name: "unknown defaults to info", level: "loud", want: hclog.Info},
		{name: "warning alias", level: "warning", want: hclog.Warn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SCANTRIAGE_LOG_LEVEL", tt.env)
			cfg := &config.Config{Logger: config.Logger{Level: tt.level}}
			assert.Equal(t, tt.want, determineLogLevel(cfg))
		})
	}
}

func TestNewLoggerNilConfig(t *testing.T) {
	t.Setenv("SCANTRIAGE_LOG_LEVEL", "")
	l := NewLogger(nil, "test")
	assert.Equal(t, "test", l.Name())
	assert.True(t, l.IsInfo())
}
