package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := `
logger:
  level: debug
  json_format: true
scanner:
  binary: /opt/semgrep/bin/semgrep
  timeout: 10m
  use_pty: false
workspace:
  root: /srv/repo
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := NewConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.True(t, GetBoolValue(cfg, "Logger.JSONFormat", false))
	assert.True(t, GetBoolValue(cfg, "Logger.DisableTime", true))
	assert.Equal(t, "/opt/semgrep/bin/semgrep", cfg.Scanner.Binary)
	assert.Equal(t, 10*time.Minute, cfg.Scanner.Timeout)
	assert.False(t, UsePTY(cfg))
	assert.Equal(t, DefaultMaxDiagnosticBytes, cfg.Scanner.MaxDiagnosticBytes)
	assert.Equal(t, "/srv/repo", cfg.Workspace.Root)
}

func TestNewConfigMissingFile(t *testing.T) {
	t.Setenv("SCANTRIAGE_CONFIG", "")

	_, err := NewConfig(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err, "an explicitly requested file must exist")

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := NewConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultScannerBinary, cfg.Scanner.Binary)
	assert.True(t, UsePTY(cfg))
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("SCANTRIAGE_SCANNER_BINARY", "/usr/local/bin/semgrep")
	t.Setenv("SCANTRIAGE_WORKSPACE", "/work")
	t.Setenv("SCANTRIAGE_PROJECT", "/work/triage.json")

	cfg := Default()
	assert.Equal(t, "/usr/local/bin/semgrep", cfg.Scanner.Binary)
	assert.Equal(t, "/work", cfg.Workspace.Root)
	assert.Equal(t, "/work/triage.json", cfg.Project.Path)
}

func TestValidateScannerConfig(t *testing.T) {
	tests := []struct {
		name    string
		scanner Scanner
		wantErr bool
	}{
		{name: "zero values", scanner: Scanner{}},
		{name: "negative timeout", scanner: Scanner{Timeout: -time.Second}, wantErr: true},
		{name: "timeout too long", scanner: Scanner{Timeout: 48 * time.Hour}, wantErr: true},
		{name: "negative buffer", scanner: Scanner{MaxDiagnosticBytes: -1}, wantErr: true},
		{name: "reasonable", scanner: Scanner{Timeout: time.Hour, MaxDiagnosticBytes: 1024}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScannerConfig(&tt.scanner)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewConfigEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "scan.env")
	require.NoError(t, os.WriteFile(envFile, []byte("SCANTRIAGE_PROJECT=~/triage.json\n"), 0644))

	t.Setenv("SCANTRIAGE_ENV_FILE", envFile)
	t.Setenv("SCANTRIAGE_CONFIG", filepath.Join(dir, "config.yml"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte("scanner:\n  binary: semgrep\n"), 0644))

	prev, had := os.LookupEnv("SCANTRIAGE_PROJECT")
	require.NoError(t, os.Unsetenv("SCANTRIAGE_PROJECT"))
	t.Cleanup(func() {
		if had {
			os.Setenv("SCANTRIAGE_PROJECT", prev)
		} else {
			os.Unsetenv("SCANTRIAGE_PROJECT")
		}
	})

	cfg, err := NewConfig("")
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "triage.json"), cfg.Project.Path)

	t.Setenv("SCANTRIAGE_ENV_FILE", filepath.Join(dir, "missing.env"))
	_, err = NewConfig("")
	assert.Error(t, err)
}
