package app

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/scantriage/internal/config"
	"github.com/scan-io-git/scantriage/internal/findings"
	"github.com/scan-io-git/scantriage/internal/project"
	"github.com/scan-io-git/scantriage/internal/runner"
)

func TestNewWithoutProject(t *testing.T) {
	cfg := config.Default()
	cfg.Workspace.Root = t.TempDir()

	a, err := New(cfg, "test", Options{ProgressOut: &bytes.Buffer{}})
	require.NoError(t, err)

	assert.Nil(t, a.Project)
	_, err = a.RequireProject()
	assert.ErrorIs(t, err, ErrNoProject)
	assert.NotNil(t, a.Scanner)
	assert.Equal(t, runner.Idle, a.Runner.State())
}

func TestNewLoadsProject(t *testing.T) {
	root := t.TempDir()
	path, err := project.Create(filepath.Join(root, "triage"), false)
	require.NoError(t, err)
	require.NoError(t, project.Write(path, &project.File{Matches: []findings.Finding{
		{ID: 4, FilePath: "a.py", LineNumber: 1, Status: findings.StatusFinding},
	}}))

	cfg := config.Default()
	cfg.Workspace.Root = root
	cfg.Project.Path = filepath.Join(root, "triage")

	a, err := New(cfg, "test", Options{ProgressOut: &bytes.Buffer{}})
	require.NoError(t, err)

	p, err := a.RequireProject()
	require.NoError(t, err)
	assert.Equal(t, path, p.Path)
	assert.Equal(t, 1, a.Store.Len())
}

func TestNewMissingProject(t *testing.T) {
	cfg := config.Default()
	cfg.Workspace.Root = t.TempDir()
	cfg.Project.Path = filepath.Join(cfg.Workspace.Root, "missing.json")

	_, err := New(cfg, "test", Options{ProgressOut: &bytes.Buffer{}})
	assert.Error(t, err)
}

func TestProgressInline(t *testing.T) {
	var out bytes.Buffer
	p := NewProgress(&out, nil, true)

	p.Observe(runner.Event{Kind: runner.EventStateChanged, State: runner.Starting})
	p.Observe(runner.Event{Kind: runner.EventProgress, Percent: 10, Elapsed: "0:00:01"})
	p.Observe(runner.Event{Kind: runner.EventProgress, Percent: 10, Elapsed: "0:00:02"})
	p.Observe(runner.Event{Kind: runner.EventProgress, Percent: 55, Elapsed: "0:00:03"})
	p.Observe(runner.Event{Kind: runner.EventStateChanged, State: runner.Draining})

	assert.Equal(t, "\rscanning  10% (0:00:01)\rscanning  55% (0:00:03)\n", out.String())
}

func TestProgressLogs(t *testing.T) {
	var out, logs bytes.Buffer
	log := hclog.New(&hclog.LoggerOptions{Output: &logs, Level: hclog.Info})
	p := NewProgress(&out, log, false)

	p.Observe(runner.Event{RunID: "r1", Kind: runner.EventProgress, Percent: 40, Elapsed: "0:00:04"})
	p.Observe(runner.Event{RunID: "r1", Kind: runner.EventWarning, Message: "nothing to scan"})

	assert.Empty(t, out.String())
	assert.Contains(t, logs.String(), "scan progress")
	assert.Contains(t, logs.String(), "percent=40")
	assert.Contains(t, logs.String(), "nothing to scan")
}
