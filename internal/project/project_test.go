package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/scantriage/internal/findings"
	"github.com/scan-io-git/scantriage/internal/store"
)

func TestCreate(t *testing.T) {
	dir := t.TempDir()

	path, err := Create(filepath.Join(dir, "triage"), false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "triage.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	_, err = Create(path, false)
	assert.Error(t, err)
	_, err = Create(path, true)
	assert.NoError(t, err)
}

func TestSaveAndOpenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path, err := Create(filepath.Join(dir, "triage.json"), false)
	require.NoError(t, err)

	s := store.New(nil)
	p, err := Open(path, dir, s, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())

	s.Ingest([]findings.Finding{{
		Pattern:     findings.Pattern{ID: "foo", Description: "bad", Criticality: findings.High, MatchText: "abc", Language: "semgrep"},
		FilePath:    "src/x.py",
		LineNumber:  5,
		SnippetText: "abc",
	}})
	s.SetComment(1, "confirmed with owner")
	s.SetStatus(1, findings.StatusFinding)
	s.ToggleSelection(1, true)
	require.NoError(t, p.Save())
	require.NotNil(t, p.Metadata)
	assert.False(t, p.Metadata.SavedAt.IsZero())

	reloaded := store.New(nil)
	_, err = Open(path, dir, reloaded, nil)
	require.NoError(t, err)

	all := reloaded.All()
	require.Len(t, all, 1)
	assert.Equal(t, 1, all[0].ID)
	assert.Equal(t, findings.StatusFinding, all[0].Status)
	assert.Equal(t, "confirmed with owner", all[0].Comment)
	assert.Equal(t, findings.High, all[0].Pattern.Criticality)
	assert.False(t, all[0].Selected, "selection is never persisted")
}

func TestReadLegacyCriticality(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.json")
	legacy := `{"matches":[{"matchId":7,"pattern":{"id":"r","description":"d","criticality":4,"pattern":"p","lang":"semgrep"},"path":"a.py","lineNumber":1,"lineContent":"p","status":"saveForLater","detectionType":"semgrep"}]}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0644))

	f, err := Read(path)
	require.NoError(t, err)
	require.Len(t, f.Matches, 1)
	assert.Equal(t, 7, f.Matches[0].ID)
	assert.Equal(t, findings.High, f.Matches[0].Pattern.Criticality)
	assert.Equal(t, findings.StatusSaveForLater, f.Matches[0].Status)
	assert.Nil(t, f.Metadata)
}

func TestReadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"matches":`), 0644))

	_, err := Read(path)
	assert.Error(t, err)

	_, err = Read(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
