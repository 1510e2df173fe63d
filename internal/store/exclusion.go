package store

import (
	"path"
	"strings"
	"sync"

	"github.com/IGLOU-EU/go-wildcard/v2"
)

// ExclusionSet holds workspace-relative paths hidden from queries.
// A folder entry hides everything beneath it; entries containing * or ? are wildcard patterns.
type ExclusionSet struct {
	mu      sync.RWMutex
	entries map[string]struct{}
}

// NewExclusionSet creates a set from the given entries.
func NewExclusionSet(entries ...string) *ExclusionSet {
	e := &ExclusionSet{entries: make(map[string]struct{})}
	for _, entry := range entries {
		e.Add(entry)
	}
	return e
}

func normalize(p string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), `\`, "/")
	if p == "" {
		return ""
	}
	return strings.TrimPrefix(path.Clean(p), "./")
}

// Add excludes a path, folder or pattern.
func (e *ExclusionSet) Add(entry string) {
	entry = normalize(entry)
	if entry == "" || entry == "." {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries[entry] = struct{}{}
}

// Remove re-includes an entry previously added.
func (e *ExclusionSet) Remove(entry string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.entries, normalize(entry))
}

// Len returns the number of entries.
func (e *ExclusionSet) Len() int {
	if e == nil {
		return 0
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.entries)
}

// Excludes reports whether p is hidden by any entry.
func (e *ExclusionSet) Excludes(p string) bool {
	if e == nil {
		return false
	}
	p = normalize(p)

	e.mu.RLock()
	defer e.mu.RUnlock()

	if _, ok := e.entries[p]; ok {
		return true
	}
	for entry := range e.entries {
		if strings.HasPrefix(p, entry+"/") {
			return true
		}
		if strings.ContainsAny(entry, "*?") && wildcard.Match(entry, p) {
			return true
		}
	}
	return false
}
