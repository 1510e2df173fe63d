package store

import (
	"sort"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/scantriage/internal/findings"
	"github.com/scan-io-git/scantriage/pkg/shared/errors"
)

// Store owns the ordered collection of findings and their transient selection state.
// All methods are safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	logger   hclog.Logger
	findings []findings.Finding
	nextID   int
	selected map[int]struct{}
}

// New creates an empty store.
func New(logger hclog.Logger) *Store {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Store{
		logger:   logger,
		nextID:   1,
		selected: make(map[int]struct{}),
	}
}

// Reset drops every finding and the selection. Ids are not reused afterwards.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.findings = nil
	s.selected = make(map[int]struct{})
}

// Load replaces the contents with findings read from a project file.
// Stored ids are kept; missing or duplicate ids are reassigned.
func (s *Store) Load(loaded []findings.Finding) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.findings = make([]findings.Finding, 0, len(loaded))
	s.selected = make(map[int]struct{})

	seen := make(map[int]struct{}, len(loaded))
	for _, f := range loaded {
		if f.ID >= s.nextID {
			s.nextID = f.ID + 1
		}
	}
	for _, f := range loaded {
		if _, dup := seen[f.ID]; f.ID <= 0 || dup {
			f.ID = s.allocateID()
		}
		seen[f.ID] = struct{}{}
		f.Selected = false
		if f.Status == "" {
			f.Status = findings.StatusUnprocessed
		}
		s.findings = append(s.findings, f)
	}
	s.logger.Debug("findings loaded", "count", len(s.findings))
}

// Ingest appends findings in order and assigns fresh ids. Duplicates are kept.
func (s *Store) Ingest(incoming []findings.Finding) []findings.Finding {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := make([]findings.Finding, 0, len(incoming))
	for _, f := range incoming {
		f.ID = s.allocateID()
		f.Selected = false
		if f.Status == "" {
			f.Status = findings.StatusUnprocessed
		}
		s.findings = append(s.findings, f)
		added = append(added, f)
	}
	s.logger.Debug("findings ingested", "count", len(added), "total", len(s.findings))
	return added
}

func (s *Store) allocateID() int {
	id := s.nextID
	s.nextID++
	return id
}

// Deduplicate returns the findings with later copies of the same (path, line, snippet) removed.
// The store itself is not modified; pass the result to Replace to commit it.
func (s *Store) Deduplicate() []findings.Finding {
	s.mu.Lock()
	defer s.mu.Unlock()

	return deduplicate(s.findings)
}

func deduplicate(in []findings.Finding) []findings.Finding {
	seen := make(map[findings.Key]struct{}, len(in))
	out := make([]findings.Finding, 0, len(in))
	for _, f := range in {
		key := f.DedupKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, f)
	}
	return out
}

// Replace swaps the contents for the given findings, keeping their ids and selection flags.
func (s *Store) Replace(next []findings.Finding) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.findings = append([]findings.Finding(nil), next...)
	s.selected = make(map[int]struct{})
	for _, f := range s.findings {
		if f.ID >= s.nextID {
			s.nextID = f.ID + 1
		}
		if f.Selected {
			s.selected[f.ID] = struct{}{}
		}
	}
}

func (s *Store) indexOf(id int) int {
	for i := range s.findings {
		if s.findings[i].ID == id {
			return i
		}
	}
	return -1
}

// SetStatus records a triage decision. Unknown ids are logged and ignored.
func (s *Store) SetStatus(id int, status findings.Status) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		s.logger.Warn("status change for unknown finding ignored", "id", id, "status", status)
		return false
	}
	s.findings[i].Status = status
	return true
}

// ToggleSelection sets the selection flag of one finding.
func (s *Store) ToggleSelection(id int, selected bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		s.logger.Warn("selection change for unknown finding ignored", "id", id)
		return false
	}
	s.findings[i].Selected = selected
	if selected {
		s.selected[id] = struct{}{}
	} else {
		delete(s.selected, id)
	}
	return true
}

// AnySelected reports whether at least one finding is selected.
func (s *Store) AnySelected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.selected) > 0
}

// SelectedIDs returns the selected ids in ascending order.
func (s *Store) SelectedIDs() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// ClearSelection deselects every finding.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearSelectionLocked()
}

func (s *Store) clearSelectionLocked() {
	for id := range s.selected {
		if i := s.indexOf(id); i >= 0 {
			s.findings[i].Selected = false
		}
	}
	s.selected = make(map[int]struct{})
}

// ApplyBatchStatus sets status on every selected finding and then clears the selection.
// It returns the number of findings updated.
func (s *Store) ApplyBatchStatus(status findings.Status) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := 0
	for i := range s.findings {
		if _, ok := s.selected[s.findings[i].ID]; ok {
			s.findings[i].Status = status
			updated++
		}
	}
	s.clearSelectionLocked()
	return updated
}

// SetComment overwrites the comment of a finding.
func (s *Store) SetComment(id int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return errors.ErrNotFound
	}
	s.findings[i].Comment = text
	return nil
}

// Get returns a copy of the finding with the given id.
func (s *Store) Get(id int) (findings.Finding, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		return s.findings[i], true
	}
	return findings.Finding{}, false
}

// All returns a copy of every finding in insertion order.
func (s *Store) All() []findings.Finding {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]findings.Finding(nil), s.findings...)
}

// Len returns the number of stored findings.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.findings)
}
