package store

import (
	"github.com/scan-io-git/scantriage/internal/correlate"
	"github.com/scan-io-git/scantriage/internal/findings"
)

// CarryResult counts what CarryTriage did.
type CarryResult struct {
	// Updated unprocessed findings took over a triage decision.
	Updated int
	// Unmatched unprocessed findings have no triaged counterpart and still need review.
	Unmatched int
}

// CarryTriage copies the status of already triaged findings onto unprocessed findings
// that report the same issue, typically after a re-scan shifted some lines.
// An empty comment is filled from the same source.
func (s *Store) CarryTriage() CarryResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	var known, fresh []findings.Finding
	var freshIdx []int
	for i, f := range s.findings {
		if f.Status == findings.StatusUnprocessed {
			fresh = append(fresh, f)
			freshIdx = append(freshIdx, i)
			continue
		}
		known = append(known, f)
	}
	if len(known) == 0 || len(fresh) == 0 {
		return CarryResult{Unmatched: len(fresh)}
	}

	c := correlate.NewCorrelator(fresh, known)
	res := CarryResult{Unmatched: len(c.UnmatchedNew())}
	for ni := range fresh {
		sources := c.KnownFor(ni)
		if len(sources) == 0 {
			continue
		}
		src := sources[0]
		target := &s.findings[freshIdx[ni]]
		target.Status = src.Status
		if target.Comment == "" {
			target.Comment = src.Comment
		}
		s.logger.Debug("triage carried over", "from", src.ID, "to", target.ID, "status", src.Status)
		res.Updated++
	}
	return res
}
