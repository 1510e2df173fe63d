// Package correlate matches findings of a new scan against findings that were already triaged.
package correlate

import (
	"github.com/scan-io-git/scantriage/internal/findings"
)

// Correlator computes many-to-many correlations between new and known findings.
// It is inert until Process is called.
type Correlator struct {
	NewFindings   []findings.Finding
	KnownFindings []findings.Finding

	knownToNew map[int][]int
	newToKnown map[int][]int
	newHashes  []string
	knownHash  []string

	processed bool
}

// NewCorrelator creates a Correlator for the provided findings.
func NewCorrelator(newFindings, knownFindings []findings.Finding) *Correlator {
	return &Correlator{
		NewFindings:   newFindings,
		KnownFindings: knownFindings,
	}
}

// Process correlates every known finding with every new one in three ordered stages:
//  1. rule + path + line + snippet fingerprint
//  2. rule + path + snippet fingerprint
//  3. rule + path + line
//
// A finding matched in an earlier stage is excluded from later stages; several matches
// within one stage are kept. Process is idempotent.
func (c *Correlator) Process() {
	if c.processed {
		return
	}
	c.knownToNew = make(map[int][]int)
	c.newToKnown = make(map[int][]int)
	c.newHashes = fingerprints(c.NewFindings)
	c.knownHash = fingerprints(c.KnownFindings)

	matchedKnown := make(map[int]bool)
	matchedNew := make(map[int]bool)

	for _, stage := range []int{1, 2, 3} {
		matchedKnownThis := make(map[int]bool)
		matchedNewThis := make(map[int]bool)

		for ki := range c.KnownFindings {
			if matchedKnown[ki] {
				continue
			}
			for ni := range c.NewFindings {
				if matchedNew[ni] {
					continue
				}
				if c.matchStage(ki, ni, stage) {
					c.knownToNew[ki] = append(c.knownToNew[ki], ni)
					c.newToKnown[ni] = append(c.newToKnown[ni], ki)
					matchedKnownThis[ki] = true
					matchedNewThis[ni] = true
				}
			}
		}

		for ki := range matchedKnownThis {
			matchedKnown[ki] = true
		}
		for ni := range matchedNewThis {
			matchedNew[ni] = true
		}
	}

	c.processed = true
}

func (c *Correlator) matchStage(ki, ni, stage int) bool {
	k, n := c.KnownFindings[ki], c.NewFindings[ni]
	if k.Pattern.ID == "" || k.Pattern.ID != n.Pattern.ID || k.FilePath != n.FilePath {
		return false
	}
	sameHash := c.knownHash[ki] != "" && c.knownHash[ki] == c.newHashes[ni]

	switch stage {
	case 1:
		return k.LineNumber == n.LineNumber && sameHash
	case 2:
		return sameHash
	case 3:
		return k.LineNumber == n.LineNumber
	default:
		return false
	}
}

// KnownFor returns the known findings correlated to the new finding at index ni, in known order.
func (c *Correlator) KnownFor(ni int) []findings.Finding {
	c.Process()

	out := make([]findings.Finding, 0, len(c.newToKnown[ni]))
	for _, ki := range c.newToKnown[ni] {
		out = append(out, c.KnownFindings[ki])
	}
	return out
}

// UnmatchedNew returns the new findings without any correlation.
func (c *Correlator) UnmatchedNew() []findings.Finding {
	c.Process()

	var out []findings.Finding
	for ni, n := range c.NewFindings {
		if len(c.newToKnown[ni]) == 0 {
			out = append(out, n)
		}
	}
	return out
}
