package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/scan-io-git/scantriage/internal/findings"
)

// CriticalityMode selects how the criticality filter treats the visible list.
type CriticalityMode int

const (
	CriticalityAll CriticalityMode = iota
	CriticalityExact
	CriticalitySortAsc
	CriticalitySortDesc
)

// CriticalityFilter keeps one level or reorders the whole visible list.
type CriticalityFilter struct {
	Mode  CriticalityMode
	Level findings.Criticality
}

// ParseCriticalityFilter accepts "all", "asc", "desc" or a criticality label.
func ParseCriticalityFilter(value string) (CriticalityFilter, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "all":
		return CriticalityFilter{Mode: CriticalityAll}, nil
	case "asc":
		return CriticalityFilter{Mode: CriticalitySortAsc}, nil
	case "desc":
		return CriticalityFilter{Mode: CriticalitySortDesc}, nil
	}
	level, err := findings.ParseCriticality(value)
	if err != nil {
		return CriticalityFilter{}, fmt.Errorf("criticality filter must be all, asc, desc or a level: %w", err)
	}
	return CriticalityFilter{Mode: CriticalityExact, Level: level}, nil
}

// Filter describes a query. Empty string fields mean "all".
type Filter struct {
	Status      findings.Status
	Criticality CriticalityFilter
	Category    string
	Rule        string
	Excluded    *ExclusionSet
}

// View is the result of a query.
type View struct {
	Findings []findings.Finding
	// Categories are the distinct descriptions left after the status and criticality filters.
	Categories []string
	// Rules are the distinct rule ids left after the status, criticality and category filters.
	Rules []string
}

// Query applies the filters in a fixed order: status, criticality, category, rule, path exclusion.
func (s *Store) Query(f Filter) View {
	s.mu.Lock()
	visible := append([]findings.Finding(nil), s.findings...)
	s.mu.Unlock()

	if f.Status != "" {
		visible = keep(visible, func(x findings.Finding) bool { return x.Status == f.Status })
	}

	switch f.Criticality.Mode {
	case CriticalityExact:
		visible = keep(visible, func(x findings.Finding) bool { return x.Pattern.Criticality == f.Criticality.Level })
	case CriticalitySortAsc:
		sort.SliceStable(visible, func(i, j int) bool {
			return visible[i].Pattern.Criticality < visible[j].Pattern.Criticality
		})
	case CriticalitySortDesc:
		sort.SliceStable(visible, func(i, j int) bool {
			return visible[i].Pattern.Criticality > visible[j].Pattern.Criticality
		})
	}

	view := View{Categories: distinct(visible, func(x findings.Finding) string { return x.Pattern.Description })}

	if f.Category != "" {
		visible = keep(visible, func(x findings.Finding) bool { return x.Pattern.Description == f.Category })
	}
	view.Rules = distinct(visible, func(x findings.Finding) string { return x.Pattern.ID })

	if f.Rule != "" {
		visible = keep(visible, func(x findings.Finding) bool { return x.Pattern.ID == f.Rule })
	}
	if f.Excluded.Len() > 0 {
		visible = keep(visible, func(x findings.Finding) bool { return !f.Excluded.Excludes(x.FilePath) })
	}

	view.Findings = visible
	return view
}

func keep(in []findings.Finding, pred func(findings.Finding) bool) []findings.Finding {
	out := in[:0]
	for _, f := range in {
		if pred(f) {
			out = append(out, f)
		}
	}
	return out
}

func distinct(in []findings.Finding, field func(findings.Finding) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, f := range in {
		v := field(f)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
