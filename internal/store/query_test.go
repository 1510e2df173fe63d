package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/scantriage/internal/findings"
)

func seeded(t *testing.T) *Store {
	t.Helper()
	mk := func(path, rule, desc string, crit findings.Criticality, status findings.Status) findings.Finding {
		return findings.Finding{
			FilePath:    path,
			LineNumber:  1,
			SnippetText: rule,
			Status:      status,
			Pattern:     findings.Pattern{ID: rule, Description: desc, Criticality: crit},
		}
	}
	s := New(nil)
	s.Ingest([]findings.Finding{
		mk("src/a.py", "sqli", "SQL injection", findings.High, findings.StatusUnprocessed),
		mk("src/b.py", "xss", "Cross-site scripting", findings.Medium, findings.StatusUnprocessed),
		mk("vendor/lib.py", "sqli", "SQL injection", findings.Critical, findings.StatusUnprocessed),
		mk("src/c.py", "weak-hash", "Weak hash", findings.Low, findings.StatusFinding),
		mk("src/d.py", "odd", "Custom", findings.Unmapped, findings.StatusUnprocessed),
	})
	return s
}

func ids(fs []findings.Finding) []int {
	out := make([]int, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.ID)
	}
	return out
}

func TestQueryFilters(t *testing.T) {
	tests := []struct {
		name           string
		filter         Filter
		wantIDs        []int
		wantCategories []string
		wantRules      []string
	}{
		{
			name:           "no filters",
			filter:         Filter{},
			wantIDs:        []int{1, 2, 3, 4, 5},
			wantCategories: []string{"SQL injection", "Cross-site scripting", "Weak hash", "Custom"},
			wantRules:      []string{"sqli", "xss", "weak-hash", "odd"},
		},
		{
			name:           "status narrows rule list",
			filter:         Filter{Status: findings.StatusUnprocessed},
			wantIDs:        []int{1, 2, 3, 5},
			wantCategories: []string{"SQL injection", "Cross-site scripting", "Custom"},
			wantRules:      []string{"sqli", "xss", "odd"},
		},
		{
			name:           "exact criticality",
			filter:         Filter{Criticality: CriticalityFilter{Mode: CriticalityExact, Level: findings.High}},
			wantIDs:        []int{1},
			wantCategories: []string{"SQL injection"},
			wantRules:      []string{"sqli"},
		},
		{
			name:           "unmapped is kept",
			filter:         Filter{Criticality: CriticalityFilter{Mode: CriticalityExact, Level: findings.Unmapped}},
			wantIDs:        []int{5},
			wantCategories: []string{"Custom"},
			wantRules:      []string{"odd"},
		},
		{
			name:           "descending sort reorders everything",
			filter:         Filter{Criticality: CriticalityFilter{Mode: CriticalitySortDesc}},
			wantIDs:        []int{3, 1, 2, 4, 5},
			wantCategories: []string{"SQL injection", "Cross-site scripting", "Weak hash", "Custom"},
			wantRules:      []string{"sqli", "xss", "weak-hash", "odd"},
		},
		{
			name:           "ascending sort",
			filter:         Filter{Criticality: CriticalityFilter{Mode: CriticalitySortAsc}},
			wantIDs:        []int{5, 4, 2, 1, 3},
			wantCategories: []string{"Custom", "Weak hash", "Cross-site scripting", "SQL injection"},
			wantRules:      []string{"odd", "weak-hash", "xss", "sqli"},
		},
		{
			name:           "category then rule",
			filter:         Filter{Category: "SQL injection", Rule: "sqli"},
			wantIDs:        []int{1, 3},
			wantCategories: []string{"SQL injection", "Cross-site scripting", "Weak hash", "Custom"},
			wantRules:      []string{"sqli"},
		},
		{
			name:           "exclusion applied last",
			filter:         Filter{Rule: "sqli", Excluded: NewExclusionSet("vendor")},
			wantIDs:        []int{1},
			wantCategories: []string{"SQL injection", "Cross-site scripting", "Weak hash", "Custom"},
			wantRules:      []string{"sqli", "xss", "weak-hash", "odd"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := seeded(t).Query(tt.filter)
			assert.Equal(t, tt.wantIDs, ids(view.Findings))
			assert.Equal(t, tt.wantCategories, view.Categories)
			assert.Equal(t, tt.wantRules, view.Rules)
		})
	}
}

func TestQueryDoesNotMutateStore(t *testing.T) {
	s := seeded(t)
	s.Query(Filter{Criticality: CriticalityFilter{Mode: CriticalitySortAsc}, Status: findings.StatusFinding})
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(s.All()))
}

func TestParseCriticalityFilter(t *testing.T) {
	tests := []struct {
		input   string
		want    CriticalityFilter
		wantErr bool
	}{
		{input: "", want: CriticalityFilter{Mode: CriticalityAll}},
		{input: "all", want: CriticalityFilter{Mode: CriticalityAll}},
		{input: "ASC", want: CriticalityFilter{Mode: CriticalitySortAsc}},
		{input: "desc", want: CriticalityFilter{Mode: CriticalitySortDesc}},
		{input: "high", want: CriticalityFilter{Mode: CriticalityExact, Level: findings.High}},
		{input: "severe", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCriticalityFilter(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
