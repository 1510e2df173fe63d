package findings

// DetectionType marks findings produced by the semgrep-compatible scanner.
const DetectionType = "semgrep"

// Pattern describes the rule that produced a finding.
type Pattern struct {
	ID          string      `json:"id"`
	Description string      `json:"description"`
	Criticality Criticality `json:"criticality"`
	MatchText   string      `json:"pattern"`
	Language    string      `json:"lang"`
}

// Finding is a single triaged match.
type Finding struct {
	ID            int     `json:"matchId"`
	Pattern       Pattern `json:"pattern"`
	FilePath      string  `json:"path"`
	LineNumber    int     `json:"lineNumber"`
	SnippetText   string  `json:"lineContent"`
	Status        Status  `json:"status"`
	Comment       string  `json:"comment,omitempty"`
	DetectionType string  `json:"detectionType,omitempty"`

	Selected bool `json:"-"`
}

// Key identifies findings that point at the same code.
type Key struct {
	FilePath    string
	LineNumber  int
	SnippetText string
}

// DedupKey returns the identity used for deduplication.
func (f Finding) DedupKey() Key {
	return Key{FilePath: f.FilePath, LineNumber: f.LineNumber, SnippetText: f.SnippetText}
}
