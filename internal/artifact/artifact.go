package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Position is a 1-based line and column pair.
type Position struct {
	Line int `json:"line"`
	Col  int `json:"col"`
}

// Extra carries rule metadata attached to a result.
type Extra struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// Result is one match reported by the scanner.
type Result struct {
	CheckID string   `json:"check_id"`
	Path    string   `json:"path"`
	Start   Position `json:"start"`
	End     Position `json:"end"`
	Extra   Extra    `json:"extra"`
}

// Error is a problem the scanner recorded while producing the report.
type Error struct {
	Level    string `json:"level"`
	Type     string `json:"type,omitempty"`
	Message  string `json:"message,omitempty"`
	ShortMsg string `json:"short_msg,omitempty"`
	LongMsg  string `json:"long_msg,omitempty"`
}

// Text returns the most specific message available.
func (e Error) Text() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.ShortMsg != "":
		return e.ShortMsg
	case e.LongMsg != "":
		return e.LongMsg
	default:
		return "Unknown error"
	}
}

// Artifact is the scanner's JSON report.
type Artifact struct {
	Results []Result
	Errors  []Error

	// HasResultList is false when "results" is absent or not a JSON array.
	HasResultList bool
}

// UnmarshalJSON tolerates a missing or malformed "results" member.
func (a *Artifact) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*a = Artifact{}
	if results, ok := raw["results"]; ok && isArray(results) {
		if err := json.Unmarshal(results, &a.Results); err != nil {
			return fmt.Errorf("invalid results: %w", err)
		}
		a.HasResultList = true
	}
	if errs, ok := raw["errors"]; ok && isArray(errs) {
		if err := json.Unmarshal(errs, &a.Errors); err != nil {
			return fmt.Errorf("invalid errors: %w", err)
		}
	}
	return nil
}

func isArray(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return strings.HasPrefix(trimmed, "[")
}

// Parse decodes a report.
func Parse(data []byte) (*Artifact, error) {
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to parse scanner report: %w", err)
	}
	return &a, nil
}

// Read loads and decodes the report at path.
func Read(ctx context.Context, path string) (*Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scanner report %q: %w", path, err)
	}
	return Parse(data)
}

// ErrorsMessage formats the report's errors one per line, or returns "" when there are none.
func (a *Artifact) ErrorsMessage() string {
	if len(a.Errors) == 0 {
		return ""
	}
	lines := make([]string, 0, len(a.Errors))
	for _, e := range a.Errors {
		lines = append(lines, fmt.Sprintf("Semgrep %s: %s", e.Level, e.Text()))
	}
	return strings.Join(lines, "\n")
}
