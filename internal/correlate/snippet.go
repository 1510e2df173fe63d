package correlate

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/scan-io-git/scantriage/internal/findings"
)

// Fingerprint hashes a snippet with surrounding whitespace of every line removed,
// so re-indented code keeps its fingerprint. An empty snippet has no fingerprint.
func Fingerprint(snippet string) string {
	lines := strings.Split(snippet, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	normalized := strings.TrimSpace(strings.Join(lines, "\n"))
	if normalized == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", sum[:])
}

func fingerprints(items []findings.Finding) []string {
	out := make([]string, len(items))
	for i, f := range items {
		out[i] = Fingerprint(f.SnippetText)
	}
	return out
}
