package importer

import "github.com/scan-io-git/scantriage/internal/findings"

// severityTable maps scanner severities to criticality. Lookups are case-sensitive.
var severityTable = map[string]findings.Criticality{
	"INFO":          findings.Info,
	"INFORMATIONAL": findings.Info,
	"LOW":           findings.Low,
	"WARNING":       findings.Medium,
	"MEDIUM":        findings.Medium,
	"ERROR":         findings.High,
	"HIGH":          findings.High,
	"CRITICAL":      findings.Critical,
}

// MapSeverity returns the criticality for a raw severity, or findings.Unmapped.
func MapSeverity(severity string) findings.Criticality {
	if c, ok := severityTable[severity]; ok {
		return c
	}
	return findings.Unmapped
}
