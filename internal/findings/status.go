package findings

import "fmt"

// Status is the triage decision recorded for a finding.
type Status string

const (
	StatusUnprocessed   Status = "unprocessed"
	StatusFinding       Status = "finding"
	StatusFalsePositive Status = "falsePositive"
	StatusSaveForLater  Status = "saveForLater"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusUnprocessed, StatusFinding, StatusFalsePositive, StatusSaveForLater}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseStatus validates a user supplied status value.
func ParseStatus(value string) (Status, error) {
	s := Status(value)
	if !s.Valid() {
		return "", fmt.Errorf("unknown status %q, expected one of %v", value, Statuses)
	}
	return s, nil
}
