package findings

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Criticality is the normalized severity of a rule. Ranks are stable and ordered.
type Criticality int

const (
	Unmapped Criticality = iota
	Info
	Low
	Medium
	High
	Critical
)

// UnmappedLabel is displayed for severities that did not match any known value.
const UnmappedLabel = "DID NOT MATCH - INFO LOW MEDIUM HIGH CRITICAL"

var criticalityLabels = map[Criticality]string{
	Unmapped: UnmappedLabel,
	Info:     "INFO",
	Low:      "LOW",
	Medium:   "MEDIUM",
	High:     "HIGH",
	Critical: "CRITICAL",
}

// String returns the display label.
func (c Criticality) String() string {
	if label, ok := criticalityLabels[c]; ok {
		return label
	}
	return UnmappedLabel
}

// Valid reports whether c is one of the defined ranks.
func (c Criticality) Valid() bool {
	return c >= Unmapped && c <= Critical
}

// ParseCriticality converts a display label back to a Criticality.
func ParseCriticality(label string) (Criticality, error) {
	for c, l := range criticalityLabels {
		if strings.EqualFold(l, label) {
			return c, nil
		}
	}
	return Unmapped, fmt.Errorf("unknown criticality %q", label)
}

// MarshalJSON encodes the label.
func (c Criticality) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts a label or a legacy integer rank.
func (c *Criticality) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err == nil {
		parsed, err := ParseCriticality(label)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	var rank int
	if err := json.Unmarshal(data, &rank); err != nil {
		return fmt.Errorf("criticality must be a label or an integer: %s", string(data))
	}
	if !Criticality(rank).Valid() {
		return fmt.Errorf("criticality rank %d out of range", rank)
	}
	*c = Criticality(rank)
	return nil
}
