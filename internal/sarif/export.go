package sarif

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/scan-io-git/scantriage/internal/findings"
)

const (
	toolName           = "semgrep"
	toolInformationURI = "https://semgrep.dev"
)

// Options controls which findings are exported.
type Options struct {
	// IncludeFalsePositives exports false positives as suppressed results instead of dropping them.
	IncludeFalsePositives bool
}

// levelFor maps a criticality to a SARIF result level.
func levelFor(c findings.Criticality) string {
	switch c {
	case findings.Critical, findings.High:
		return "error"
	case findings.Medium:
		return "warning"
	case findings.Low, findings.Info:
		return "note"
	default:
		return "none"
	}
}

// Build converts triaged findings into a SARIF 2.1.0 report with one rule per pattern id.
func Build(items []findings.Finding, opts Options) (*sarif.Report, error) {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("failed to create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI(toolName, toolInformationURI)
	rules := make(map[string]struct{})

	for _, f := range items {
		if f.Status == findings.StatusFalsePositive && !opts.IncludeFalsePositives {
			continue
		}

		if _, ok := rules[f.Pattern.ID]; !ok {
			rules[f.Pattern.ID] = struct{}{}
			run.AddRule(f.Pattern.ID).
				WithShortDescription(sarif.NewMultiformatMessageString(f.Pattern.Description)).
				WithProperties(sarif.Properties{
					"criticality": f.Pattern.Criticality.String(),
					"language":    f.Pattern.Language,
				})
		}

		run.AddDistinctArtifact(f.FilePath)

		result := run.CreateResultForRule(f.Pattern.ID).
			WithLevel(levelFor(f.Pattern.Criticality)).
			WithMessage(sarif.NewTextMessage(f.Pattern.Description))
		result.AddLocation(
			sarif.NewLocationWithPhysicalLocation(
				sarif.NewPhysicalLocation().
					WithArtifactLocation(sarif.NewSimpleArtifactLocation(f.FilePath)).
					WithRegion(sarif.NewSimpleRegion(f.LineNumber, f.LineNumber).
						WithSnippet(sarif.NewArtifactContent().WithText(f.SnippetText))),
			),
		)

		result.Properties = map[string]interface{}{
			"matchId": f.ID,
			"status":  string(f.Status),
		}
		if f.Comment != "" {
			result.Properties["comment"] = f.Comment
		}

		if f.Status == findings.StatusFalsePositive {
			justification := f.Comment
			result.Suppressions = append(result.Suppressions, &sarif.Suppression{
				Kind:          "external",
				Justification: &justification,
			})
		}
	}

	report.AddRun(run)
	return report, nil
}

// Write builds the report and writes it indented to w.
func Write(w io.Writer, items []findings.Finding, opts Options) error {
	report, err := Build(items, opts)
	if err != nil {
		return err
	}
	return report.PrettyWrite(w)
}
