package importer

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/scantriage/internal/artifact"
	"github.com/scan-io-git/scantriage/internal/findings"
	"github.com/scan-io-git/scantriage/pkg/shared/errors"
	sharedfiles "github.com/scan-io-git/scantriage/pkg/shared/files"
)

// Mode selects whether an import is persisted.
type Mode int

const (
	// ModeNormal ingests into the project store and runs the persistence and refresh hooks.
	ModeNormal Mode = iota
	// ModeDryRun ingests into a scratch store and skips the hooks.
	ModeDryRun
)

var windowsAbsPattern = regexp.MustCompile(`^([a-zA-Z]:)?[\\/]`)

// Target receives imported findings.
type Target interface {
	Ingest([]findings.Finding) []findings.Finding
}

// Hooks are invoked after a normal-mode import.
type Hooks struct {
	OnPersist func(added []findings.Finding) error
	OnRefresh func()
}

// Report summarizes one import.
type Report struct {
	Imported int
	// Notice is set when the report had nothing importable.
	Notice string
}

// Importer converts scanner reports into findings.
type Importer struct {
	root   string
	logger hclog.Logger
	hooks  Hooks
}

// New creates an importer resolving result paths against workspaceRoot.
func New(workspaceRoot string, logger hclog.Logger, hooks Hooks) *Importer {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Importer{root: workspaceRoot, logger: logger, hooks: hooks}
}

// ImportFile reads a report chosen by the user and imports it.
func (i *Importer) ImportFile(ctx context.Context, reportPath string, target Target, mode Mode) (Report, error) {
	a, err := artifact.Read(ctx, reportPath)
	if err != nil {
		if ctx.Err() != nil {
			return Report{}, errors.NewScanError(errors.KindCanceled, "import", err)
		}
		return Report{}, errors.NewScanError(errors.KindArtifact, "import", err)
	}
	return i.Import(ctx, a, target, mode)
}

// Import validates every result, builds the findings and ingests them in one call.
// Any invalid path or unreadable source file aborts the import before anything is ingested.
func (i *Importer) Import(ctx context.Context, a *artifact.Artifact, target Target, mode Mode) (Report, error) {
	if !a.HasResultList {
		notice := "report has no result list, nothing imported"
		i.logger.Info(notice)
		return Report{Notice: notice}, nil
	}

	paths := make([]string, len(a.Results))
	for n, r := range a.Results {
		rel, err := i.validatePath(r.Path)
		if err != nil {
			return Report{}, errors.NewScanError(errors.KindValidation, "import", err)
		}
		paths[n] = rel
	}

	sources := make(map[string]*sourceFile)
	built := make([]findings.Finding, 0, len(a.Results))
	for n, r := range a.Results {
		if err := ctx.Err(); err != nil {
			return Report{}, errors.NewScanError(errors.KindCanceled, "import", err)
		}

		src, ok := sources[paths[n]]
		if !ok {
			content, err := os.ReadFile(filepath.Join(i.root, filepath.FromSlash(paths[n])))
			if err != nil {
				return Report{}, errors.NewScanError(errors.KindValidation, "import", fmt.Errorf("failed to read source of %q: %w", paths[n], err))
			}
			src = newSourceFile(content)
			sources[paths[n]] = src
		}

		snippet := src.Slice(r.Start.Line, r.Start.Col, r.End.Line, r.End.Col)
		built = append(built, findings.Finding{
			Pattern: findings.Pattern{
				ID:          RuleID(r.CheckID),
				Description: r.Extra.Message,
				Criticality: MapSeverity(r.Extra.Severity),
				MatchText:   snippet,
				Language:    findings.DetectionType,
			},
			FilePath:      paths[n],
			LineNumber:    r.Start.Line,
			SnippetText:   snippet,
			Status:        findings.StatusUnprocessed,
			DetectionType: findings.DetectionType,
		})
	}

	added := target.Ingest(built)
	i.logger.Info("scan results imported", "count", len(added), "mode", modeName(mode))

	if mode == ModeNormal {
		if i.hooks.OnPersist != nil {
			if err := i.hooks.OnPersist(added); err != nil {
				return Report{Imported: len(added)}, fmt.Errorf("failed to persist imported findings: %w", err)
			}
		}
		if i.hooks.OnRefresh != nil {
			i.hooks.OnRefresh()
		}
	}
	return Report{Imported: len(added)}, nil
}

// validatePath returns the cleaned, slash-separated workspace-relative form of p.
func (i *Importer) validatePath(p string) (string, error) {
	if p == "" {
		return "", fmt.Errorf("result has an empty path")
	}
	if filepath.IsAbs(p) || windowsAbsPattern.MatchString(p) {
		return "", fmt.Errorf("result path %q is absolute; reports must use workspace-relative paths", p)
	}

	rel := path.Clean(strings.ReplaceAll(p, `\`, "/"))
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("result path %q escapes the workspace", p)
	}
	if i.root != "" {
		if _, err := sharedfiles.EnsureWithinRoot(i.root, filepath.Join(i.root, filepath.FromSlash(rel))); err != nil {
			return "", err
		}
	}
	return rel, nil
}

// RuleID returns the last dot-separated segment of a check id.
func RuleID(checkID string) string {
	return checkID[strings.LastIndex(checkID, ".")+1:]
}

func modeName(m Mode) string {
	if m == ModeDryRun {
		return "dry-run"
	}
	return "normal"
}
