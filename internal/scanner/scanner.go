package scanner

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/scantriage/internal/builder"
	"github.com/scan-io-git/scantriage/internal/config"
	"github.com/scan-io-git/scantriage/internal/findings"
	"github.com/scan-io-git/scantriage/internal/importer"
	"github.com/scan-io-git/scantriage/internal/runner"
	"github.com/scan-io-git/scantriage/internal/store"
	"github.com/scan-io-git/scantriage/pkg/shared/errors"
	"github.com/scan-io-git/scantriage/pkg/shared/files"
)

// DryRunArtifact is the report name used by dry runs. It is removed after every dry run.
const DryRunArtifact = ".scantriage_dry_run.json"

// Request is one user scan request.
type Request struct {
	ConfigSpec string
	Includes   string
	Excludes   string
	OutputPath string
	DryRun     bool
	Overwrite  bool
	// Binary overrides scanner.binary from the configuration.
	Binary string
}

// Prepared is a scan ready to run.
type Prepared struct {
	Command *builder.Command
	// OutputPath is the resolved report location as the user would name it.
	OutputPath string
	// ArtifactPath is the absolute report location.
	ArtifactPath string
	Warnings     []string
}

// Outcome is the result of a completed scan and import.
type Outcome struct {
	Run          *runner.Result
	Import       importer.Report
	ArtifactPath string
	DryRun       bool
	// Findings holds the dry-run findings; it is empty for normal scans.
	Findings []findings.Finding
}

// Options wires a Scanner.
type Options struct {
	Config        *config.Config
	WorkspaceRoot string
	Runner        *runner.Runner
	Importer      *importer.Importer
	Store         *store.Store
	Logger        hclog.Logger
	// Now is used for default report names; time.Now when nil.
	Now func() time.Time
}

// Scanner orchestrates command construction, the scanner run and the import of its report.
type Scanner struct {
	opts   Options
	logger hclog.Logger
}

// New creates a new Scanner instance with the provided configuration.
func New(opts Options) *Scanner {
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Scanner{opts: opts, logger: opts.Logger}
}

// PrepareScan builds the scanner command and resolves where its report goes.
func (s *Scanner) PrepareScan(req Request) (*Prepared, error) {
	binary := config.SetThen(req.Binary, s.opts.Config.Scanner.Binary)

	cmd, warnings, err := builder.BuildScanCommand(binary, req.ConfigSpec, s.opts.WorkspaceRoot)
	if err != nil {
		return nil, errors.NewScanError(errors.KindPrecondition, "prepare scan", err)
	}
	for _, w := range warnings {
		s.logger.Warn(w)
	}

	output := DryRunArtifact
	if !req.DryRun {
		userPath := req.OutputPath
		if userPath != "" && !filepath.IsAbs(userPath) {
			userPath = filepath.Join(s.opts.WorkspaceRoot, userPath)
		}
		output = builder.ResolveOutputPath(req.ConfigSpec, userPath, s.opts.Now())
	}
	artifactPath := builder.ResolveArtifactPath(s.opts.WorkspaceRoot, output)

	if files.IsDir(artifactPath) {
		return nil, errors.NewScanError(errors.KindPrecondition, "prepare scan", fmt.Errorf("report path %q is a directory", artifactPath))
	}
	if !req.DryRun && files.Exists(artifactPath) && !req.Overwrite {
		return nil, errors.NewScanError(errors.KindPrecondition, "prepare scan", fmt.Errorf("report %q already exists, pass --overwrite to replace it", artifactPath))
	}
	if err := files.CreateFolderIfNotExists(filepath.Dir(artifactPath)); err != nil {
		return nil, errors.NewScanError(errors.KindPrecondition, "prepare scan", err)
	}

	cmd.WithOutput(artifactPath).WithIncludes(req.Includes).WithExcludes(req.Excludes)

	return &Prepared{
		Command:      cmd,
		OutputPath:   output,
		ArtifactPath: artifactPath,
		Warnings:     warnings,
	}, nil
}

// Scan runs the scanner and imports its report. Dry runs import into a scratch store
// and always delete the report afterwards.
func (s *Scanner) Scan(ctx context.Context, req Request) (*Outcome, error) {
	prepared, err := s.PrepareScan(req)
	if err != nil {
		return nil, err
	}
	if req.DryRun {
		defer s.cleanup(prepared.ArtifactPath)
	}

	res, err := s.opts.Runner.Run(ctx, runner.Request{Command: prepared.Command, ArtifactPath: prepared.ArtifactPath})
	if err != nil {
		s.logger.Error("scan failed", "err", err)
		return nil, err
	}

	outcome := &Outcome{Run: res, ArtifactPath: prepared.ArtifactPath, DryRun: req.DryRun}

	if req.DryRun {
		scratch := store.New(s.logger.Named("scratch"))
		outcome.Import, err = s.opts.Importer.Import(ctx, res.Artifact, scratch, importer.ModeDryRun)
		outcome.Findings = scratch.All()
	} else {
		outcome.Import, err = s.opts.Importer.Import(ctx, res.Artifact, s.opts.Store, importer.ModeNormal)
	}
	if err != nil {
		return outcome, err
	}

	s.logger.Info("scan imported", "imported", outcome.Import.Imported, "artifact", prepared.ArtifactPath, "dry_run", req.DryRun)
	return outcome, nil
}

// cleanup removes a dry-run report. Failures are logged only.
func (s *Scanner) cleanup(path string) {
	if err := files.RemoveIfExists(path); err != nil {
		s.logger.Warn("failed to remove dry-run report", "path", path, "err", err)
		return
	}
	s.logger.Debug("dry-run report removed", "path", path)
}
