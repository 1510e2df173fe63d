package scan

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/scantriage/cmd/findings"
	"github.com/scan-io-git/scantriage/internal/app"
	"github.com/scan-io-git/scantriage/internal/config"
	"github.com/scan-io-git/scantriage/internal/scanner"
	"github.com/scan-io-git/scantriage/pkg/shared"
	"github.com/scan-io-git/scantriage/pkg/shared/errors"
)

// RunOptionsScan holds the arguments for the scan command.
type RunOptionsScan struct {
	ConfigSpec string
	Includes   string
	Excludes   string
	OutputPath string
	Binary     string
	DryRun     bool
	Overwrite  bool
}

var (
	AppConfig        *config.Config
	scanOptions      RunOptionsScan
	appOptions       app.Options
	exampleScanUsage = `  # Scanning the workspace with the registry's automatic rule selection
  scantriage scan --config auto --project triage.json

  # Scanning with a local rule folder and two registry packs
  scantriage scan --project triage.json rules/ p/ci p/secrets

  # Same configuration given as one comma separated value
  scantriage scan --project triage.json -c "rules/,p/ci,p/secrets"

  # Scanning only python sources while skipping tests
  scantriage scan --project triage.json -c rules/ --include "*.py" --exclude "tests/,*_test.py"

  # Writing the report to a chosen location and replacing an older one
  scantriage scan --project triage.json -c p/ci -o reports/ci.json --overwrite

  # Previewing findings without touching the project
  scantriage scan --dry-run -c p/ci`
)

// ScanCmd represents the scan command.
var ScanCmd = &cobra.Command{
	Use:                   "scan [--config/-c SPEC] [--include GLOBS] [--exclude GLOBS] [--output/-o PATH] [--overwrite] [--dry-run] [--binary PATH] [SPEC...]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleScanUsage,
	Short:                 "Runs the scanner over the workspace and imports its report",
	Long: `Runs the scanner over the workspace and imports its report into the project.

The rule configuration is a comma separated list of registry references
(p/ci, r/python.lang, URLs), rule files and rule folders. Every file below a
rule folder is passed to the scanner. An empty configuration means "auto".`,
	RunE: runScanCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

func runScanCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	if err := validateScanArgs(&scanOptions, args); err != nil {
		return errors.NewCommandError(scanOptions, err, 1)
	}

	a, err := app.New(AppConfig, "core-scan", appOptions)
	if err != nil {
		return errors.NewCommandError(scanOptions, err, 1)
	}
	if !scanOptions.DryRun {
		if _, err := a.RequireProject(); err != nil {
			a.Logger.Error("scan needs a project", "error", err)
			return errors.NewCommandError(scanOptions, err, 1)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	outcome, err := a.Scanner.Scan(ctx, scanner.Request{
		ConfigSpec: scanOptions.ConfigSpec,
		Includes:   scanOptions.Includes,
		Excludes:   scanOptions.Excludes,
		OutputPath: scanOptions.OutputPath,
		DryRun:     scanOptions.DryRun,
		Overwrite:  scanOptions.Overwrite,
		Binary:     scanOptions.Binary,
	})
	if err != nil {
		a.Logger.Error("scan command failed", "error", err, "kind", errors.KindOf(err))
		return errors.NewCommandError(scanOptions, err, 2)
	}

	if outcome.Import.Notice != "" {
		a.Logger.Info(outcome.Import.Notice)
	}
	if outcome.DryRun {
		findings.PrintTable(cmd.OutOrStdout(), outcome.Findings)
		a.Logger.Info("dry run completed", "findings", len(outcome.Findings))
		return nil
	}

	a.Logger.Info("scan command completed successfully",
		"imported", outcome.Import.Imported,
		"report", outcome.ArtifactPath,
		"project", a.Project.Path,
		"run_id", outcome.Run.RunID,
		"duration", outcome.Run.Duration,
	)
	return nil
}

// validateScanArgs merges positional rule references into the configuration and checks flag combinations.
func validateScanArgs(opts *RunOptionsScan, args []string) error {
	if len(args) > 0 {
		if opts.ConfigSpec != "" {
			return fmt.Errorf("rule configuration given both as --config and as arguments")
		}
		opts.ConfigSpec = strings.Join(args, ",")
	}
	if opts.DryRun && opts.OutputPath != "" {
		return fmt.Errorf("--output cannot be combined with --dry-run")
	}
	if opts.DryRun && opts.Overwrite {
		return fmt.Errorf("--overwrite cannot be combined with --dry-run")
	}
	return nil
}

// Initialize flags for the scan command.
func init() {
	ScanCmd.Flags().StringVarP(&scanOptions.ConfigSpec, "config", "c", "", "Comma separated rule references, rule files or rule folders. Empty means auto.")
	ScanCmd.Flags().StringVar(&scanOptions.Includes, "include", "", "Comma separated globs of paths to scan.")
	ScanCmd.Flags().StringVar(&scanOptions.Excludes, "exclude", "", "Comma separated globs of paths to skip.")
	ScanCmd.Flags().StringVarP(&scanOptions.OutputPath, "output", "o", "", "Path of the JSON report. Defaults to a dated name derived from the configuration.")
	ScanCmd.Flags().StringVar(&scanOptions.Binary, "binary", "", "Scanner executable, overrides scanner.binary from the configuration.")
	ScanCmd.Flags().BoolVar(&scanOptions.DryRun, "dry-run", false, "Print the findings without saving them to the project.")
	ScanCmd.Flags().BoolVar(&scanOptions.Overwrite, "overwrite", false, "Replace an existing report at the output path.")
	ScanCmd.Flags().BoolP("help", "h", false, "Show help for the scan command.")
}
