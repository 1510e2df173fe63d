package importcmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/scantriage/cmd/findings"
	"github.com/scan-io-git/scantriage/internal/app"
	"github.com/scan-io-git/scantriage/internal/config"
	"github.com/scan-io-git/scantriage/internal/importer"
	"github.com/scan-io-git/scantriage/internal/store"
	"github.com/scan-io-git/scantriage/pkg/shared"
	"github.com/scan-io-git/scantriage/pkg/shared/errors"
	"github.com/scan-io-git/scantriage/pkg/shared/files"
)

// RunOptionsImport holds the arguments for the import command.
type RunOptionsImport struct {
	InputFile string
	DryRun    bool
}

var (
	AppConfig          *config.Config
	importOptions      RunOptionsImport
	appOptions         app.Options
	exampleImportUsage = `  # Importing an existing semgrep JSON report into the project
  scantriage import --project triage.json --input reports/20240307_scan_ci.json

  # Same with the report as an argument
  scantriage import --project triage.json reports/20240307_scan_ci.json

  # Previewing the findings of a report without saving them
  scantriage import --dry-run -i reports/20240307_scan_ci.json`
)

// ImportCmd represents the import command.
var ImportCmd = &cobra.Command{
	Use:                   "import [--dry-run] {--input/-i PATH | PATH}",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleImportUsage,
	Short:                 "Imports a semgrep JSON report into the project",
	RunE:                  runImportCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

func runImportCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	if err := validateImportArgs(&importOptions, args); err != nil {
		return errors.NewCommandError(importOptions, err, 1)
	}

	a, err := app.New(AppConfig, "core-import", appOptions)
	if err != nil {
		return errors.NewCommandError(importOptions, err, 1)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if importOptions.DryRun {
		scratch := store.New(a.Logger.Named("scratch"))
		report, err := a.Importer.ImportFile(ctx, importOptions.InputFile, scratch, importer.ModeDryRun)
		if err != nil {
			a.Logger.Error("import command failed", "error", err, "kind", errors.KindOf(err))
			return errors.NewCommandError(importOptions, err, 2)
		}
		if report.Notice != "" {
			a.Logger.Info(report.Notice)
		}
		findings.PrintTable(cmd.OutOrStdout(), scratch.All())
		return nil
	}

	if _, err := a.RequireProject(); err != nil {
		a.Logger.Error("import needs a project", "error", err)
		return errors.NewCommandError(importOptions, err, 1)
	}

	report, err := a.Importer.ImportFile(ctx, importOptions.InputFile, a.Store, importer.ModeNormal)
	if err != nil {
		a.Logger.Error("import command failed", "error", err, "kind", errors.KindOf(err))
		return errors.NewCommandError(importOptions, err, 2)
	}
	if report.Notice != "" {
		a.Logger.Info(report.Notice)
	}

	a.Logger.Info("import command completed successfully", "imported", report.Imported, "project", a.Project.Path)
	return nil
}

// validateImportArgs takes the report path from --input or the only argument.
func validateImportArgs(opts *RunOptionsImport, args []string) error {
	switch {
	case len(args) > 1:
		return fmt.Errorf("expected a single report path, got %d", len(args))
	case len(args) == 1 && opts.InputFile != "":
		return fmt.Errorf("report path given both as --input and as an argument")
	case len(args) == 1:
		opts.InputFile = args[0]
	}
	if opts.InputFile == "" {
		return fmt.Errorf("a report path is required")
	}
	return files.ValidatePath(opts.InputFile)
}

// Initialize flags for the import command.
func init() {
	ImportCmd.Flags().StringVarP(&importOptions.InputFile, "input", "i", "", "Path to a semgrep JSON report.")
	ImportCmd.Flags().BoolVar(&importOptions.DryRun, "dry-run", false, "Print the findings without saving them to the project.")
	ImportCmd.Flags().BoolP("help", "h", false, "Show help for the import command.")
}
