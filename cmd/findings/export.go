package findings

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/scantriage/internal/sarif"
	"github.com/scan-io-git/scantriage/pkg/shared/errors"
	"github.com/scan-io-git/scantriage/pkg/shared/files"
)

// RunOptionsExport holds the arguments for the findings export command.
type RunOptionsExport struct {
	filterOptions
	OutputPath            string
	IncludeFalsePositives bool
}

var (
	exportOptions      RunOptionsExport
	exampleExportUsage = `  # Exporting confirmed findings as SARIF
  scantriage findings export --project triage.json --status finding -o results.sarif

  # Exporting everything, false positives as suppressed results, to stdout
  scantriage findings export --project triage.json --include-false-positives`
)

var exportCmd = &cobra.Command{
	Use:                   "export [--output/-o PATH] [--include-false-positives] [filters]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleExportUsage,
	Short:                 "Exports the findings of the project as a SARIF report",
	Args:                  cobra.NoArgs,
	RunE:                  runExportCommand,
}

func runExportCommand(cmd *cobra.Command, args []string) error {
	filter, err := exportOptions.filterOptions.build()
	if err != nil {
		return errors.NewCommandError(exportOptions, err, 1)
	}

	a, _, err := openProject("core-findings-export")
	if err != nil {
		return errors.NewCommandError(exportOptions, err, 1)
	}
	items := a.Store.Query(filter).Findings

	var out io.Writer = cmd.OutOrStdout()
	if exportOptions.OutputPath != "" {
		path, err := files.ExpandPath(exportOptions.OutputPath)
		if err != nil {
			return errors.NewCommandError(exportOptions, err, 1)
		}
		f, err := os.Create(path)
		if err != nil {
			a.Logger.Error("failed to create export file", "path", path, "error", err)
			return errors.NewCommandError(exportOptions, err, 2)
		}
		defer f.Close()
		out = f
	}

	if err := sarif.Write(out, items, sarif.Options{IncludeFalsePositives: exportOptions.IncludeFalsePositives}); err != nil {
		a.Logger.Error("failed to write SARIF report", "error", err)
		return errors.NewCommandError(exportOptions, err, 2)
	}
	a.Logger.Info("findings exported", "findings", len(items), "output", exportOptions.OutputPath)
	return nil
}

func init() {
	exportOptions.filterOptions.bind(exportCmd)
	exportCmd.Flags().StringVarP(&exportOptions.OutputPath, "output", "o", "", "Path of the SARIF file. Defaults to stdout.")
	exportCmd.Flags().BoolVar(&exportOptions.IncludeFalsePositives, "include-false-positives", false, "Export false positives as suppressed results.")
}
