package findings

import (
	"github.com/spf13/cobra"

	"github.com/scan-io-git/scantriage/pkg/shared/errors"
)

var dedupCmd = &cobra.Command{
	Use:                   "dedup",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               "  scantriage findings dedup --project triage.json",
	Short:                 "Removes findings with the same file, line and snippet, keeping the first",
	Args:                  cobra.NoArgs,
	RunE:                  runDedupCommand,
}

func runDedupCommand(cmd *cobra.Command, args []string) error {
	a, p, err := openProject("core-findings-dedup")
	if err != nil {
		return errors.NewCommandError(nil, err, 1)
	}

	before := a.Store.Len()
	next := a.Store.Deduplicate()
	removed := before - len(next)
	if removed == 0 {
		a.Logger.Info("no duplicate findings", "findings", before)
		return nil
	}

	a.Store.Replace(next)
	if err := p.Save(); err != nil {
		a.Logger.Error("failed to save project", "error", err)
		return errors.NewCommandError(nil, err, 2)
	}
	a.Logger.Info("duplicates removed", "removed", removed, "findings", len(next))
	return nil
}
