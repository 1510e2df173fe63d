package findings

import (
	"github.com/spf13/cobra"

	"github.com/scan-io-git/scantriage/pkg/shared/errors"
)

var carryCmd = &cobra.Command{
	Use:                   "carry",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example: `  # Re-scanning and reusing the decisions taken on the previous scan
  scantriage scan --project triage.json -c p/ci --overwrite
  scantriage findings carry --project triage.json`,
	Short: "Copies triage decisions onto unprocessed findings that report an already triaged issue",
	Args:  cobra.NoArgs,
	RunE:  runCarryCommand,
}

func runCarryCommand(cmd *cobra.Command, args []string) error {
	a, p, err := openProject("core-findings-carry")
	if err != nil {
		return errors.NewCommandError(nil, err, 1)
	}

	res := a.Store.CarryTriage()
	if res.Updated == 0 {
		a.Logger.Info("no triage decisions to carry over", "unmatched", res.Unmatched)
		return nil
	}
	if err := p.Save(); err != nil {
		a.Logger.Error("failed to save project", "error", err)
		return errors.NewCommandError(nil, err, 2)
	}
	a.Logger.Info("triage decisions carried over", "updated", res.Updated, "unmatched", res.Unmatched)
	return nil
}
