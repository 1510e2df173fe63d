package findings

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	model "github.com/scan-io-git/scantriage/internal/findings"
	"github.com/scan-io-git/scantriage/pkg/shared/errors"
)

// RunOptionsStatus holds the arguments for the findings status command.
type RunOptionsStatus struct {
	Status string
	IDs    []int
}

var (
	statusOptions      RunOptionsStatus
	exampleStatusUsage = `  # Marking one finding as a true positive
  scantriage findings status --project triage.json --set finding 12

  # Marking several findings as false positives at once
  scantriage findings status --project triage.json --set falsePositive 3 4 9`
)

var statusCmd = &cobra.Command{
	Use:                   "status --set STATUS ID...",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleStatusUsage,
	Short:                 "Records a triage status for one or more findings",
	RunE:                  runStatusCommand,
}

func runStatusCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	status, ids, err := validateStatusArgs(statusOptions.Status, args)
	if err != nil {
		return errors.NewCommandError(statusOptions, err, 1)
	}
	statusOptions.IDs = ids

	a, p, err := openProject("core-findings-status")
	if err != nil {
		return errors.NewCommandError(statusOptions, err, 1)
	}

	updated := 0
	if len(ids) == 1 {
		if a.Store.SetStatus(ids[0], status) {
			updated = 1
		}
	} else {
		for _, id := range ids {
			a.Store.ToggleSelection(id, true)
		}
		updated = a.Store.ApplyBatchStatus(status)
	}
	if updated == 0 {
		return errors.NewCommandError(statusOptions, fmt.Errorf("none of the ids %v exist: %w", ids, errors.ErrNotFound), 1)
	}

	if err := p.Save(); err != nil {
		a.Logger.Error("failed to save project", "error", err)
		return errors.NewCommandError(statusOptions, err, 2)
	}
	a.Logger.Info("status recorded", "status", status, "updated", updated, "requested", len(ids))
	return nil
}

func validateStatusArgs(value string, args []string) (model.Status, []int, error) {
	if value == "" {
		return "", nil, fmt.Errorf("--set is required")
	}
	status, err := model.ParseStatus(value)
	if err != nil {
		return "", nil, err
	}
	ids, err := parseIDs(args)
	if err != nil {
		return "", nil, err
	}
	return status, ids, nil
}

func parseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid finding id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func init() {
	statusCmd.Flags().StringVar(&statusOptions.Status, "set", "", "Status to record: unprocessed, finding, falsePositive or saveForLater.")
}
