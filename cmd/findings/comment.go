package findings

import (
	"github.com/spf13/cobra"

	"github.com/scan-io-git/scantriage/pkg/shared/errors"
)

// RunOptionsComment holds the arguments for the findings comment command.
type RunOptionsComment struct {
	ID   int
	Text string
}

var commentOptions RunOptionsComment

var commentCmd = &cobra.Command{
	Use:                   "comment ID TEXT",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example: `  # Explaining a triage decision
  scantriage findings comment --project triage.json 12 "input is a constant"

  # Clearing a comment
  scantriage findings comment --project triage.json 12 ""`,
	Short: "Sets the comment of a finding",
	Args:  cobra.ExactArgs(2),
	RunE:  runCommentCommand,
}

func runCommentCommand(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args[:1])
	if err != nil {
		return errors.NewCommandError(commentOptions, err, 1)
	}
	commentOptions = RunOptionsComment{ID: ids[0], Text: args[1]}

	a, p, err := openProject("core-findings-comment")
	if err != nil {
		return errors.NewCommandError(commentOptions, err, 1)
	}

	if err := a.Store.SetComment(commentOptions.ID, commentOptions.Text); err != nil {
		a.Logger.Error("failed to set comment", "id", commentOptions.ID, "error", err)
		return errors.NewCommandError(commentOptions, err, 1)
	}
	if err := p.Save(); err != nil {
		a.Logger.Error("failed to save project", "error", err)
		return errors.NewCommandError(commentOptions, err, 2)
	}
	a.Logger.Info("comment recorded", "id", commentOptions.ID)
	return nil
}
