package project

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/scantriage/internal/app"
	"github.com/scan-io-git/scantriage/internal/config"
	"github.com/scan-io-git/scantriage/internal/findings"
	"github.com/scan-io-git/scantriage/internal/logger"
	"github.com/scan-io-git/scantriage/internal/project"
	"github.com/scan-io-git/scantriage/pkg/shared/errors"
)

var (
	AppConfig *config.Config
	force     bool
)

// ProjectCmd groups the project file commands.
var ProjectCmd = &cobra.Command{
	Use:                   "project [command]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Short:                 "Creates and inspects project files",
}

var newCmd = &cobra.Command{
	Use:                   "new [--force] PATH",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example: `  # Creating triage.json in the working directory
  scantriage project new triage

  # Replacing an existing project with an empty one
  scantriage project new --force triage.json`,
	Short: "Creates an empty project file",
	Args:  cobra.ExactArgs(1),
	RunE:  runNewCommand,
}

var infoCmd = &cobra.Command{
	Use:                   "info",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               "  scantriage project info --project triage.json",
	Short:                 "Prints the metadata and status counts of the project",
	Args:                  cobra.NoArgs,
	RunE:                  runInfoCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

func runNewCommand(cmd *cobra.Command, args []string) error {
	log := logger.NewLogger(AppConfig, "core-project")

	path, err := project.Create(args[0], force)
	if err != nil {
		log.Error("failed to create project", "error", err)
		return errors.NewCommandError(args, err, 1)
	}
	log.Info("project created", "path", path)
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func runInfoCommand(cmd *cobra.Command, args []string) error {
	a, err := app.New(AppConfig, "core-project", app.Options{})
	if err != nil {
		return errors.NewCommandError(nil, err, 1)
	}
	p, err := a.RequireProject()
	if err != nil {
		return errors.NewCommandError(nil, err, 1)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Project: %s\n", p.Path)
	fmt.Fprintf(out, "Workspace: %s\n", p.WorkspaceRoot)
	if md := p.Metadata; md != nil {
		fmt.Fprintf(out, "Saved: %s\n", md.SavedAt.Format("2006-01-02 15:04:05 MST"))
		if md.Branch != "" || md.Commit != "" {
			fmt.Fprintf(out, "Revision: %s %s\n", md.Branch, md.Commit)
		}
		if md.Remote != "" {
			fmt.Fprintf(out, "Remote: %s\n", md.Remote)
		}
	}

	counts := make(map[findings.Status]int)
	for _, f := range a.Store.All() {
		counts[f.Status]++
	}
	fmt.Fprintf(out, "Findings: %d\n", a.Store.Len())
	for _, s := range findings.Statuses {
		fmt.Fprintf(out, "  %s: %d\n", s, counts[s])
	}
	return nil
}

func init() {
	newCmd.Flags().BoolVar(&force, "force", false, "Replace an existing project file.")
	ProjectCmd.AddCommand(newCmd)
	ProjectCmd.AddCommand(infoCmd)
}
