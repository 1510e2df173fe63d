package cmd

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/scantriage/cmd/findings"
	importcmd "github.com/scan-io-git/scantriage/cmd/import"
	"github.com/scan-io-git/scantriage/cmd/project"
	"github.com/scan-io-git/scantriage/cmd/scan"
	"github.com/scan-io-git/scantriage/cmd/version"
	"github.com/scan-io-git/scantriage/internal/config"
	"github.com/scan-io-git/scantriage/pkg/shared/errors"
)

var (
	cfgFile      string
	workspaceDir string
	projectPath  string
	AppConfig    *config.Config
	rootCmd      = &cobra.Command{
		Use:                   "scantriage [command]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Scantriage runs semgrep scans and triages their findings.",
		Long: `Scantriage runs the semgrep scanner over a workspace, imports its report
	into a project file and lets you triage, deduplicate and export the findings.
	`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "Path to the configuration file (default is config.yml).")
	rootCmd.PersistentFlags().StringVar(&workspaceDir, "workspace", "", "Workspace root. Defaults to the enclosing git repository or the working directory.")
	rootCmd.PersistentFlags().StringVar(&projectPath, "project", "", "Path to the project file holding the triaged findings.")

	rootCmd.AddCommand(version.NewVersionCmd())
	rootCmd.AddCommand(scan.ScanCmd)
	rootCmd.AddCommand(importcmd.ImportCmd)
	rootCmd.AddCommand(findings.FindingsCmd)
	rootCmd.AddCommand(project.ProjectCmd)
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		var cmdErr *errors.CommandError
		if stderrors.As(err, &cmdErr) {
			return cmdErr.ExitCode
		}
		return 1
	}
	return 0
}

func initConfig() {
	var err error

	AppConfig, err = config.NewConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if workspaceDir != "" {
		AppConfig.Workspace.Root = workspaceDir
	}
	if projectPath != "" {
		AppConfig.Project.Path = projectPath
	}

	version.Init(AppConfig)
	scan.Init(AppConfig)
	importcmd.Init(AppConfig)
	findings.Init(AppConfig)
	project.Init(AppConfig)
}
