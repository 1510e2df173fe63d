package version

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/scantriage/internal/config"
	"github.com/scan-io-git/scantriage/internal/runner"
)

var (
	AppConfig     *config.Config
	CoreVersion   = "unknown"
	GolangVersion = runtime.Version()
	BuildTime     = "unknown"
	asJSON        bool
)

// Versions holds version information for the application and the scanner it drives.
type Versions struct {
	Version       string `json:"version"`
	GolangVersion string `json:"golang_version"`
	BuildTime     string `json:"build_time"`
	Scanner       string `json:"scanner"`
	ScannerPath   string `json:"scanner_path,omitempty"`
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// NewVersionCmd creates a new cobra.Command for the version command.
func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "version [--json]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Print the version number of the application and the scanner binary in use",
		RunE: func(cmd *cobra.Command, args []string) error {
			v := collectVersions(AppConfig)
			if asJSON {
				data, err := json.MarshalIndent(v, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			printVersionInfo(cmd, v)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the version information as JSON.")
	return cmd
}

func collectVersions(cfg *config.Config) Versions {
	if cfg == nil {
		cfg = config.Default()
	}
	v := Versions{
		Version:       CoreVersion,
		GolangVersion: GolangVersion,
		BuildTime:     BuildTime,
		Scanner:       cfg.Scanner.Binary,
	}
	if path, err := runner.ResolveBinary(cfg.Scanner.Binary); err == nil {
		v.ScannerPath = path
	}
	return v
}

// printVersionInfo prints the version information for the application and the scanner.
func printVersionInfo(cmd *cobra.Command, v Versions) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Core Version: v%s\n", v.Version)
	if v.ScannerPath != "" {
		fmt.Fprintf(out, "Scanner: %s (%s)\n", v.Scanner, v.ScannerPath)
	} else {
		fmt.Fprintf(out, "Scanner: %s (not found in PATH)\n", v.Scanner)
	}
	fmt.Fprintf(out, "Go Version: %s\n", v.GolangVersion)
	fmt.Fprintf(out, "Build Time: %s\n", v.BuildTime)
}
