package findings

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/scantriage/internal/app"
	"github.com/scan-io-git/scantriage/internal/config"
	model "github.com/scan-io-git/scantriage/internal/findings"
	"github.com/scan-io-git/scantriage/internal/project"
)

const snippetWidth = 60

var AppConfig *config.Config

// FindingsCmd groups the triage commands working on the project's findings.
var FindingsCmd = &cobra.Command{
	Use:                   "findings [command]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Short:                 "Lists, triages, deduplicates and exports the findings of a project",
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

func init() {
	FindingsCmd.AddCommand(listCmd)
	FindingsCmd.AddCommand(statusCmd)
	FindingsCmd.AddCommand(commentCmd)
	FindingsCmd.AddCommand(dedupCmd)
	FindingsCmd.AddCommand(exportCmd)
	FindingsCmd.AddCommand(carryCmd)
}

// openProject wires the application and loads the configured project.
func openProject(name string) (*app.App, *project.Project, error) {
	a, err := app.New(AppConfig, name, app.Options{})
	if err != nil {
		return nil, nil, err
	}
	p, err := a.RequireProject()
	if err != nil {
		a.Logger.Error("command needs a project", "error", err)
		return nil, nil, err
	}
	return a, p, nil
}

// PrintTable writes findings as an aligned table.
func PrintTable(w io.Writer, items []model.Finding) {
	if len(items) == 0 {
		fmt.Fprintln(w, "no findings")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCRITICALITY\tSTATUS\tRULE\tLOCATION\tSNIPPET")
	for _, f := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s:%d\t%s\n",
			f.ID, f.Pattern.Criticality, f.Status, f.Pattern.ID, f.FilePath, f.LineNumber, shorten(f.SnippetText))
	}
	tw.Flush()
}

// shorten keeps the first line of a snippet and cuts it to snippetWidth runes.
func shorten(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i] + " ..."
	}
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) > snippetWidth {
		return string(r[:snippetWidth-3]) + "..."
	}
	return s
}
