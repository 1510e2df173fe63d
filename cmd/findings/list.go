package findings

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	model "github.com/scan-io-git/scantriage/internal/findings"
	"github.com/scan-io-git/scantriage/internal/store"
	"github.com/scan-io-git/scantriage/pkg/shared/errors"
)

// filterOptions holds the query flags shared by list and export.
type filterOptions struct {
	Status      string
	Criticality string
	Category    string
	Rule        string
	Exclude     []string
}

// RunOptionsList holds the arguments for the findings list command.
type RunOptionsList struct {
	filterOptions
	JSON bool
}

var (
	listOptions      RunOptionsList
	exampleListUsage = `  # Listing every finding of the project
  scantriage findings list --project triage.json

  # Listing untriaged high findings
  scantriage findings list --project triage.json --status unprocessed --criticality HIGH

  # Most severe first, hiding vendored code and generated files
  scantriage findings list --project triage.json --criticality desc --exclude vendor/,"*.pb.go"

  # Printing the view with its categories and rules as JSON
  scantriage findings list --project triage.json --rule python.lang.security.audit.eval --json`
)

var listCmd = &cobra.Command{
	Use:                   "list [--status STATUS] [--criticality all|asc|desc|LEVEL] [--category TEXT] [--rule ID] [--exclude PATHS] [--json]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleListUsage,
	Short:                 "Lists the findings of the project through the triage filters",
	Args:                  cobra.NoArgs,
	RunE:                  runListCommand,
}

func runListCommand(cmd *cobra.Command, args []string) error {
	filter, err := listOptions.filterOptions.build()
	if err != nil {
		return errors.NewCommandError(listOptions, err, 1)
	}

	a, _, err := openProject("core-findings-list")
	if err != nil {
		return errors.NewCommandError(listOptions, err, 1)
	}

	view := a.Store.Query(filter)
	if listOptions.JSON {
		data, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return errors.NewCommandError(listOptions, err, 2)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	PrintTable(cmd.OutOrStdout(), view.Findings)
	a.Logger.Debug("findings listed", "visible", len(view.Findings), "total", a.Store.Len(),
		"categories", len(view.Categories), "rules", len(view.Rules))
	return nil
}

// build validates the flags and turns them into a store filter.
func (o filterOptions) build() (store.Filter, error) {
	var f store.Filter
	if o.Status != "" {
		s, err := model.ParseStatus(o.Status)
		if err != nil {
			return f, err
		}
		f.Status = s
	}
	crit, err := store.ParseCriticalityFilter(o.Criticality)
	if err != nil {
		return f, err
	}
	f.Criticality = crit
	f.Category = o.Category
	f.Rule = o.Rule

	var excluded []string
	for _, e := range o.Exclude {
		if e = strings.TrimSpace(e); e != "" {
			excluded = append(excluded, e)
		}
	}
	if len(excluded) > 0 {
		f.Excluded = store.NewExclusionSet(excluded...)
	}
	return f, nil
}

func (o *filterOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Status, "status", "", "Keep findings with this status: unprocessed, finding, falsePositive or saveForLater.")
	cmd.Flags().StringVar(&o.Criticality, "criticality", "", "Keep one level (INFO, LOW, MEDIUM, HIGH, CRITICAL) or order by level with asc or desc.")
	cmd.Flags().StringVar(&o.Category, "category", "", "Keep findings whose rule description equals this text.")
	cmd.Flags().StringVar(&o.Rule, "rule", "", "Keep findings of this rule id.")
	cmd.Flags().StringSliceVar(&o.Exclude, "exclude", nil, "Comma separated files, folders or wildcard patterns to hide.")
}

func init() {
	listOptions.filterOptions.bind(listCmd)
	listCmd.Flags().BoolVar(&listOptions.JSON, "json", false, "Print the view as JSON.")
}
