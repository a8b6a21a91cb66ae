package cli

import (
	"fmt"
	"os"
	"slices"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/davidfowl/tally/pkg/migrate"
	"github.com/davidfowl/tally/pkg/rules"
	"github.com/davidfowl/tally/pkg/settings"
	"github.com/davidfowl/tally/pkg/ui/report"
	"github.com/davidfowl/tally/pkg/ui/theme"
)

const cmdExamples = `  # List the active categorization rules:
  tally rules

  # Show only the grocery rules:
  tally rules --filter groceries

  # Convert a legacy CSV rule table without prompting:
  tally rules --migrate

  # Apply pending configuration migrations:
  tally migrate

  # Preview pending migrations without changing anything:
  tally migrate --dry-run`

type RulesArgs struct {
	*RootArgs

	File    string
	Filter  string
	Migrate bool
}

func NewRulesArgs(rootArgs *RootArgs) *RulesArgs {
	return &RulesArgs{
		RootArgs: rootArgs,
	}
}

func (ra *RulesArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ra.File, "file", "", "Path to a rule file, overriding discovery")
	cmd.Flags().StringVar(&ra.Filter, "filter", "", "Show only rules fuzzy-matching this term")
	cmd.Flags().BoolVar(&ra.Migrate, "migrate", false, "Convert a legacy CSV rule table without prompting")

	err := cmd.MarkFlagFilename("file", "rules", "csv")
	if err != nil {
		panic(fmt.Errorf("mark file flag: %w", err))
	}
}

func NewRulesCmd(ra *RulesArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rules",
		Short:   "Resolve and list the active categorization rules",
		Example: cmdExamples,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRules(cmd, ra)
		},
	}
	ra.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func runRules(cmd *cobra.Command, ra *RulesArgs) error {
	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}

	reporter := report.NewReporter(cmd.OutOrStdout(), report.WithQuiet(ra.Quiet))
	opts := migrate.Options{
		Reporter:     reporter,
		WorkDir:      workDir,
		Yes:          ra.Yes,
		ForceMigrate: ra.Migrate,
	}

	cfgDir := settings.Dir(workDir, ra.ConfigDir)

	cfgDir, err = migrate.NewPipeline().Run(cmd.Context(), cfgDir, opts)
	if err != nil {
		// Migration failures never abort the run; the returned directory is
		// still usable.
		reporter.Errorf("%v", err)
	}

	set := migrate.ResolveRules(cmd.Context(), cfgDir, ra.File, opts)

	return listRules(cmd, set, ra.Filter)
}

func listRules(cmd *cobra.Command, set *rules.Set, filter string) error {
	if set.Len() == 0 {
		return nil
	}

	list := set.Rules

	if filter != "" {
		targets := make([]string, len(list))
		for i, r := range list {
			targets[i] = r.String()
		}

		matches := fuzzy.Find(filter, targets)
		if len(matches) == 0 {
			mustN(fmt.Fprintf(cmd.OutOrStdout(), "No rules match %q\n", filter))

			return nil
		}

		// Keep the set's priority order rather than match score order.
		slices.SortFunc(matches, func(a, b fuzzy.Match) int {
			return a.Index - b.Index
		})

		list = make([]*rules.Rule, 0, len(matches))
		for _, m := range matches {
			list = append(list, set.Rules[m.Index])
		}
	}

	t := theme.Default
	out := cmd.OutOrStdout()

	mustN(fmt.Fprintln(out))

	for _, r := range list {
		mustN(fmt.Fprintf(out, "  %s: %s\n", t.SelectedStyle.Render(r.Category), r.Match))
	}

	return nil
}
