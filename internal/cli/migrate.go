package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/davidfowl/tally/pkg/migrate"
	"github.com/davidfowl/tally/pkg/rules"
	"github.com/davidfowl/tally/pkg/settings"
	"github.com/davidfowl/tally/pkg/ui/preview"
	"github.com/davidfowl/tally/pkg/ui/report"
	"github.com/davidfowl/tally/pkg/ui/theme"
)

type MigrateArgs struct {
	*RootArgs

	DryRun   bool
	NoBackup bool
}

func NewMigrateArgs(rootArgs *RootArgs) *MigrateArgs {
	return &MigrateArgs{
		RootArgs: rootArgs,
	}
}

func (ma *MigrateArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&ma.DryRun, "dry-run", false, "Preview pending migrations without changing anything")
	cmd.Flags().BoolVar(&ma.NoBackup, "no-backup", false, "Do not keep the legacy CSV as a .bak file")
}

func NewMigrateCmd(ma *MigrateArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending configuration and rule-format migrations",
		Example: `  # Apply all pending migrations, prompting before each:
  tally migrate

  # Preview what would change:
  tally migrate --dry-run

  # Migrate without prompting and without a CSV backup:
  tally migrate --yes --no-backup`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, ma)
		},
	}
	ma.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func runMigrate(cmd *cobra.Command, ma *MigrateArgs) error {
	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}

	reporter := report.NewReporter(cmd.OutOrStdout(), report.WithQuiet(ma.Quiet))
	cfgDir := settings.Dir(workDir, ma.ConfigDir)

	if ma.DryRun {
		return previewMigrations(cmd, cfgDir, workDir, reporter)
	}

	opts := migrate.Options{
		Reporter: reporter,
		WorkDir:  workDir,
		Yes:      ma.Yes,
		Backup:   !ma.NoBackup,
	}

	cfgDir, err = migrate.NewPipeline().Run(cmd.Context(), cfgDir, opts)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// Convert a legacy rule table if discovery still finds one. The user
	// asked for migrations explicitly, so no extra prompt here.
	s := settings.Load(settings.Path(cfgDir))

	path, format := settings.FindRules(cfgDir, s)
	if format == rules.FormatCSV {
		_, err := migrate.ConvertCSV(cmd.Context(), path, cfgDir, opts)
		if err != nil {
			return fmt.Errorf("convert rules: %w", err)
		}

		return nil
	}

	if migrate.Version(cfgDir) >= migrate.TargetVersion {
		reporter.Infof("Nothing to migrate - configuration is up to date")
	}

	return nil
}

// previewMigrations renders what a real run would change, mutating nothing.
func previewMigrations(cmd *cobra.Command, cfgDir, workDir string, reporter *report.Reporter) error {
	t := theme.Default
	out := cmd.OutOrStdout()
	pending := false

	base := filepath.Base(cfgDir)
	parent := filepath.Dir(cfgDir)

	switch {
	case migrate.Version(cfgDir) >= migrate.TargetVersion:
	case base == settings.ConfigDirName && parent == workDir:
		pending = true

		reporter.Infof("Would move ./%s to ./%s", settings.ConfigDirName,
			filepath.ToSlash(filepath.Join(settings.Namespace, settings.ConfigDirName)))

		for _, name := range []string{"data", "output"} {
			if info, err := os.Stat(filepath.Join(workDir, name)); err == nil && info.IsDir() {
				reporter.Detailf("Would move %s/ -> %s/", name,
					filepath.ToSlash(filepath.Join(settings.Namespace, name)))
			}
		}
	case base == settings.ConfigDirName && parent == filepath.Join(workDir, settings.Namespace):
		pending = true

		reporter.Infof("Would finish the interrupted layout migration")
	}

	s := settings.Load(settings.Path(cfgDir))

	csvPath, format := settings.FindRules(cfgDir, s)
	if format == rules.FormatCSV {
		pending = true

		err := previewConversion(out, t, reporter, csvPath, cfgDir)
		if err != nil {
			return err
		}
	}

	if !pending {
		reporter.Infof("Nothing to migrate - configuration is up to date")

		return nil
	}

	reporter.Hintf("Run without --dry-run to apply")

	return nil
}

func previewConversion(out io.Writer, t *theme.Theme, reporter *report.Reporter, csvPath, cfgDir string) error {
	set, err := rules.LoadCSV(csvPath, rules.MatchFirst)
	if err != nil {
		return fmt.Errorf("load legacy rules: %w", err)
	}

	content, err := rules.Content(set)
	if err != nil {
		return fmt.Errorf("render rules: %w", err)
	}

	reporter.Infof("Would convert %d merchant rules from %s to %s:",
		set.Len(), filepath.Base(csvPath), rules.FileName)

	rendered, err := preview.NewHighlighter(t).Render(content)
	if err != nil {
		rendered = content
	}

	mustN(fmt.Fprintln(out, rendered))

	// Show the settings change the conversion would append.
	settingsPath := settings.Path(cfgDir)

	data, err := os.ReadFile(settingsPath) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil || settings.HasMerchantsFile(data) {
		return nil
	}

	pointer := filepath.ToSlash(filepath.Join(filepath.Base(cfgDir), rules.FileName))
	changed := string(data) + settings.MerchantsFileEntry(pointer)

	diff := preview.Unified(t, settings.FileName, settings.FileName+" (new)", string(data), changed)
	if diff != "" {
		mustN(fmt.Fprintln(out, diff))
	}

	return nil
}
