package migrate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/davidfowl/tally/pkg/rules"
	"github.com/davidfowl/tally/pkg/settings"
)

// ConvertCSV rewrites a legacy CSV rule table as an expression rule file
// inside cfgDir and returns the new file's path. After a successful write
// the settings file gains a merchants_file pointer if it lacks one, and the
// CSV is renamed to .bak when opts.Backup is set. A failure at any point
// leaves the CSV in place so the conversion can be re-run.
func ConvertCSV(ctx context.Context, csvPath, cfgDir string, opts Options) (string, error) {
	opts = opts.withDefaults()

	_, span := tracer.Start(ctx, "migrate.convert", trace.WithAttributes(
		attribute.String("csv", csvPath),
		attribute.String("dir", cfgDir),
	))
	defer span.End()

	set, err := rules.LoadCSV(csvPath, rules.MatchFirst)
	if err != nil {
		return "", fmt.Errorf("load legacy rules: %w", err)
	}

	content, err := rules.Content(set)
	if err != nil {
		return "", fmt.Errorf("render rules: %w", err)
	}

	newPath := filepath.Join(cfgDir, rules.FileName)

	if err := atomicWrite(newPath, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write rules: %w", err)
	}

	opts.Reporter.Successf("Created: %s", displayPath(newPath, opts.WorkDir))
	opts.Reporter.Detailf("Converted %d merchant rules to new format", set.Len())

	// Back up only after the new file is durably written, so a failed
	// conversion never strands the user without their original rules.
	if opts.Backup {
		if err := backupCSV(csvPath, opts); err != nil {
			return "", err
		}
	}

	if err := pointSettingsAt(newPath, cfgDir, opts); err != nil {
		return "", err
	}

	return newPath, nil
}

func backupCSV(csvPath string, opts Options) error {
	if _, err := os.Stat(csvPath); err != nil {
		return nil
	}

	if err := os.Rename(csvPath, csvPath+".bak"); err != nil {
		return fmt.Errorf("back up legacy rules: %w", err)
	}

	name := filepath.Base(csvPath)
	opts.Reporter.Successf("Backed up: %s to %s.bak", name, name)

	return nil
}

// pointSettingsAt records the converted file in settings.yaml so later runs
// pick it up even if format detection changes. A missing settings file is
// fine; discovery falls back to the conventional file name.
func pointSettingsAt(rulePath, cfgDir string, opts Options) error {
	settingsPath := settings.Path(cfgDir)
	if _, err := os.Stat(settingsPath); err != nil {
		return nil
	}

	pointer := filepath.ToSlash(filepath.Join(filepath.Base(cfgDir), filepath.Base(rulePath)))

	appended, err := settings.EnsureMerchantsFile(settingsPath, pointer)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}

	if appended {
		opts.Reporter.Successf("Updated: %s", displayPath(settingsPath, opts.WorkDir))
		opts.Reporter.Detailf("Added merchants_file: %s", pointer)
	}

	return nil
}
