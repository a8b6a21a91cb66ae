package migrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/davidfowl/tally/pkg/log"
	"github.com/davidfowl/tally/pkg/rules"
	"github.com/davidfowl/tally/pkg/settings"
	"github.com/davidfowl/tally/pkg/ui/prompt"
)

// ResolveRules decides which rule source a run uses and returns the loaded
// set. It never fails the run: load and conversion failures are reported
// and degrade to a usable, possibly empty, set.
//
// An explicit rulePath overrides discovery through settings. When discovery
// finds a legacy CSV table, the user is offered a one-time conversion to
// the expression format; declining keeps the run on the CSV rules.
func ResolveRules(ctx context.Context, cfgDir, rulePath string, opts Options) *rules.Set {
	opts = opts.withDefaults()

	ctx, span := tracer.Start(ctx, "migrate.resolve_rules", trace.WithAttributes(
		attribute.String("dir", cfgDir),
	))
	defer span.End()

	s := settings.Load(settings.Path(cfgDir))

	mode, err := rules.GetMatchMode(s.RuleMode)
	if err != nil {
		log.WithContext(ctx).Warn("invalid rule_mode, using default", slog.Any("error", err))

		mode = rules.MatchFirst
	}

	path, format := settings.FindRules(cfgDir, s)
	if rulePath != "" {
		path = rulePath
		format = rules.DetectFormat(rulePath)

		if format == rules.FormatNone {
			opts.Reporter.Errorf("cannot read rule file %q", rulePath)
		}
	}

	span.SetAttributes(attribute.String("format", string(format)))

	var set *rules.Set

	switch format {
	case rules.FormatCSV:
		set = resolveCSV(ctx, path, cfgDir, mode, opts)
	case rules.FormatRules:
		set = loadFile(path, mode, opts)
	default:
		set = rules.NewSet(mode)
	}

	if set.Source != "" {
		opts.Reporter.Infof("Loaded %d categorization rules from %s", set.Len(), displayPath(set.Source, opts.WorkDir))
	}

	if set.Len() == 0 {
		opts.Reporter.Warnf("No merchant rules found - transactions will be categorized as Unknown")
	}

	return set
}

// resolveCSV loads a legacy CSV table and offers to convert it. Whatever
// happens, the rules that were already loaded stay usable for this run.
func resolveCSV(ctx context.Context, csvPath, cfgDir string, mode rules.MatchMode, opts Options) *rules.Set {
	set, err := rules.LoadCSV(csvPath, mode)
	if err != nil {
		opts.Reporter.Errorf("%v", err)

		return rules.NewSet(mode)
	}

	opts.Reporter.Notice("Upgrade Available",
		fmt.Sprintf("Found: %s (legacy CSV format)", filepath.Base(csvPath)),
		"",
		"The new .rules format supports expressions:",
		`  match: desc.contains("COSTCO") && amount > 200.0`,
		`  match: desc.matches("UBER.*EATS") && month == 12`,
	)

	if !confirmConvert(ctx, opts) {
		return set
	}

	opts.Reporter.Infof("Migrating to new format...")

	convertOpts := opts
	convertOpts.Backup = true

	newPath, err := ConvertCSV(ctx, csvPath, cfgDir, convertOpts)
	if err != nil {
		opts.Reporter.Errorf("Migration failed: %v", err)

		// This run keeps the rules that were already loaded from the CSV.
		return set
	}

	opts.Reporter.Successf("Migration complete! Your rules now support expressions.")

	newSet, err := rules.LoadFile(newPath, mode)
	if err != nil {
		opts.Reporter.Errorf("%v", err)

		return set
	}

	return newSet
}

// confirmConvert asks whether to convert a legacy table, defaulting to no.
// Without a terminal it hints at --migrate instead of blocking.
func confirmConvert(ctx context.Context, opts Options) bool {
	if opts.ForceMigrate {
		return true
	}

	decision, err := opts.Confirmer.Confirm("Migrate to new format?",
		"The original CSV file is kept as a backup.", false)

	switch {
	case errors.Is(err, prompt.ErrNotInteractive):
		opts.Reporter.Hintf("Run with --migrate to convert automatically")
	case err != nil:
		log.WithContext(ctx).Warn("migration prompt failed", slog.Any("error", err))
	case decision == prompt.DecisionYes:
		return true
	default:
		opts.Reporter.Detailf("Skipped - continuing with CSV format for this run")
	}

	return false
}

func loadFile(path string, mode rules.MatchMode, opts Options) *rules.Set {
	set, err := rules.LoadFile(path, mode)
	if err != nil {
		opts.Reporter.Errorf("%v", err)

		return rules.NewSet(mode)
	}

	return set
}
