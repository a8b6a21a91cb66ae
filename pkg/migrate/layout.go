package migrate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	xstrings "github.com/charmbracelet/x/exp/strings"
	"github.com/dustin/go-humanize"

	"github.com/davidfowl/tally/pkg/log"
	"github.com/davidfowl/tally/pkg/settings"
	"github.com/davidfowl/tally/pkg/ui/prompt"
)

// LayoutStep moves a legacy ./config directory, along with its data and
// output siblings, under a single ./tally/ namespace directory.
var LayoutStep = Step{
	Apply: applyLayout,
	Name:  "layout",
	From:  0,
}

// dataDirNames are the sibling directories that move together with the
// configuration directory.
var dataDirNames = []string{"data", "output"}

func applyLayout(ctx context.Context, dir string, opts Options) (string, bool, error) {
	// Only the conventional ./config directory directly under the working
	// directory migrates. Anything else, explicitly configured paths
	// included, is left alone.
	if filepath.Base(dir) != settings.ConfigDirName || opts.WorkDir == "" || !isDir(dir) {
		return dir, false, nil
	}

	parent := filepath.Dir(dir)

	newRoot := filepath.Join(opts.WorkDir, settings.Namespace)
	if parent == newRoot {
		return repairLayout(ctx, dir, opts)
	}

	if parent != opts.WorkDir {
		return dir, false, nil
	}

	if !confirm(ctx, opts, "Migrate to the new layout?", layoutDescription(dir, opts.WorkDir), true) {
		return dir, false, nil
	}

	if err := os.MkdirAll(newRoot, 0o755); err != nil {
		return dir, false, fmt.Errorf("create %q: %w", newRoot, err)
	}

	newDir := filepath.Join(newRoot, settings.ConfigDirName)

	opts.Reporter.Detailf("Moving %s/ -> %s/", settings.ConfigDirName,
		filepath.ToSlash(filepath.Join(settings.Namespace, settings.ConfigDirName)))

	if err := os.Rename(dir, newDir); err != nil {
		return dir, false, fmt.Errorf("move configuration directory: %w", err)
	}

	if err := moveDataDirs(opts); err != nil {
		// The configuration directory has already moved. Report its real
		// location so the caller keeps a usable path, and leave the marker
		// unwritten so the next run offers to finish.
		return newDir, false, err
	}

	if err := WriteVersion(newDir, 1); err != nil {
		return newDir, false, err
	}

	opts.Reporter.Successf("Migrated to ./%s/", settings.Namespace)

	return newDir, true, nil
}

// repairLayout finishes an interrupted layout migration: the configuration
// directory already sits inside the namespace but carries no version
// marker, and data or output directories may still be at the project root.
func repairLayout(ctx context.Context, dir string, opts Options) (string, bool, error) {
	var leftovers []string

	for _, name := range dataDirNames {
		if isDir(filepath.Join(opts.WorkDir, name)) {
			leftovers = append(leftovers, name)
		}
	}

	description := fmt.Sprintf("A previous migration moved the configuration to ./%s/ but did not finish.",
		filepath.ToSlash(filepath.Join(settings.Namespace, settings.ConfigDirName)))
	if len(leftovers) > 0 {
		description += fmt.Sprintf("\n\nStill at the project root: %s.", xstrings.EnglishJoin(leftovers, true))
	}

	if !confirm(ctx, opts, "Finish the layout migration?", description, true) {
		return dir, false, nil
	}

	if err := moveDataDirs(opts); err != nil {
		return dir, false, err
	}

	if err := WriteVersion(dir, 1); err != nil {
		return dir, false, err
	}

	opts.Reporter.Successf("Migrated to ./%s/", settings.Namespace)

	return dir, true, nil
}

func moveDataDirs(opts Options) error {
	for _, name := range dataDirNames {
		oldPath := filepath.Join(opts.WorkDir, name)
		if !isDir(oldPath) {
			continue
		}

		opts.Reporter.Detailf("Moving %s/ -> %s/", name,
			filepath.ToSlash(filepath.Join(settings.Namespace, name)))

		if err := os.Rename(oldPath, filepath.Join(opts.WorkDir, settings.Namespace, name)); err != nil {
			return fmt.Errorf("move %q: %w", name, err)
		}
	}

	return nil
}

// confirm resolves a yes/no decision for a migration, honoring --yes and
// treating every non-answer as a decline.
func confirm(ctx context.Context, opts Options, title, description string, def bool) bool {
	if opts.Yes {
		return true
	}

	decision, err := opts.Confirmer.Confirm(title, description, def)
	if err != nil {
		if errors.Is(err, prompt.ErrNotInteractive) {
			log.WithContext(ctx).Debug("skipping migration prompt", slog.String("reason", "not interactive"))
		} else {
			log.WithContext(ctx).Warn("migration prompt failed", slog.Any("error", err))
		}

		return false
	}

	return decision == prompt.DecisionYes
}

func layoutDescription(dir, workDir string) string {
	summaries := []string{dirSummary(dir)}

	for _, name := range dataDirNames {
		if path := filepath.Join(workDir, name); isDir(path) {
			summaries = append(summaries, dirSummary(path))
		}
	}

	return fmt.Sprintf("Current: ./%s (legacy layout)\nNew:     ./%s\n\nMoves %s into ./%s/.",
		settings.ConfigDirName,
		filepath.ToSlash(filepath.Join(settings.Namespace, settings.ConfigDirName)),
		xstrings.EnglishJoin(summaries, true),
		settings.Namespace,
	)
}

// dirSummary names a directory together with its humanized total size.
func dirSummary(path string) string {
	name := filepath.Base(path)

	var total uint64

	err := filepath.WalkDir(path, func(_ string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return err
		}

		info, err := entry.Info()
		if err == nil {
			total += uint64(max(0, info.Size())) //nolint:gosec // Uses max.
		}

		return nil
	})
	if err != nil {
		return name
	}

	return fmt.Sprintf("%s (%s)", name, humanize.Bytes(total))
}
