package migrate_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidfowl/tally/pkg/migrate"
	"github.com/davidfowl/tally/pkg/ui/prompt"
)

// recordingConfirmer captures the prompt it was shown.
type recordingConfirmer struct {
	title       string
	description string
	decision    prompt.Decision
}

func (r *recordingConfirmer) Confirm(title, description string, _ bool) (prompt.Decision, error) {
	r.title = title
	r.description = description

	return r.decision, nil
}

func TestLayoutStep_DeclinesOutsideConvention(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		cfgDir func(workDir string) string
	}{
		"directory not named config": {
			cfgDir: func(workDir string) string {
				dir := filepath.Join(workDir, "settings")
				require.NoError(t, os.MkdirAll(dir, 0o755))

				return dir
			},
		},
		"config not at the project root": {
			cfgDir: func(workDir string) string {
				dir := filepath.Join(workDir, "nested", "config")
				require.NoError(t, os.MkdirAll(dir, 0o755))

				return dir
			},
		},
		"config is a plain file": {
			cfgDir: func(workDir string) string {
				path := filepath.Join(workDir, "config")
				require.NoError(t, os.WriteFile(path, []byte("not a directory"), 0o600))

				return path
			},
		},
		"config does not exist": {
			cfgDir: func(workDir string) string {
				return filepath.Join(workDir, "config")
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			workDir := t.TempDir()
			cfgDir := tc.cfgDir(workDir)

			static := prompt.NewStatic(prompt.DecisionYes)
			opts, out := testOptions(workDir, static)

			got, err := migrate.NewPipeline().Run(t.Context(), cfgDir, opts)
			require.NoError(t, err)

			assert.Equal(t, cfgDir, got)
			assert.Equal(t, 0, migrate.Version(cfgDir))
			assert.NoDirExists(t, filepath.Join(workDir, "tally"))
			assert.Empty(t, static.Asked, "preconditions must decline before prompting")
			assert.Empty(t, out.String())
		})
	}
}

func TestLayoutStep_DeclinedByUser(t *testing.T) {
	t.Parallel()

	workDir, cfgDir := legacyWorkspace(t)

	static := prompt.NewStatic(prompt.DecisionNo)
	opts, out := testOptions(workDir, static)

	got, err := migrate.NewPipeline().Run(t.Context(), cfgDir, opts)
	require.NoError(t, err)

	assert.Equal(t, cfgDir, got)
	assert.Equal(t, 0, migrate.Version(cfgDir))
	assert.DirExists(t, cfgDir)
	assert.DirExists(t, filepath.Join(workDir, "data"))
	assert.NoDirExists(t, filepath.Join(workDir, "tally"))
	assert.Equal(t, []string{"Migrate to the new layout?"}, static.Asked)
	assert.Empty(t, out.String())
}

func TestLayoutStep_YesFlagSkipsPrompt(t *testing.T) {
	t.Parallel()

	workDir, cfgDir := legacyWorkspace(t)

	static := prompt.NewStatic()
	opts, _ := testOptions(workDir, static)
	opts.Yes = true

	got, err := migrate.NewPipeline().Run(t.Context(), cfgDir, opts)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(workDir, "tally", "config"), got)
	assert.Equal(t, 1, migrate.Version(got))
	assert.Empty(t, static.Asked)
}

func TestLayoutStep_PromptDescribesTheMove(t *testing.T) {
	t.Parallel()

	workDir, cfgDir := legacyWorkspace(t)

	rec := &recordingConfirmer{decision: prompt.DecisionNo}
	opts, _ := testOptions(workDir, rec)

	_, err := migrate.NewPipeline().Run(t.Context(), cfgDir, opts)
	require.NoError(t, err)

	assert.Equal(t, "Migrate to the new layout?", rec.title)
	assert.Contains(t, rec.description, "Current: ./config (legacy layout)")
	assert.Contains(t, rec.description, "New:     ./tally/config")
	assert.Contains(t, rec.description, "Moves config (")
	assert.Contains(t, rec.description, ", and output (")
}

func TestLayoutStep_MovesOnlyExistingSiblings(t *testing.T) {
	t.Parallel()

	workDir := t.TempDir()
	cfgDir := filepath.Join(workDir, "config")
	writeFile(t, filepath.Join(cfgDir, "settings.yaml"), "rule_mode: first_match\n")

	opts, _ := testOptions(workDir, prompt.NewStatic(prompt.DecisionYes))

	got, err := migrate.NewPipeline().Run(t.Context(), cfgDir, opts)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(workDir, "tally", "config"), got)
	assert.Equal(t, 1, migrate.Version(got))
	assert.NoDirExists(t, filepath.Join(workDir, "tally", "data"))
	assert.NoDirExists(t, filepath.Join(workDir, "tally", "output"))
}

func TestLayoutStep_RepairsInterruptedMigration(t *testing.T) {
	t.Parallel()

	// A previous run moved ./config but stopped before the marker was
	// written, leaving data and output behind.
	workDir := t.TempDir()
	cfgDir := filepath.Join(workDir, "tally", "config")
	writeFile(t, filepath.Join(cfgDir, "settings.yaml"), "rule_mode: first_match\n")
	writeFile(t, filepath.Join(workDir, "data", "2025-01.csv"), "some,transactions\n")

	rec := &recordingConfirmer{decision: prompt.DecisionYes}
	opts, out := testOptions(workDir, rec)

	got, err := migrate.NewPipeline().Run(t.Context(), cfgDir, opts)
	require.NoError(t, err)

	assert.Equal(t, cfgDir, got)
	assert.Equal(t, 1, migrate.Version(cfgDir))
	assert.FileExists(t, filepath.Join(workDir, "tally", "data", "2025-01.csv"))
	assert.NoDirExists(t, filepath.Join(workDir, "data"))

	assert.Equal(t, "Finish the layout migration?", rec.title)
	assert.Contains(t, rec.description, "did not finish")
	assert.Contains(t, rec.description, "data")
	assert.Contains(t, out.String(), "Migrated to ./tally/")
}

func TestLayoutStep_RepairDeclined(t *testing.T) {
	t.Parallel()

	workDir := t.TempDir()
	cfgDir := filepath.Join(workDir, "tally", "config")
	writeFile(t, filepath.Join(cfgDir, "settings.yaml"), "rule_mode: first_match\n")
	writeFile(t, filepath.Join(workDir, "data", "2025-01.csv"), "some,transactions\n")

	opts, _ := testOptions(workDir, prompt.NewStatic(prompt.DecisionNo))

	got, err := migrate.NewPipeline().Run(t.Context(), cfgDir, opts)
	require.NoError(t, err)

	assert.Equal(t, cfgDir, got)
	assert.Equal(t, 0, migrate.Version(cfgDir))
	assert.DirExists(t, filepath.Join(workDir, "data"))
}
