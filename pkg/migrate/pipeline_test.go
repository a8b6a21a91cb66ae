package migrate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidfowl/tally/pkg/migrate"
	"github.com/davidfowl/tally/pkg/ui/prompt"
)

// stampStep advances a directory from version `from` by writing the next
// version marker.
func stampStep(from int, name string) migrate.Step {
	return migrate.Step{
		Apply: func(_ context.Context, dir string, _ migrate.Options) (string, bool, error) {
			if err := migrate.WriteVersion(dir, from+1); err != nil {
				return dir, false, err
			}

			return dir, true, nil
		},
		Name: name,
		From: from,
	}
}

func TestPipeline_Run(t *testing.T) {
	t.Parallel()

	t.Run("already at target", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, migrate.WriteVersion(dir, 1))

		called := false
		step := migrate.Step{
			Apply: func(_ context.Context, dir string, _ migrate.Options) (string, bool, error) {
				called = true

				return dir, true, nil
			},
			Name: "layout",
			From: 0,
		}

		opts, _ := testOptions(dir, prompt.NewStatic())

		got, err := migrate.NewPipelineWithSteps(1, step).Run(t.Context(), dir, opts)
		require.NoError(t, err)
		assert.Equal(t, dir, got)
		assert.False(t, called)
	})

	t.Run("applies steps in version order", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		opts, _ := testOptions(dir, prompt.NewStatic())

		p := migrate.NewPipelineWithSteps(2, stampStep(1, "second"), stampStep(0, "first"))

		got, err := p.Run(t.Context(), dir, opts)
		require.NoError(t, err)
		assert.Equal(t, dir, got)
		assert.Equal(t, 2, migrate.Version(dir))
	})

	t.Run("stops when no step is registered for the version", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		opts, _ := testOptions(dir, prompt.NewStatic())

		p := migrate.NewPipelineWithSteps(2, stampStep(1, "second"))

		got, err := p.Run(t.Context(), dir, opts)
		require.NoError(t, err)
		assert.Equal(t, dir, got)
		assert.Equal(t, 0, migrate.Version(dir))
	})

	t.Run("decline stops the pipeline", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		opts, _ := testOptions(dir, prompt.NewStatic())

		declined := migrate.Step{
			Apply: func(_ context.Context, dir string, _ migrate.Options) (string, bool, error) {
				return dir, false, nil
			},
			Name: "declined",
			From: 0,
		}

		got, err := migrate.NewPipelineWithSteps(2, declined, stampStep(1, "second")).Run(t.Context(), dir, opts)
		require.NoError(t, err)
		assert.Equal(t, dir, got)
		assert.Equal(t, 0, migrate.Version(dir))
	})

	t.Run("failure wraps the step name", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		opts, _ := testOptions(dir, prompt.NewStatic())

		errBoom := errors.New("boom")
		failing := migrate.Step{
			Apply: func(_ context.Context, dir string, _ migrate.Options) (string, bool, error) {
				return dir, false, errBoom
			},
			Name: "exploding",
			From: 0,
		}

		got, err := migrate.NewPipelineWithSteps(1, failing).Run(t.Context(), dir, opts)
		require.ErrorIs(t, err, errBoom)
		assert.ErrorContains(t, err, `migration "exploding"`)
		assert.Equal(t, dir, got)
	})

	t.Run("failure keeps the step's relocated directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		moved := dir + "-moved"
		opts, _ := testOptions(dir, prompt.NewStatic())

		errBoom := errors.New("boom")
		partial := migrate.Step{
			Apply: func(_ context.Context, _ string, _ migrate.Options) (string, bool, error) {
				return moved, false, errBoom
			},
			Name: "partial",
			From: 0,
		}

		got, err := migrate.NewPipelineWithSteps(1, partial).Run(t.Context(), dir, opts)
		require.ErrorIs(t, err, errBoom)
		assert.Equal(t, moved, got)
	})

	t.Run("step that does not advance the version errors", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		opts, _ := testOptions(dir, prompt.NewStatic())

		stuck := migrate.Step{
			Apply: func(_ context.Context, dir string, _ migrate.Options) (string, bool, error) {
				return dir, true, nil
			},
			Name: "stuck",
			From: 0,
		}

		_, err := migrate.NewPipelineWithSteps(1, stuck).Run(t.Context(), dir, opts)
		require.ErrorIs(t, err, migrate.ErrNoProgress)
	})
}
