package migrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/davidfowl/tally/pkg/log"
)

var tracer = otel.Tracer("migrate")

// ErrNoProgress means a step reported success without advancing the schema
// version, which would loop forever if allowed.
var ErrNoProgress = errors.New("migration did not advance the schema version")

// Step is a single migration, keyed by the schema version it upgrades from.
type Step struct {
	// Apply migrates the configuration rooted at dir. It returns the
	// directory where the configuration lives afterwards, whether the step
	// fully applied, and any I/O failure. A decline is (dir, false, nil),
	// never an error.
	Apply func(ctx context.Context, dir string, opts Options) (string, bool, error)

	// Name identifies the step in traces and error messages.
	Name string

	// From is the schema version this step upgrades from.
	From int
}

// Pipeline applies pending migration steps in ascending version order.
type Pipeline struct {
	steps  map[int]Step
	target int
}

// NewPipeline builds the pipeline that migrates configuration directories to
// TargetVersion.
func NewPipeline() *Pipeline {
	return NewPipelineWithSteps(TargetVersion, LayoutStep)
}

// NewPipelineWithSteps builds a pipeline over an explicit step set.
func NewPipelineWithSteps(target int, steps ...Step) *Pipeline {
	byVersion := make(map[int]Step, len(steps))
	for _, step := range steps {
		byVersion[step.From] = step
	}

	return &Pipeline{
		steps:  byVersion,
		target: target,
	}
}

// Run applies steps until dir reaches the target version or a step declines.
// The returned directory is where the configuration lives now and is valid
// in every case, including failure; callers must re-resolve any paths they
// derived from the old location.
func (p *Pipeline) Run(ctx context.Context, dir string, opts Options) (string, error) {
	opts = opts.withDefaults()

	for {
		current := Version(dir)
		if current >= p.target {
			return dir, nil
		}

		step, ok := p.steps[current]
		if !ok {
			log.WithContext(ctx).Debug("no migration step registered",
				slog.Int("version", current),
				slog.Int("target", p.target),
			)

			return dir, nil
		}

		newDir, applied, err := p.runStep(ctx, step, dir, opts)
		if err != nil {
			// The step reports where the configuration lives after a
			// partial failure, so the caller keeps a usable location.
			return newDir, fmt.Errorf("migration %q: %w", step.Name, err)
		}

		if !applied {
			// Declined or not applicable. Later steps must not run past a
			// skipped version.
			return dir, nil
		}

		if Version(newDir) <= current {
			return newDir, fmt.Errorf("migration %q: %w", step.Name, ErrNoProgress)
		}

		dir = newDir
	}
}

func (p *Pipeline) runStep(ctx context.Context, step Step, dir string, opts Options) (string, bool, error) {
	ctx, span := tracer.Start(ctx, "migrate.step", trace.WithAttributes(
		attribute.String("step", step.Name),
		attribute.Int("from", step.From),
		attribute.String("dir", dir),
	))
	defer span.End()

	return step.Apply(ctx, dir, opts)
}
