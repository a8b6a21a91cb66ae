// Package prompt provides the confirmation capability the migration engine
// uses before mutating the filesystem.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/davidfowl/tally/pkg/ui/theme"
)

// Decision represents the user's answer to a confirmation prompt.
type Decision int

const (
	// DecisionNo means the user declined.
	DecisionNo Decision = iota
	// DecisionYes means the user approved.
	DecisionYes
	// DecisionNoInput means no answer could be collected: stdin is not a
	// terminal, or input ended, or the user interrupted. Callers must treat
	// it as a decline, never as a failure of the run.
	DecisionNoInput
)

// ErrNotInteractive is returned when a prompt is needed but the terminal is
// not interactive. The caller should decline the prompted action.
var ErrNotInteractive = errors.New("terminal is not interactive")

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	// Confirm prompts with a title and description; def is the answer
	// chosen when the user just presses enter.
	// Returns [Decision] and any error (including [ErrNotInteractive]).
	Confirm(title, description string, def bool) (Decision, error)
}

// HuhConfirmer prompts on the terminal.
type HuhConfirmer struct {
	t *theme.Theme
}

func NewHuhConfirmer(t *theme.Theme) *HuhConfirmer {
	return &HuhConfirmer{t: t}
}

func (c *HuhConfirmer) Confirm(title, description string, def bool) (Decision, error) {
	ctx := context.Background()

	// Check if we're running interactively.
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return DecisionNoInput, ErrNotInteractive
	}

	confirmed := def

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		),
	).
		WithShowHelp(false).
		WithTheme(theme.HuhTheme(c.t))

	err := form.RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		// End of input or interrupt declines without failing the run.
		return DecisionNoInput, nil
	}
	if err != nil {
		return DecisionNoInput, fmt.Errorf("run confirm prompt: %w", err)
	}

	if confirmed {
		return DecisionYes, nil
	}

	return DecisionNo, nil
}

// Static answers prompts from a scripted list of decisions, for tests and
// non-interactive callers. Once the script is exhausted, every prompt
// answers [DecisionNoInput].
type Static struct {
	script []Decision
	Asked  []string
}

func NewStatic(script ...Decision) *Static {
	return &Static{script: script}
}

func (s *Static) Confirm(title, _ string, _ bool) (Decision, error) {
	s.Asked = append(s.Asked, title)

	if len(s.script) == 0 {
		return DecisionNoInput, nil
	}

	d := s.script[0]
	s.script = s.script[1:]

	return d, nil
}
