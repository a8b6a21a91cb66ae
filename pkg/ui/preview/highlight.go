// Package preview renders syntax-highlighted file content and unified
// diffs, used by dry-run migration output.
package preview

import (
	"bytes"
	"fmt"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/muesli/termenv"

	"github.com/davidfowl/tally/pkg/ui/theme"
)

// Highlighter renders YAML content with chroma styling.
type Highlighter struct {
	lexer     chroma.Lexer
	formatter chroma.Formatter
	style     *chroma.Style
}

// NewHighlighter creates a new [Highlighter] with a formatter matched to
// the terminal's color profile.
func NewHighlighter(t *theme.Theme) *Highlighter {
	lexer := lexers.Get("YAML")
	lexer = chroma.Coalesce(lexer)

	formatterName := "noop" // Default to noop formatter.
	switch termenv.ColorProfile() {
	case termenv.TrueColor:
		formatterName = "terminal16m"

	case termenv.ANSI256:
		formatterName = "terminal256"

	case termenv.ANSI:
		formatterName = "terminal8"
	}

	return &Highlighter{
		lexer:     lexer,
		formatter: formatters.Get(formatterName),
		style:     t.ChromaStyle,
	}
}

// Render returns content with syntax highlighting applied.
func (h *Highlighter) Render(content string) (string, error) {
	iterator, err := h.lexer.Tokenise(nil, content)
	if err != nil {
		return "", fmt.Errorf("lexer tokenize: %w", err)
	}

	buf := &bytes.Buffer{}

	err = h.formatter.Format(buf, h.style, iterator)
	if err != nil {
		return "", fmt.Errorf("format: %w", err)
	}

	return buf.String(), nil
}

// SetFormatter sets the chroma formatter explicitly.
// This is primarily useful for testing.
func (h *Highlighter) SetFormatter(name string) {
	h.formatter = formatters.Get(name)
}
