package preview

import (
	"strings"

	"github.com/aymanbagabas/go-udiff"

	"github.com/davidfowl/tally/pkg/ui/theme"
)

// Unified renders a unified diff between two versions of a file, with
// inserted and deleted lines styled by the theme. Returns the empty string
// when the contents are identical.
func Unified(t *theme.Theme, oldLabel, newLabel, before, after string) string {
	d := udiff.Unified(oldLabel, newLabel, before, after)
	if d == "" {
		return ""
	}

	lines := strings.Split(d, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			lines[i] = t.TitleStyle.Render(line)

		case strings.HasPrefix(line, "@@"):
			lines[i] = t.SubtleStyle.Render(line)

		case strings.HasPrefix(line, "+"):
			lines[i] = t.InsertedStyle.Render(line)

		case strings.HasPrefix(line, "-"):
			lines[i] = t.DeletedStyle.Render(line)
		}
	}

	return strings.Join(lines, "\n")
}
