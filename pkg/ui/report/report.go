package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"github.com/davidfowl/tally/pkg/ui/theme"
)

const noticeWidth = 72

// Reporter writes user-facing migration and rule output. It is distinct from
// slog, which carries diagnostics. Quiet mode drops informational lines but
// never successes or errors.
type Reporter struct {
	w     io.Writer
	t     *theme.Theme
	quiet bool
}

type Opt func(r *Reporter)

// WithTheme sets the theme used to style output.
func WithTheme(t *theme.Theme) Opt {
	return func(r *Reporter) {
		r.t = t
	}
}

// WithQuiet suppresses informational output (info, hints, warnings).
func WithQuiet(quiet bool) Opt {
	return func(r *Reporter) {
		r.quiet = quiet
	}
}

func NewReporter(w io.Writer, opts ...Opt) *Reporter {
	r := &Reporter{
		w: w,
		t: theme.Default,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Quiet reports whether informational output is suppressed.
func (r *Reporter) Quiet() bool {
	return r.quiet
}

// Successf reports a completed state change. Not subject to quiet mode, so
// runs that mutate the working tree always say so.
func (r *Reporter) Successf(format string, a ...any) {
	r.println(r.t.SuccessStyle.Render("✓") + " " + fmt.Sprintf(format, a...))
}

// Errorf reports a failure. Not subject to quiet mode.
func (r *Reporter) Errorf(format string, a ...any) {
	r.println(r.t.ErrorTextStyle.Render("✗ " + fmt.Sprintf(format, a...)))
}

// Infof reports neutral progress. Suppressed in quiet mode.
func (r *Reporter) Infof(format string, a ...any) {
	if r.quiet {
		return
	}

	r.println(fmt.Sprintf(format, a...))
}

// Warnf reports a non-fatal problem. Suppressed in quiet mode.
func (r *Reporter) Warnf(format string, a ...any) {
	if r.quiet {
		return
	}

	r.println(r.t.WarningStyle.Render("Warning: ") + fmt.Sprintf(format, a...))
}

// Hintf reports a suggestion, e.g. a flag the user could pass. Suppressed in
// quiet mode.
func (r *Reporter) Hintf(format string, a ...any) {
	if r.quiet {
		return
	}

	r.println(r.t.SubtleStyle.Render("Tip: " + fmt.Sprintf(format, a...)))
}

// Detailf reports an indented detail line under a preceding message.
// Suppressed in quiet mode.
func (r *Reporter) Detailf(format string, a ...any) {
	if r.quiet {
		return
	}

	r.println(indent.String(r.t.SubtleStyle.Render(fmt.Sprintf(format, a...)), 2))
}

// Notice renders a bordered, word-wrapped block. Used for upgrade banners.
// Suppressed in quiet mode.
func (r *Reporter) Notice(title string, lines ...string) {
	if r.quiet {
		return
	}

	body := r.t.TitleStyle.Render(title)
	if len(lines) > 0 {
		body += "\n\n" + wordwrap.String(strings.Join(lines, "\n"), noticeWidth)
	}

	r.println(r.t.NoticeStyle.Render(body))
}

func (r *Reporter) println(s string) {
	_, err := fmt.Fprintln(r.w, s)
	if err != nil {
		panic(err)
	}
}
