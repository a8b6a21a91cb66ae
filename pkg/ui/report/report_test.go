package report_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/davidfowl/tally/pkg/ui/report"
)

func TestReporter(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		emit        func(r *report.Reporter)
		want        []string
		wantAbsent  []string
		quiet       bool
		wantNothing bool
	}{
		"success": {
			emit: func(r *report.Reporter) {
				r.Successf("converted %d rules", 3)
			},
			want: []string{"converted 3 rules"},
		},
		"success survives quiet": {
			quiet: true,
			emit: func(r *report.Reporter) {
				r.Successf("moved config/ to tally/config/")
			},
			want: []string{"moved config/ to tally/config/"},
		},
		"error survives quiet": {
			quiet: true,
			emit: func(r *report.Reporter) {
				r.Errorf("could not back up %s", "merchant_categories.csv")
			},
			want: []string{"could not back up merchant_categories.csv"},
		},
		"warning": {
			emit: func(r *report.Reporter) {
				r.Warnf("no rules loaded")
			},
			want: []string{"Warning:", "no rules loaded"},
		},
		"warning dropped when quiet": {
			quiet: true,
			emit: func(r *report.Reporter) {
				r.Warnf("no rules loaded")
			},
			wantNothing: true,
		},
		"hint": {
			emit: func(r *report.Reporter) {
				r.Hintf("Run with --migrate to convert automatically")
			},
			want: []string{"Tip:", "--migrate"},
		},
		"hint dropped when quiet": {
			quiet: true,
			emit: func(r *report.Reporter) {
				r.Hintf("Run with --migrate to convert automatically")
			},
			wantNothing: true,
		},
		"info dropped when quiet": {
			quiet: true,
			emit: func(r *report.Reporter) {
				r.Infof("using rules from %s", "config/merchants.rules")
			},
			wantNothing: true,
		},
		"detail indented": {
			emit: func(r *report.Reporter) {
				r.Detailf("config -> tally/config")
			},
			want: []string{"  ", "config -> tally/config"},
		},
		"notice wraps title and body": {
			emit: func(r *report.Reporter) {
				r.Notice("New configuration layout available", "Run tally migrate to upgrade.")
			},
			want: []string{"New configuration layout available", "tally migrate"},
		},
		"notice dropped when quiet": {
			quiet: true,
			emit: func(r *report.Reporter) {
				r.Notice("New configuration layout available")
			},
			wantNothing: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			r := report.NewReporter(&buf, report.WithQuiet(tc.quiet))
			tc.emit(r)

			out := buf.String()
			if tc.wantNothing {
				assert.Empty(t, out)

				return
			}

			for _, want := range tc.want {
				assert.Contains(t, out, want)
			}

			for _, absent := range tc.wantAbsent {
				assert.NotContains(t, out, absent)
			}
		})
	}
}

func TestReporter_Quiet(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	assert.False(t, report.NewReporter(&buf).Quiet())
	assert.True(t, report.NewReporter(&buf, report.WithQuiet(true)).Quiet())
}

func TestReporter_MultilineNoticeWraps(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	long := strings.Repeat("word ", 40)
	report.NewReporter(&buf).Notice("Heads up", long)

	for line := range strings.Lines(buf.String()) {
		assert.LessOrEqual(t, lipgloss.Width(strings.TrimRight(line, "\n")), 80)
	}
}
