package migrate

import (
	"os"

	"github.com/davidfowl/tally/pkg/ui/prompt"
	"github.com/davidfowl/tally/pkg/ui/report"
	"github.com/davidfowl/tally/pkg/ui/theme"
)

// Options carries the capabilities and flags shared by every migration.
// The zero value is usable; missing fields are filled with interactive
// defaults when a migration runs.
type Options struct {
	// Confirmer asks the user for consent before anything moves.
	Confirmer prompt.Confirmer

	// Reporter renders user-facing progress.
	Reporter *report.Reporter

	// WorkDir is the directory migrations treat as the project root.
	// Defaults to the process working directory.
	WorkDir string

	// Yes accepts every confirmation prompt without asking.
	Yes bool

	// ForceMigrate converts legacy rule files without prompting.
	ForceMigrate bool

	// Backup renames a converted legacy file to .bak after a successful
	// conversion.
	Backup bool
}

func (o Options) withDefaults() Options {
	if o.Confirmer == nil {
		o.Confirmer = prompt.NewHuhConfirmer(theme.Default)
	}

	if o.Reporter == nil {
		o.Reporter = report.NewReporter(os.Stdout)
	}

	if o.WorkDir == "" {
		// An empty WorkDir on failure makes location preconditions decline.
		o.WorkDir, _ = os.Getwd()
	}

	return o
}
