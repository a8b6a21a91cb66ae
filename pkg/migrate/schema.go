// Package migrate moves tally configuration directories and rule files
// forward through on-disk schema versions.
//
// Every migration is best-effort by contract: a decline or failure leaves
// the previous state usable, and nothing in this package may abort the run
// that triggered it. Callers re-resolve paths from the returned directory.
package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// TargetVersion is the schema version this build migrates to.
	TargetVersion = 1

	// markerFile records the schema version of a configuration directory.
	markerFile = ".tally-schema"
)

// Version reads the schema version of a configuration directory. A missing,
// unreadable, or non-numeric marker means version 0, the legacy layout.
// It never fails.
func Version(dir string) int {
	data, err := os.ReadFile(filepath.Join(dir, markerFile)) //nolint:gosec // Reads a version marker.
	if err != nil {
		return 0
	}

	v, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || v < 0 {
		return 0
	}

	return v
}

// WriteVersion stamps the schema version of a configuration directory. Call
// it only after all data movement for that version is durably complete, so
// an interrupted migration re-reads as the old version and is re-attempted.
func WriteVersion(dir string, version int) error {
	path := filepath.Join(dir, markerFile)

	if err := atomicWrite(path, []byte(fmt.Sprintf("%d\n", version)), 0o600); err != nil {
		return fmt.Errorf("write schema marker: %w", err)
	}

	return nil
}
