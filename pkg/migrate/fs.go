package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// atomicWrite writes data to path via a temporary file and rename, so
// readers never observe a partially written file.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("write %q: %w", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)

		return fmt.Errorf("rename %q: %w", tmp, err)
	}

	return nil
}

// isDir reports whether path exists and is a directory.
func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

// displayPath renders path relative to the working directory, with forward
// slashes, the way users write paths in their settings.
func displayPath(path, workDir string) string {
	if workDir == "" {
		return filepath.ToSlash(path)
	}

	rel, err := filepath.Rel(workDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}

	return filepath.ToSlash(rel)
}
