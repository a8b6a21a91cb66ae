package settings

import (
	"os"
	"path/filepath"
)

const (
	// Namespace is the directory that groups all tally state under the
	// working directory.
	Namespace = "tally"
	// ConfigDirName is the configuration directory name, the same in the
	// legacy and namespaced layouts.
	ConfigDirName = "config"
)

// Dir resolves the configuration directory for a run rooted at cwd. An
// explicit directory always wins. Otherwise the namespaced layout
// (tally/config) is preferred, then the legacy layout (config), then the
// namespaced path as the default for fresh setups. Dir never creates
// directories.
func Dir(cwd, explicit string) string {
	if explicit != "" {
		if filepath.IsAbs(explicit) {
			return filepath.Clean(explicit)
		}

		return filepath.Join(cwd, explicit)
	}

	namespaced := filepath.Join(cwd, Namespace, ConfigDirName)
	if isDir(namespaced) {
		return namespaced
	}

	legacy := filepath.Join(cwd, ConfigDirName)
	if isDir(legacy) {
		return legacy
	}

	return namespaced
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
