package rules

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies the on-disk rule file format.
type Format string

const (
	// FormatNone means no rule file was found.
	FormatNone Format = "none"
	// FormatCSV is the legacy tabular format.
	FormatCSV Format = "csv"
	// FormatRules is the expression-based format.
	FormatRules Format = "rules"
)

const (
	// FileName is the expression rule file name inside a configuration
	// directory.
	FileName = "merchants.rules"
	// LegacyFileName is the legacy CSV rule file name.
	LegacyFileName = "merchant_categories.csv"
)

// DetectFormat reports the rule format of the file at path, sniffing the
// content when the extension is ambiguous. Missing files and directories
// are [FormatNone].
func DetectFormat(path string) Format {
	if path == "" {
		return FormatNone
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return FormatNone
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".rules":
		return FormatRules
	}

	return sniffFormat(path)
}

// sniffFormat classifies a rule file by its first line of content.
func sniffFormat(path string) Format {
	file, err := os.Open(path) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return FormatNone
	}
	defer file.Close() //nolint:errcheck // Ignore errors.

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch {
		case strings.HasPrefix(line, "rules:"),
			strings.HasPrefix(line, "rule_mode:"),
			strings.HasPrefix(line, "- "):
			return FormatRules

		case strings.Contains(line, ","):
			return FormatCSV
		}

		return FormatNone
	}

	return FormatNone
}

// Load retrieves rules for the categorization pipeline. An empty path
// returns the built-in default (empty) set; CSV paths load with match
// expressions synthesized in memory; anything else parses as an
// expression rules file.
func Load(path string, mode MatchMode) (*Set, error) {
	if path == "" {
		return NewSet(mode), nil
	}

	if DetectFormat(path) == FormatCSV {
		return LoadCSV(path, mode)
	}

	return LoadFile(path, mode)
}
