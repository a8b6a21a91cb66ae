package rules

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadCSV reads a legacy merchant CSV file and converts every row into an
// expression [Rule]. Each pattern becomes a `desc.contains(...)` match on
// the normalized, uppercased pattern text. The returned set carries
// [FormatCSV] so callers can tell a converted set from a native one.
func LoadCSV(path string, mode MatchMode) (*Set, error) {
	file, err := os.Open(path) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return nil, fmt.Errorf("open rule file: %w", err)
	}
	defer file.Close() //nolint:errcheck // Ignore errors.

	set, err := readCSV(file, mode)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", path, err)
	}

	set.Source = path

	return set, nil
}

// readCSV parses CSV rows from r into a converted rule set.
func readCSV(r io.Reader, mode MatchMode) (*Set, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	set := NewSet(mode)
	set.Format = FormatCSV

	for row := 1; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		if row == 1 && isHeaderRow(record) {
			continue
		}

		if len(record) != 2 {
			return nil, fmt.Errorf("row %d: expected 2 fields, got %d", row, len(record))
		}

		pattern := NormalizePattern(record[0])
		category := strings.TrimSpace(record[1])

		if pattern == "" {
			return nil, fmt.Errorf("row %d: empty merchant pattern", row)
		}
		if category == "" {
			return nil, fmt.Errorf("row %d: empty category", row)
		}

		rule, err := New(fmt.Sprintf("desc.contains(%q)", pattern), category)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		set.Rules = append(set.Rules, rule)
	}

	return set, nil
}

// isHeaderRow reports whether record looks like the conventional
// "merchant,category" header some exports carry.
func isHeaderRow(record []string) bool {
	if len(record) != 2 {
		return false
	}

	return strings.EqualFold(strings.TrimSpace(record[0]), "merchant") &&
		strings.EqualFold(strings.TrimSpace(record[1]), "category")
}
