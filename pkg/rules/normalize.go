package rules

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize text to aid in the matching process. In particular, we remove
// diacritics, "ö" becomes "o". Note that Mn is the unicode key for
// nonspacing marks.
func Normalize(in string) (string, error) {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	out, _, err := transform.String(t, in)
	if err != nil {
		return "", fmt.Errorf("error normalizing: %w", err)
	}

	return out, nil
}

// NormalizePattern prepares a transaction description or CSV merchant
// pattern for matching: diacritics stripped, surrounding space dropped,
// upper-cased. Inputs that cannot be normalized are used as-is.
func NormalizePattern(in string) string {
	out, err := Normalize(in)
	if err != nil {
		out = in
	}

	return strings.ToUpper(strings.TrimSpace(out))
}
