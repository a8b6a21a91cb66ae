package rules

import (
	"errors"
	"fmt"
)

// MatchMode selects which matching rule wins when several match.
type MatchMode string

const (
	// MatchFirst stops at the first matching rule, in file order.
	MatchFirst MatchMode = "first_match"
	// MatchLast keeps evaluating so the last matching rule wins, for
	// cascade-style files that refine earlier matches.
	MatchLast MatchMode = "last_match"
)

var (
	ErrUnknownMatchMode = errors.New("unknown rule mode")

	AllMatchModes = []string{
		string(MatchFirst),
		string(MatchLast),
	}
)

// GetMatchMode parses a rule_mode value. The empty string is the default,
// [MatchFirst].
func GetMatchMode(mode string) (MatchMode, error) {
	switch MatchMode(mode) {
	case "", MatchFirst:
		return MatchFirst, nil
	case MatchLast:
		return MatchLast, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownMatchMode, mode)
}

// Set is an ordered sequence of rules. Order matters: a rule's priority is
// its position in the source file.
type Set struct {
	// Source is the file the set was loaded from; empty for the built-in
	// default set.
	Source string
	Format Format
	Mode   MatchMode
	Rules  []*Rule
}

// NewSet returns an empty set with the given match mode.
func NewSet(mode MatchMode) *Set {
	if mode == "" {
		mode = MatchFirst
	}

	return &Set{
		Mode:   mode,
		Format: FormatNone,
	}
}

func (s *Set) Len() int {
	return len(s.Rules)
}

// Categorize returns the category for a transaction, and whether any rule
// matched. Unmatched transactions categorize as [Unknown].
func (s *Set) Categorize(tx Transaction) (string, bool) {
	category := Unknown
	matched := false

	for _, r := range s.Rules {
		if !r.MatchTransaction(tx) {
			continue
		}

		category = r.Category
		matched = true

		if s.Mode != MatchLast {
			// First match wins.
			break
		}
	}

	return category, matched
}
