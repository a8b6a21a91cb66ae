package rules

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	_ "embed"

	"github.com/davidfowl/tally/pkg/yaml"
)

//go:generate go run ../../internal/schemagen/rules -o rules.v1.json

var (
	//go:embed rules.v1.json
	schemaJSON []byte

	DefaultValidator = yaml.MustNewValidator("/rules.v1.json", schemaJSON)
)

// ErrInvalidRules marks a rule file that exists but cannot be used, as
// opposed to an I/O failure reading it.
var ErrInvalidRules = errors.New("invalid rules")

// File is the document structure of an expression rules file.
type File struct {
	// RuleMode selects the match strategy.
	RuleMode string `json:"rule_mode,omitempty" jsonschema:"title=Rule Mode,enum=first_match,enum=last_match"`
	// Rules are evaluated in file order.
	Rules []*Rule `json:"rules" jsonschema:"title=Rules"`
}

// LoadFile parses, validates, and compiles an expression rules file.
//
// A `rule_mode` set in the file overrides the mode given by the caller.
// Schema violations and CEL compile errors are returned as
// [ErrInvalidRules] with the offending location annotated from the source.
func LoadFile(path string, mode MatchMode) (*Set, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return nil, fmt.Errorf("read rule file: %w", err)
	}

	set, err := parseFile(data, mode)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", path, err)
	}

	set.Source = path

	return set, nil
}

// parseFile decodes and validates rule file content into a compiled set.
func parseFile(data []byte, mode MatchMode) (*Set, error) {
	yamlError := yaml.NewErrorWrapper(yaml.WithSource(data))

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrInvalidRules)
	}

	// Decode into interface{} for initial validation.
	var anyFile any

	dec := yaml.NewDecoder(bytes.NewReader(data))
	err := dec.Decode(&anyFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRules, yamlError.Wrap(err))
	}

	err = DefaultValidator.Validate(anyFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRules, yamlError.Wrap(err))
	}

	f := &File{}

	dec = yaml.NewDecoder(bytes.NewReader(data))
	err = dec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRules, yamlError.Wrap(err))
	}

	if f.RuleMode != "" {
		mode, err = GetMatchMode(f.RuleMode)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRules, err)
		}
	}

	set := NewSet(mode)
	set.Format = FormatRules
	set.Rules = f.Rules

	for _, rule := range set.Rules {
		err := rule.CompileMatch()
		if err != nil {
			return nil, fmt.Errorf("%w: rule %q: %w", ErrInvalidRules, rule.Match, err)
		}
	}

	return set, nil
}
