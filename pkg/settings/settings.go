// Package settings reads and patches the tally settings file
// (settings.yaml). The migration engine only models the keys it needs;
// everything else in the file is preserved untouched.
package settings

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/davidfowl/tally/pkg/rules"
	"github.com/davidfowl/tally/pkg/yaml"
)

//go:generate go run ../../internal/schemagen/settings -o settings.v1.json

// FileName is the settings file name inside a configuration directory.
const FileName = "settings.yaml"

var (
	//go:embed settings.v1.json
	schemaJSON []byte

	DefaultValidator = yaml.MustNewValidator("/settings.v1.json", schemaJSON)
)

// Settings holds the subset of settings.yaml the migration engine reads and
// writes. Other keys are preserved and ignored.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type Settings struct {
	// MerchantsFile points at the rule file, relative to the directory that
	// contains the configuration directory.
	MerchantsFile string `json:"merchants_file,omitempty" jsonschema:"title=Merchants File"`
	// RuleMode selects the match strategy.
	RuleMode string `json:"rule_mode,omitempty" jsonschema:"title=Rule Mode,enum=first_match,enum=last_match"`
}

func New() *Settings {
	s := &Settings{}
	s.EnsureDefaults()

	return s
}

func (s *Settings) EnsureDefaults() {
	if s.RuleMode == "" {
		s.RuleMode = string(rules.MatchFirst)
	}
}

// Users keep unrelated keys in settings.yaml, so unknown properties must
// stay valid.
func (s Settings) JSONSchemaExtend(jss *jsonschema.Schema) {
	jss.AdditionalProperties = nil
}

// Path returns the settings file path for a configuration directory.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Load reads the settings file at path. It fails soft: a missing,
// unreadable, or invalid file yields the defaults with a warning, never an
// error, because migration decisions must not depend on a parseable
// settings file.
func Load(path string) *Settings {
	data, err := os.ReadFile(path) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("could not read settings, using defaults",
				slog.String("path", path),
				slog.Any("error", err),
			)
		}

		return New()
	}

	s, err := parse(data)
	if err != nil {
		slog.Warn("invalid settings, using defaults",
			slog.String("path", path),
			slog.Any("error", err),
		)

		return New()
	}

	return s
}

func parse(data []byte) (*Settings, error) {
	yamlError := yaml.NewErrorWrapper(yaml.WithSource(data))

	// Decode into interface{} for initial validation.
	var anySettings any

	dec := yaml.NewDecoder(bytes.NewReader(data))
	err := dec.Decode(&anySettings)
	if err != nil {
		return nil, yamlError.Wrap(err)
	}

	err = DefaultValidator.Validate(anySettings)
	if err != nil {
		return nil, yamlError.Wrap(err)
	}

	s := &Settings{}

	dec = yaml.NewDecoder(bytes.NewReader(data))
	err = dec.Decode(s)
	if err != nil {
		return nil, yamlError.Wrap(err)
	}

	s.EnsureDefaults()

	return s, nil
}

// FindRules locates the rule file for a configuration directory. A
// merchants_file setting wins when its target exists; otherwise the
// expression file, then the legacy CSV, are probed inside dir. Returns the
// path and detected format, or ("", FormatNone) when no rule file exists.
func FindRules(dir string, s *Settings) (string, rules.Format) {
	if s != nil && s.MerchantsFile != "" {
		path := s.MerchantsFile
		if !filepath.IsAbs(path) {
			// Relative to the directory that contains the config directory,
			// so "config/merchants.rules" resolves from the namespace root.
			path = filepath.Join(filepath.Dir(dir), path)
		}

		if format := rules.DetectFormat(path); format != rules.FormatNone {
			return path, format
		}

		slog.Debug("merchants_file does not exist, probing defaults",
			slog.String("path", path),
		)
	}

	path := filepath.Join(dir, rules.FileName)
	if format := rules.DetectFormat(path); format != rules.FormatNone {
		return path, format
	}

	path = filepath.Join(dir, rules.LegacyFileName)
	if format := rules.DetectFormat(path); format != rules.FormatNone {
		return path, format
	}

	return "", rules.FormatNone
}

// MerchantsFileEntry renders the block appended to a settings file when
// migration rewires it to a converted rules file.
func MerchantsFileEntry(value string) string {
	return "\n# Merchant rules file (migrated from CSV)\nmerchants_file: " + value + "\n"
}

// EnsureMerchantsFile appends a merchants_file entry to the settings file
// at path, unless one is already present. Existing content is never
// rewritten. Reports whether the file was modified.
func EnsureMerchantsFile(path, value string) (bool, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return false, fmt.Errorf("read settings: %w", err)
	}

	if HasMerchantsFile(data) {
		return false, nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return false, fmt.Errorf("open settings: %w", err)
	}
	defer f.Close() //nolint:errcheck // Ignore errors.

	_, err = f.WriteString(MerchantsFileEntry(value))
	if err != nil {
		return false, fmt.Errorf("append settings: %w", err)
	}

	return true, nil
}

// HasMerchantsFile reports whether the document already defines a
// merchants_file key, using a structural read with a line-scan fallback for
// files that do not parse.
func HasMerchantsFile(data []byte) bool {
	var value string

	path := yaml.NewPathBuilder().Root().Child("merchants_file").Build()

	err := path.Read(bytes.NewReader(data), &value)
	if err == nil {
		return true
	}

	if !yaml.IsNotFound(err) {
		// Unparseable settings file. Fall back to scanning for the key so a
		// repeated migration still cannot append a duplicate entry.
		for _, line := range strings.Split(string(data), "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "merchants_file:") {
				return true
			}
		}
	}

	return false
}
