package rules

import (
	"bytes"
	"fmt"

	"github.com/davidfowl/tally/pkg/yaml"
)

// contentHeader is written at the top of generated rule files.
const contentHeader = `# Merchant categorization rules.
#
# Each rule assigns a category to transactions whose match expression
# evaluates true. Rules are checked in order; by default the first match
# wins.
#
# Match expressions use CEL with these variables:
#   desc    - normalized, upper-cased transaction description (string)
#   amount  - transaction amount (double)
#   month, day, year - transaction date parts (int)
#   account - source account name (string)
#
# Examples:
#   match: desc.contains("COSTCO") && amount > 200.0
#   match: desc.matches("UBER.*EATS") && month == 12
#   match: amount.between(10.0, 250.0)
`

// Content renders a rule set as an expression rules file document, ready to
// write to disk.
func Content(s *Set) (string, error) {
	f := &File{
		RuleMode: string(s.Mode),
		Rules:    s.Rules,
	}
	if f.RuleMode == "" {
		f.RuleMode = string(MatchFirst)
	}

	b := &bytes.Buffer{}
	b.WriteString(contentHeader)
	b.WriteString("\n")

	enc := yaml.NewEncoder(b)

	err := enc.Encode(f)
	if err != nil {
		return "", fmt.Errorf("marshal yaml: %w", err)
	}

	return b.String(), nil
}
