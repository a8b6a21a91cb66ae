package rules

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/cel-go/cel"

	"github.com/davidfowl/tally/pkg/expr"
)

// Unknown is the category assigned to transactions no rule matches.
const Unknown = "Unknown"

// Transaction is the categorization input: one statement line, as parsed
// from a bank export.
type Transaction struct {
	Date        time.Time
	Description string
	Account     string
	Amount      float64
}

// env compiles match expressions against the transaction variables.
var env = expr.MustNewEnvironment(
	cel.Variable("desc", cel.StringType),
	cel.Variable("amount", cel.DoubleType),
	cel.Variable("month", cel.IntType),
	cel.Variable("day", cel.IntType),
	cel.Variable("year", cel.IntType),
	cel.Variable("account", cel.StringType),
)

// Rule uses a CEL matcher to determine if its category should be assigned.
//
// CEL expressions have access to variables:
//   - `desc` (string): Normalized, upper-cased transaction description
//   - `amount` (double): Transaction amount
//   - `month`, `day`, `year` (int): Transaction date parts
//   - `account` (string): Source account name
//
// CEL expressions must return a boolean value:
//   - desc.contains("COSTCO") - true if the description mentions COSTCO
//   - desc.matches("UBER.*EATS") && month == 12 - regex plus date parts
//   - amount.between(10.0, 250.0) - true inside the inclusive range
//
// CEL also provides standard functions like `endsWith`, `contains`,
// `startsWith`, `matches`, and logical operators like `&&`, `||`, and `!`.
type Rule struct {
	matchProgram cel.Program // Compiled CEL program for matching transactions.

	// Match is a CEL expression to match transactions.
	Match string `json:"match" jsonschema:"title=Match Expression"`
	// Category is assigned when this rule matches.
	Category string `json:"category" jsonschema:"title=Category"`
}

// New creates a new rule and compiles its match expression.
func New(match, category string) (*Rule, error) {
	r := &Rule{
		Match:    match,
		Category: category,
	}

	err := r.CompileMatch()
	if err != nil {
		return nil, fmt.Errorf("rule %q: %w", match, err)
	}

	return r, nil
}

// MustNew creates a new rule and panics if there's an error.
func MustNew(match, category string) *Rule {
	r, err := New(match, category)
	if err != nil {
		panic(err)
	}

	return r
}

// CompileMatch compiles the rule's match expression into a CEL program.
func (r *Rule) CompileMatch() error {
	if r.matchProgram != nil {
		return nil
	}

	program, err := env.Compile(r.Match)
	if err != nil {
		return err
	}

	r.matchProgram = program

	return nil
}

// MatchTransaction evaluates the rule against a transaction. The
// description is normalized and upper-cased before evaluation, so match
// expressions are case- and accent-insensitive.
//
// The CEL expression must return a boolean value; evaluation failures and
// non-boolean results are treated as a non-match.
func (r *Rule) MatchTransaction(tx Transaction) bool {
	if r.matchProgram == nil {
		panic(errors.New("rule missing a compiled match expression"))
	}

	result, _, err := r.matchProgram.Eval(map[string]any{
		"desc":    NormalizePattern(tx.Description),
		"amount":  tx.Amount,
		"month":   int(tx.Date.Month()),
		"day":     tx.Date.Day(),
		"year":    tx.Date.Year(),
		"account": tx.Account,
	})
	if err != nil {
		// If evaluation fails, consider it a non-match.
		return false
	}

	if boolVal, ok := result.Value().(bool); ok {
		return boolVal
	}

	return false
}

func (r *Rule) String() string {
	return fmt.Sprintf("%s: %s", r.Category, r.Match)
}
