package rules_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidfowl/tally/pkg/rules"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadCSV(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		content   string
		wantErr   string
		wantRules int
	}{
		"basic rows": {
			content:   "COSTCO,Groceries\nUBER EATS,Dining\nSHELL,Gas\n",
			wantRules: 3,
		},
		"header row skipped": {
			content:   "merchant,category\nCOSTCO,Groceries\n",
			wantRules: 1,
		},
		"header row is case-insensitive": {
			content:   "Merchant,Category\nCOSTCO,Groceries\n",
			wantRules: 1,
		},
		"comments and blank lines skipped": {
			content:   "# merchant rules\n\nCOSTCO,Groceries\n\n# more\nSHELL,Gas\n",
			wantRules: 2,
		},
		"quoted pattern with comma": {
			content:   "\"AMAZON, INC\",Shopping\n",
			wantRules: 1,
		},
		"pattern is trimmed and upper-cased": {
			content:   "  costco wholesale ,Groceries\n",
			wantRules: 1,
		},
		"too few fields": {
			content: "COSTCO\n",
			wantErr: "expected 2 fields",
		},
		"too many fields": {
			content: "COSTCO,Groceries,Extra\n",
			wantErr: "expected 2 fields",
		},
		"empty pattern": {
			content: " ,Groceries\n",
			wantErr: "empty merchant pattern",
		},
		"empty category": {
			content: "COSTCO, \n",
			wantErr: "empty category",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := writeFile(t, t.TempDir(), "merchant_categories.csv", tc.content)

			set, err := rules.LoadCSV(path, rules.MatchFirst)

			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantRules, set.Len())
			assert.Equal(t, rules.FormatCSV, set.Format)
			assert.Equal(t, path, set.Source)
		})
	}
}

func TestLoadCSV_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := rules.LoadCSV(filepath.Join(t.TempDir(), "nope.csv"), rules.MatchFirst)

	require.Error(t, err)
}

func TestLoadCSV_RulesMatchImmediately(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "merchant_categories.csv",
		"costco,Groceries\nuber eats,Dining\n")

	set, err := rules.LoadCSV(path, rules.MatchFirst)
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())

	// Patterns are normalized, so matching is case-insensitive.
	assert.Equal(t, `desc.contains("COSTCO")`, set.Rules[0].Match)

	category, matched := set.Categorize(newTransaction(t, "Costco Wholesale #99", 80.00))
	require.True(t, matched)
	assert.Equal(t, "Groceries", category)
}

func TestLoadCSV_OrderIsPriority(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "merchant_categories.csv",
		"COSTCO GAS,Gas\nCOSTCO,Groceries\n")

	set, err := rules.LoadCSV(path, rules.MatchFirst)
	require.NoError(t, err)

	category, matched := set.Categorize(newTransaction(t, "COSTCO GAS #55", 60.00))
	require.True(t, matched)
	assert.Equal(t, "Gas", category)
}
