// Package rules loads, converts, and evaluates merchant categorization
// rules.
//
// Two on-disk formats exist: the legacy tabular CSV
// (merchant_categories.csv) and the expression-based rules file
// (merchants.rules). Both load into a [Set], which assigns categories to
// transactions with first-match-wins or last-match-wins semantics.
package rules
