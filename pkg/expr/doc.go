// Package expr provides CEL (Common Expression Language) functionality
// for evaluating match expressions against transactions.
//
// It creates CEL environments with the strings, math, and lists extension
// libraries enabled, plus domain functions:
//   - `amount.between(lo, hi)`: inclusive range check on amounts
//
// Rule expressions have access to variables declared by the caller,
// typically:
//   - `desc` (string): Normalized, upper-cased transaction description
//   - `amount` (double): Transaction amount
//   - `month`, `day`, `year` (int): Transaction date parts
//   - `account` (string): Source account name
package expr
