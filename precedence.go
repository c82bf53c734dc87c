// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package sqlfluent

import "github.com/canonical/sqlfluent/internal/expr"

// Precedence ranks how tightly an expression binds. An operand is wrapped in
// parentheses when its precedence is lower than its parent's, or unknown.
type Precedence = expr.Precedence

// Precedence levels, lowest to highest.
const (
	PrecedenceUnknown            = expr.PrecedenceUnknown
	PrecedenceOr                 = expr.PrecedenceOr
	PrecedenceAnd                = expr.PrecedenceAnd
	PrecedenceComparisonEquality = expr.PrecedenceComparisonEquality
	PrecedenceComparison         = expr.PrecedenceComparison
	PrecedenceBitwise            = expr.PrecedenceBitwise
	PrecedenceAdditive           = expr.PrecedenceAdditive
	PrecedenceMultiplicative     = expr.PrecedenceMultiplicative
	PrecedenceConcatenation      = expr.PrecedenceConcatenation
	PrecedenceUnary              = expr.PrecedenceUnary
	PrecedencePostfix            = expr.PrecedencePostfix
	PrecedencePrimary            = expr.PrecedencePrimary
)

// NeedsParens reports whether an operand of precedence child is wrapped in
// parentheses inside a parent of precedence parent.
func NeedsParens(parent, child Precedence) bool {
	return expr.NeedsParens(parent, child)
}

// ComparisonKind selects the operator of a comparison.
type ComparisonKind = expr.ComparisonKind

const (
	Less        = expr.Less        // <
	LessOrEqual = expr.LessOrEqual // <=
	Equal       = expr.Equal       // =
	MoreOrEqual = expr.MoreOrEqual // >=
	More        = expr.More        // >
)
