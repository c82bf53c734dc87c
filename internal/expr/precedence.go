// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package expr

import "strconv"

// Precedence ranks how tightly an expression binds. It decides whether a
// child expression has to be wrapped in parentheses inside its parent.
type Precedence int

const (
	// PrecedenceUnknown is the rank of expressions that do not declare one.
	// They are always parenthesized when used as an operand.
	PrecedenceUnknown Precedence = -1

	PrecedenceOr  Precedence = 10
	PrecedenceAnd Precedence = 11

	// PrecedenceComparisonEquality and PrecedenceComparison follow SQLite
	// and MySQL, where = binds less tightly than <. Postgres gives them one
	// non-associative rank and rejects a comparison that is the unwrapped
	// operand of another, such as a < b = c.
	PrecedenceComparisonEquality Precedence = 12
	PrecedenceComparison         Precedence = 13
	PrecedenceBitwise            Precedence = 14
	PrecedenceAdditive           Precedence = 15
	PrecedenceMultiplicative     Precedence = 16
	PrecedenceConcatenation      Precedence = 17
	PrecedenceUnary              Precedence = 20
	PrecedencePostfix            Precedence = 21

	// PrecedencePrimary is the rank of literals, placeholders and column
	// references. They never need parentheses.
	PrecedencePrimary Precedence = 100
)

var precedenceNames = map[Precedence]string{
	PrecedenceUnknown:            "unknown",
	PrecedenceOr:                 "or",
	PrecedenceAnd:                "and",
	PrecedenceComparisonEquality: "comparisonEquality",
	PrecedenceComparison:         "comparison",
	PrecedenceBitwise:            "bitwise",
	PrecedenceAdditive:           "additive",
	PrecedenceMultiplicative:     "multiplicative",
	PrecedenceConcatenation:      "concatenation",
	PrecedenceUnary:              "unary",
	PrecedencePostfix:            "postfix",
	PrecedencePrimary:            "primary",
}

func (p Precedence) String() string {
	if name, ok := precedenceNames[p]; ok {
		return name
	}
	return "precedence(" + strconv.Itoa(int(p)) + ")"
}

// Less reports whether p binds less tightly than other.
func (p Precedence) Less(other Precedence) bool { return p < other }

// LessOrEqual reports whether p binds no more tightly than other.
func (p Precedence) LessOrEqual(other Precedence) bool { return p <= other }

// Greater reports whether p binds more tightly than other.
func (p Precedence) Greater(other Precedence) bool { return p > other }

// GreaterOrEqual reports whether p binds at least as tightly as other.
func (p Precedence) GreaterOrEqual(other Precedence) bool { return p >= other }

// NeedsParens reports whether a child of precedence child must be wrapped in
// parentheses when it is an operand of a parent of precedence parent.
//
// Operands of equal precedence are left alone, even for non-associative
// operators such as subtraction. Unknown operands are always wrapped.
func NeedsParens(parent, child Precedence) bool {
	return child == PrecedenceUnknown || child.Less(parent)
}
