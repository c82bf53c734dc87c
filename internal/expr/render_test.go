// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package expr_test

import (
	"database/sql"
	"errors"

	. "gopkg.in/check.v1"

	"github.com/canonical/sqlfluent/internal/expr"
)

type RenderSuite struct{}

var _ = Suite(&RenderSuite{})

func (s *RenderSuite) TestRender(c *C) {
	a := mustProperty(c, nil, "a")
	b := mustProperty(c, nil, "b")
	one, two, three := expr.NewConstant(1), expr.NewConstant(2), expr.NewConstant(3)
	plus := func(l, r expr.Node) expr.Node { return mustInfix(c, l, "+", r, expr.PrecedenceAdditive) }
	minus := func(l, r expr.Node) expr.Node { return mustInfix(c, l, "-", r, expr.PrecedenceAdditive) }
	times := func(l, r expr.Node) expr.Node { return mustInfix(c, l, "*", r, expr.PrecedenceMultiplicative) }
	and := func(l, r expr.Node) expr.Node { return mustInfix(c, l, "AND", r, expr.PrecedenceAnd) }
	or := func(l, r expr.Node) expr.Node { return mustInfix(c, l, "OR", r, expr.PrecedenceOr) }

	tests := []struct {
		summary string
		node    expr.Node
		sql     string
		params  []any
	}{{
		summary: "constant",
		node:    one,
		sql:     "1",
		params:  []any{},
	}, {
		summary: "variable",
		node:    expr.NewVariable(5),
		sql:     "?",
		params:  []any{5},
	}, {
		summary: "property",
		node:    a,
		sql:     "a",
		params:  []any{},
	}, {
		summary: "custom on its own",
		node:    mustCustom(c, "now()"),
		sql:     "now()",
		params:  []any{},
	}, {
		summary: "lower precedence operand of equality",
		node:    mustComparison(c, plus(one, two), expr.Equal, three),
		sql:     "(1 + 2) = 3",
		params:  []any{},
	}, {
		summary: "higher precedence operand",
		node:    plus(times(one, two), three),
		sql:     "1 * 2 + 3",
		params:  []any{},
	}, {
		summary: "lower precedence operand",
		node:    times(plus(one, two), three),
		sql:     "(1 + 2) * 3",
		params:  []any{},
	}, {
		summary: "equal precedence on the left",
		node:    minus(minus(a, b), one),
		sql:     "a - b - 1",
		params:  []any{},
	}, {
		summary: "equal precedence on the right",
		node:    minus(a, minus(b, one)),
		sql:     "a - b - 1",
		params:  []any{},
	}, {
		summary: "or inside and",
		node:    and(or(a, b), a),
		sql:     "(a OR b) AND a",
		params:  []any{},
	}, {
		summary: "and inside or",
		node:    or(and(a, b), a),
		sql:     "a AND b OR a",
		params:  []any{},
	}, {
		summary: "ordering comparison inside equality",
		node:    mustComparison(c, mustComparison(c, a, expr.Less, b), expr.Equal, expr.NewConstant(true)),
		sql:     "a < b = 1",
		params:  []any{},
	}, {
		summary: "equality inside ordering comparison",
		node:    mustComparison(c, mustComparison(c, a, expr.Equal, b), expr.Less, one),
		sql:     "(a = b) < 1",
		params:  []any{},
	}, {
		summary: "custom operand is wrapped",
		node:    plus(mustCustom(c, "x"), one),
		sql:     "(x) + 1",
		params:  []any{},
	}, {
		summary: "unknown precedence operand is wrapped",
		node:    plus(mustInfix(c, a, "#", b, expr.PrecedenceUnknown), one),
		sql:     "(a # b) + 1",
		params:  []any{},
	}, {
		summary: "known operands of an unknown precedence parent",
		node:    mustInfix(c, a, "#", plus(b, one), expr.PrecedenceUnknown),
		sql:     "a # b + 1",
		params:  []any{},
	}, {
		summary: "placeholders in reading order",
		node:    plus(expr.NewVariable(5), expr.NewVariable(7)),
		sql:     "? + ?",
		params:  []any{5, 7},
	}, {
		summary: "repeated variables are not merged",
		node:    plus(expr.NewVariable(5), times(expr.NewVariable(5), a)),
		sql:     "? + ? * a",
		params:  []any{5, 5},
	}, {
		summary: "unary minus",
		node:    mustUnaryMinus(c, plus(a, one)),
		sql:     "-(a + 1)",
		params:  []any{},
	}, {
		summary: "double negation",
		node:    mustUnaryMinus(c, mustUnaryMinus(c, expr.NewConstant(5))),
		sql:     "- -5",
		params:  []any{},
	}, {
		summary: "negative literal",
		node:    mustUnaryMinus(c, expr.NewConstant(-5)),
		sql:     "- -5",
		params:  []any{},
	}, {
		summary: "not",
		node:    mustNot(c, mustComparison(c, a, expr.Equal, expr.NewVariable("x"))),
		sql:     "NOT a = ?",
		params:  []any{"x"},
	}, {
		summary: "not under ordering comparison",
		node:    mustComparison(c, mustNot(c, expr.NewConstant(false)), expr.Less, expr.NewConstant(false)),
		sql:     "(NOT 0) < 0",
		params:  []any{},
	}, {
		summary: "not under equality",
		node:    mustComparison(c, mustNot(c, a), expr.Equal, b),
		sql:     "(NOT a) = b",
		params:  []any{},
	}, {
		summary: "not under and",
		node:    and(mustNot(c, a), b),
		sql:     "NOT a AND b",
		params:  []any{},
	}, {
		summary: "and under not",
		node:    mustNot(c, and(a, b)),
		sql:     "NOT (a AND b)",
		params:  []any{},
	}, {
		summary: "double not",
		node:    mustNot(c, mustNot(c, a)),
		sql:     "NOT (NOT a)",
		params:  []any{},
	}, {
		summary: "custom under not",
		node:    mustNot(c, mustCustom(c, "x")),
		sql:     "NOT (x)",
		params:  []any{},
	}, {
		summary: "not under postfix",
		node:    mustPostfix(c, mustNot(c, a), "IS NULL"),
		sql:     "(NOT a) IS NULL",
		params:  []any{},
	}, {
		summary: "postfix",
		node:    mustPostfix(c, plus(a, b), "IS NULL"),
		sql:     "(a + b) IS NULL",
		params:  []any{},
	}, {
		summary: "postfix on a leaf",
		node:    mustPostfix(c, a, "IS NOT NULL"),
		sql:     "a IS NOT NULL",
		params:  []any{},
	}}

	for i, t := range tests {
		comment := Commentf("test %d failed (%s): %v", i, t.summary, t.node)
		re, err := expr.Render(expr.SQLite, t.node)
		if !c.Check(err, IsNil, comment) {
			continue
		}
		c.Check(re.SQL(), Equals, t.sql, comment)
		c.Check(re.Params(), DeepEquals, t.params, comment)
	}
}

func (s *RenderSuite) TestRenderIdempotent(c *C) {
	n := mustComparison(c,
		mustInfix(c, expr.NewVariable(1), "+", expr.NewVariable("two"), expr.PrecedenceAdditive),
		expr.MoreOrEqual,
		expr.NewConstant(3.5),
	)
	first, err := expr.Render(expr.Postgres, n)
	c.Assert(err, IsNil)
	second, err := expr.Render(expr.Postgres, n)
	c.Assert(err, IsNil)
	c.Assert(first.SQL(), Equals, "$1 + $2 >= 3.5")
	c.Assert(second.SQL(), Equals, first.SQL())
	c.Assert(second.Params(), DeepEquals, first.Params())
}

func (s *RenderSuite) TestRenderDialects(c *C) {
	n := mustInfix(c,
		mustComparison(c, mustProperty(c, nil, "name"), expr.Equal, expr.NewVariable("Fred")),
		"AND",
		mustComparison(c, mustProperty(c, nil, "age"), expr.More, expr.NewVariable(30)),
		expr.PrecedenceAnd,
	)

	tests := []struct {
		dialect expr.Dialect
		sql     string
		params  []any
	}{{
		dialect: expr.SQLite,
		sql:     "name = ? AND age > ?",
		params:  []any{"Fred", 30},
	}, {
		dialect: expr.MySQL,
		sql:     "name = ? AND age > ?",
		params:  []any{"Fred", 30},
	}, {
		dialect: expr.Postgres,
		sql:     "name = $1 AND age > $2",
		params:  []any{"Fred", 30},
	}, {
		dialect: expr.Named,
		sql:     "name = @sqlfluent_0 AND age > @sqlfluent_1",
		params:  []any{sql.Named("sqlfluent_0", "Fred"), sql.Named("sqlfluent_1", 30)},
	}}

	for _, t := range tests {
		re, err := expr.Render(t.dialect, n)
		c.Assert(err, IsNil)
		c.Check(re.SQL(), Equals, t.sql, Commentf("dialect %s", t.dialect.Name()))
		c.Check(re.Params(), DeepEquals, t.params, Commentf("dialect %s", t.dialect.Name()))
	}
}

func (s *RenderSuite) TestRenderConcat(c *C) {
	concat := func(l, r expr.Node) expr.Node {
		return mustInfix(c, l, expr.ConcatOperator, r, expr.PrecedenceConcatenation)
	}
	n := mustComparison(c,
		concat(concat(mustProperty(c, nil, "first"), expr.NewVariable(" ")), expr.NewConstant("x")),
		expr.Equal,
		mustProperty(c, nil, "name"),
	)

	tests := []struct {
		dialect expr.Dialect
		sql     string
	}{{
		dialect: expr.SQLite,
		sql:     "first || ? || 'x' = name",
	}, {
		dialect: expr.Postgres,
		sql:     "first || $1 || 'x' = name",
	}, {
		dialect: expr.MySQL,
		sql:     "CONCAT(CONCAT(first, ?), 'x') = name",
	}, {
		dialect: expr.Named,
		sql:     "first || @sqlfluent_0 || 'x' = name",
	}}

	for _, t := range tests {
		re, err := expr.Render(t.dialect, n)
		c.Assert(err, IsNil)
		c.Check(re.SQL(), Equals, t.sql, Commentf("dialect %s", t.dialect.Name()))
		c.Check(re.Params(), HasLen, 1)
	}

	// Operands are still wrapped inside CONCAT.
	re, err := expr.Render(expr.MySQL, concat(mustCustom(c, "a"), expr.NewConstant("b")))
	c.Assert(err, IsNil)
	c.Assert(re.SQL(), Equals, "CONCAT((a), 'b')")
}

func (s *RenderSuite) TestRenderDefaultDialect(c *C) {
	re, err := expr.Render(nil, expr.NewVariable(1))
	c.Assert(err, IsNil)
	c.Assert(re.SQL(), Equals, "?")
}

func (s *RenderSuite) TestRenderErrors(c *C) {
	_, err := expr.Render(expr.SQLite, nil)
	c.Assert(errors.Is(err, expr.ErrInvalidExpression), Equals, true)

	// Errors from a nested literal abort the whole render.
	n := mustInfix(c, expr.NewVariable(1), "+", expr.NewConstant(struct{}{}), expr.PrecedenceAdditive)
	re, err := expr.Render(expr.SQLite, n)
	c.Assert(err, ErrorMatches, `invalid expression: cannot write struct \{\} as a literal`)
	c.Assert(re, IsNil)
}
