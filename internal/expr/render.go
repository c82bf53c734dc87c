// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package expr

import (
	"bytes"
)

// RenderedExpr is the SQL generated from an expression tree together with the
// query parameters for its placeholders, in placeholder order.
type RenderedExpr struct {
	sql    string
	params []any
}

// SQL returns the generated SQL.
func (re *RenderedExpr) SQL() string {
	return re.sql
}

// Params returns the query parameters. The slice is shared, callers must
// not modify it.
func (re *RenderedExpr) Params() []any {
	return re.params
}

// Render walks the tree rooted at n and returns its SQL and parameters. It
// does not modify the tree. On error nothing is returned.
func Render(d Dialect, n Node) (*RenderedExpr, error) {
	if d == nil {
		d = SQLite
	}
	qb := newQueryBuilder(d)
	sql, err := qb.render(n)
	if err != nil {
		return nil, err
	}
	return &RenderedExpr{sql: sql, params: qb.params}, nil
}

// queryBuilder is used to build up the SQL and query parameters of an
// expression tree.
type queryBuilder struct {
	dialect Dialect
	// inputAssigner numbers the placeholders in the order they are written.
	inputAssigner *inputAssigner
	// params are the values for the placeholders written so far.
	params []any
}

func newQueryBuilder(d Dialect) *queryBuilder {
	return &queryBuilder{
		dialect:       d,
		inputAssigner: &inputAssigner{},
		params:        []any{},
	}
}

// render returns the SQL for n. Children are rendered before their parent,
// left before right, so placeholders are numbered in reading order.
func (qb *queryBuilder) render(n Node) (string, error) {
	var b sqlBuilder
	switch n := n.(type) {
	case nil:
		return "", missingOperandError("")
	case *Variable:
		b.write(qb.addInput(n.value))
	case *Constant:
		lit, err := FormatLiteral(qb.dialect, n.value)
		if err != nil {
			return "", err
		}
		b.write(lit)
	case *Property:
		b.write(n.name)
	case *Custom:
		b.write(n.sql)
	case *Infix:
		if n.operator == ConcatOperator {
			if err := qb.writeConcat(&b, n); err != nil {
				return "", err
			}
			break
		}
		if err := qb.writeInfix(&b, n, n.left, n.operator, n.right); err != nil {
			return "", err
		}
	case *Comparison:
		if err := qb.writeInfix(&b, n, n.left, n.kind.Symbol(), n.right); err != nil {
			return "", err
		}
	case *UnaryMinus:
		inner, err := qb.operand(n, n.inner)
		if err != nil {
			return "", err
		}
		b.write("-")
		// "--" starts a comment.
		if len(inner) > 0 && inner[0] == '-' {
			b.write(" ")
		}
		b.write(inner)
	case *Not:
		inner, err := qb.render(n.inner)
		if err != nil {
			return "", err
		}
		b.write("NOT ")
		// NOT shares its rank with AND but is not an infix operator, so an
		// operand at that rank is wrapped too.
		if p := n.inner.Precedence(); p == PrecedenceUnknown || p.LessOrEqual(PrecedenceAnd) {
			inner = "(" + inner + ")"
		}
		b.write(inner)
	case *Postfix:
		if n.operator == "" {
			return "", emptyOperatorError()
		}
		inner, err := qb.operand(n, n.inner)
		if err != nil {
			return "", err
		}
		b.write(inner)
		b.write(" ")
		b.write(n.operator)
	default:
		return "", unknownNodeError(n)
	}
	return b.getSQL(), nil
}

// writeInfix writes "left operator right" to b.
func (qb *queryBuilder) writeInfix(b *sqlBuilder, parent Node, left Node, operator string, right Node) error {
	if operator == "" {
		return emptyOperatorError()
	}
	leftSQL, err := qb.operand(parent, left)
	if err != nil {
		return err
	}
	rightSQL, err := qb.operand(parent, right)
	if err != nil {
		return err
	}
	b.write(leftSQL)
	b.write(" ")
	b.write(operator)
	b.write(" ")
	b.write(rightSQL)
	return nil
}

// writeConcat writes a string concatenation in the form the dialect expects.
func (qb *queryBuilder) writeConcat(b *sqlBuilder, n *Infix) error {
	leftSQL, err := qb.operand(n, n.left)
	if err != nil {
		return err
	}
	rightSQL, err := qb.operand(n, n.right)
	if err != nil {
		return err
	}
	b.write(qb.dialect.Concat(leftSQL, rightSQL))
	return nil
}

// operand renders child and wraps it in parentheses if it binds less
// tightly than parent.
func (qb *queryBuilder) operand(parent Node, child Node) (string, error) {
	sql, err := qb.render(child)
	if err != nil {
		return "", err
	}
	if child != nil && NeedsParens(parent.Precedence(), child.Precedence()) {
		return "(" + sql + ")", nil
	}
	return sql, nil
}

// addInput adds a query parameter and returns its placeholder.
func (qb *queryBuilder) addInput(v any) string {
	n := qb.inputAssigner.assignInputs(1)
	qb.params = append(qb.params, qb.dialect.Param(n, v))
	return qb.dialect.Placeholder(n)
}

// inputAssigner assigns numbers to query parameters. It keeps track of how
// many have been used in the query so far.
type inputAssigner struct {
	// inputCount stores the next unused input number.
	inputCount int
}

// assignInputs assigns the next n inputs to the caller. The number of the first
// of these inputs is returned.
func (ia *inputAssigner) assignInputs(n int) int {
	ia.inputCount += n
	return ia.inputCount - n
}

// sqlBuilder is used to generate SQL string piece by piece using the struct
// methods.
type sqlBuilder struct {
	buf bytes.Buffer
}

// write writes the SQL to the sqlBuilder.
func (b *sqlBuilder) write(sql string) {
	b.buf.WriteString(sql)
}

// getSQL returns the generated SQL string
func (b *sqlBuilder) getSQL() string {
	return b.buf.String()
}
