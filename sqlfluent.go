// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package sqlfluent

import (
	"fmt"

	"github.com/canonical/sqlfluent/internal/expr"
)

// ErrInvalidExpression is returned when an expression violates a structural
// precondition, such as an empty operator symbol. Use errors.Is to check for
// it.
var ErrInvalidExpression = expr.ErrInvalidExpression

// Operand is implemented by an [Expression] of any result type. It is used
// where the result type of an operand is not constrained, e.g. by [Infix].
type Operand interface {
	// Precedence returns the rank deciding whether the operand is
	// parenthesized inside a parent expression.
	Precedence() Precedence

	// Hash returns the structural hash of the operand.
	Hash() uint64

	// exprNode returns the root of the expression tree, or the error
	// recorded while building it.
	exprNode() (expr.Node, error)
}

// Expression is an immutable SQL expression whose result has the Go type D.
// Expressions are built from leaves ([Var], [Const], [Property]) and
// combined with operators. The zero Expression is invalid and fails to
// render.
//
// Equality is structural: use [Expression.Equal] and [Expression.Hash]
// rather than ==.
type Expression[D any] struct {
	node expr.Node
	// err is the first error seen while building the expression. It is
	// returned when the expression is rendered.
	err error
}

func (e Expression[D]) exprNode() (expr.Node, error) {
	if e.err != nil {
		return nil, e.err
	}
	if e.node == nil {
		return nil, fmt.Errorf("%w: empty expression", ErrInvalidExpression)
	}
	return e.node, nil
}

// Err returns the error recorded while building e, if any.
func (e Expression[D]) Err() error {
	_, err := e.exprNode()
	return err
}

// Precedence returns the precedence of the root of e.
func (e Expression[D]) Precedence() Precedence {
	if e.node == nil {
		return PrecedenceUnknown
	}
	return e.node.Precedence()
}

// Equal reports whether e and other are structurally equal: the same node
// variants holding equal operators, operands and values. A constant is never
// equal to a variable holding the same value.
func (e Expression[D]) Equal(other Operand) bool {
	if other == nil {
		return false
	}
	a, aerr := e.exprNode()
	b, berr := other.exprNode()
	if aerr != nil || berr != nil {
		return false
	}
	return a.Equal(b)
}

// Hash returns a hash of the structure of e. Equal expressions have equal
// hashes.
func (e Expression[D]) Hash() uint64 {
	if e.node == nil {
		return 0
	}
	return e.node.Hash()
}

// String returns a representation of the expression tree for debugging.
func (e Expression[D]) String() string {
	n, err := e.exprNode()
	if err != nil {
		return "Invalid[" + err.Error() + "]"
	}
	return n.String()
}

// Render returns the SQL for e and the query parameters for its
// placeholders. See [Render].
func (e Expression[D]) Render(opts ...RenderOption) (*Statement, error) {
	return Render(e, opts...)
}

// Statement is a rendered expression: SQL text and the values for the
// placeholders in it, in order. Constants are written into the text, every
// other value is a parameter.
type Statement struct {
	sql  string
	args []any
}

// SQL returns the SQL text.
func (s *Statement) SQL() string {
	return s.sql
}

// Args returns the query parameters, one per placeholder in the order they
// appear in the SQL text.
func (s *Statement) Args() []any {
	args := make([]any, len(s.args))
	copy(args, s.args)
	return args
}

// Render converts the expression tree e into SQL text and query parameters.
// Operands that bind less tightly than their parent, and operands of
// unknown precedence, are wrapped in parentheses. Rendering does not modify
// e and may be done concurrently.
func Render(e Operand, opts ...RenderOption) (*Statement, error) {
	cfg := newRenderConfig(opts)
	if e == nil {
		return nil, fmt.Errorf("%w: nil expression", ErrInvalidExpression)
	}
	n, err := e.exprNode()
	if err != nil {
		return nil, err
	}
	re, err := expr.Render(cfg.dialect, n)
	if err != nil {
		return nil, err
	}
	return &Statement{sql: re.SQL(), args: re.Params()}, nil
}

// MustRender is the same as [Render] except that it panics on error.
func MustRender(e Operand, opts ...RenderOption) *Statement {
	s, err := Render(e, opts...)
	if err != nil {
		panic(err)
	}
	return s
}
