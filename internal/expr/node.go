// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package expr

import (
	"fmt"
	"reflect"
)

// A Node is an element of an expression tree. The set of nodes is closed, the
// renderer switches over every implementation in this file.
type Node interface {
	// Precedence returns the rank used by a parent node to decide whether
	// this node needs parentheses.
	Precedence() Precedence

	// Equal reports whether other is the same variant with structurally
	// equal fields.
	Equal(other Node) bool

	// Hash returns a structural hash consistent with Equal.
	Hash() uint64

	// String returns a representation of the node for debugging and testing
	// purposes.
	String() string

	// node is a marker method.
	node()
}

// Infix is a binary operator applied to two operands, e.g. a + b.
type Infix struct {
	left, right Node
	operator    string
	precedence  Precedence
}

// NewInfix returns an infix node with unknown precedence.
func NewInfix(left Node, operator string, right Node) (*Infix, error) {
	return NewInfixWithPrecedence(left, operator, right, PrecedenceUnknown)
}

// NewInfixWithPrecedence returns an infix node with the given precedence.
func NewInfixWithPrecedence(left Node, operator string, right Node, p Precedence) (*Infix, error) {
	if operator == "" {
		return nil, emptyOperatorError()
	}
	if left == nil || right == nil {
		return nil, missingOperandError(operator)
	}
	return &Infix{left: left, right: right, operator: operator, precedence: p}, nil
}

func (n *Infix) Left() Node             { return n.left }
func (n *Infix) Right() Node            { return n.right }
func (n *Infix) Operator() string       { return n.operator }
func (n *Infix) Precedence() Precedence { return n.precedence }

func (n *Infix) Equal(other Node) bool {
	o, ok := other.(*Infix)
	return ok && n.operator == o.operator && nodesEqual(n.left, o.left) && nodesEqual(n.right, o.right)
}

func (n *Infix) Hash() uint64 {
	return newHasher(tagInfix).node(n.left).str(n.operator).node(n.right).sum()
}

func (n *Infix) String() string {
	return fmt.Sprintf("Infix[%v %s %v]", n.left, n.operator, n.right)
}

// Marker function for Node.
func (n *Infix) node() {}

// ComparisonKind enumerates the comparison operators.
type ComparisonKind int

const (
	Less ComparisonKind = iota
	LessOrEqual
	Equal
	MoreOrEqual
	More
)

var comparisonSymbols = [...]string{
	Less:        "<",
	LessOrEqual: "<=",
	Equal:       "=",
	MoreOrEqual: ">=",
	More:        ">",
}

// Valid reports whether k is one of the declared comparison kinds.
func (k ComparisonKind) Valid() bool {
	return k >= Less && k <= More
}

// Symbol returns the SQL operator for k.
func (k ComparisonKind) Symbol() string {
	if !k.Valid() {
		return ""
	}
	return comparisonSymbols[k]
}

func (k ComparisonKind) String() string {
	switch k {
	case Less:
		return "less"
	case LessOrEqual:
		return "lessOrEqual"
	case Equal:
		return "equal"
	case MoreOrEqual:
		return "moreOrEqual"
	case More:
		return "more"
	}
	return fmt.Sprintf("ComparisonKind(%d)", int(k))
}

// Comparison compares two operands of the same type. Its operator is derived
// from its kind.
type Comparison struct {
	left, right Node
	kind        ComparisonKind
}

// NewComparison returns a comparison node. An unknown kind has no operator
// symbol and is reported as an invalid expression.
func NewComparison(left Node, kind ComparisonKind, right Node) (*Comparison, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown comparison kind %d", ErrInvalidExpression, int(kind))
	}
	if left == nil || right == nil {
		return nil, missingOperandError(kind.Symbol())
	}
	return &Comparison{left: left, right: right, kind: kind}, nil
}

func (n *Comparison) Left() Node           { return n.left }
func (n *Comparison) Right() Node          { return n.right }
func (n *Comparison) Kind() ComparisonKind { return n.kind }
func (n *Comparison) Operator() string     { return n.kind.Symbol() }

// Precedence is lower for equality than for ordering comparisons, some
// dialects place =, IS, IN and LIKE below <, <=, > and >=.
func (n *Comparison) Precedence() Precedence {
	if n.kind == Equal {
		return PrecedenceComparisonEquality
	}
	return PrecedenceComparison
}

func (n *Comparison) Equal(other Node) bool {
	o, ok := other.(*Comparison)
	return ok && n.kind == o.kind && nodesEqual(n.left, o.left) && nodesEqual(n.right, o.right)
}

func (n *Comparison) Hash() uint64 {
	return newHasher(tagComparison).node(n.left).str(n.kind.Symbol()).node(n.right).sum()
}

func (n *Comparison) String() string {
	return fmt.Sprintf("Comparison[%v %s %v]", n.left, n.kind.Symbol(), n.right)
}

// Marker function for Node.
func (n *Comparison) node() {}

// UnaryMinus negates its operand.
type UnaryMinus struct {
	inner Node
}

// NewUnaryMinus returns the arithmetic negation of inner.
func NewUnaryMinus(inner Node) (*UnaryMinus, error) {
	if inner == nil {
		return nil, missingOperandError("-")
	}
	return &UnaryMinus{inner: inner}, nil
}

func (n *UnaryMinus) Inner() Node            { return n.inner }
func (n *UnaryMinus) Precedence() Precedence { return PrecedenceUnary }

func (n *UnaryMinus) Equal(other Node) bool {
	o, ok := other.(*UnaryMinus)
	return ok && nodesEqual(n.inner, o.inner)
}

func (n *UnaryMinus) Hash() uint64 {
	return newHasher(tagUnaryMinus).node(n.inner).sum()
}

func (n *UnaryMinus) String() string {
	return fmt.Sprintf("UnaryMinus[%v]", n.inner)
}

// Marker function for Node.
func (n *UnaryMinus) node() {}

// Not is the boolean negation of its operand.
type Not struct {
	inner Node
}

// NewNot returns the boolean negation of inner.
func NewNot(inner Node) (*Not, error) {
	if inner == nil {
		return nil, missingOperandError("NOT")
	}
	return &Not{inner: inner}, nil
}

func (n *Not) Inner() Node { return n.inner }

// Precedence is that of AND. NOT binds less tightly than the comparisons, so
// a comparison parent has to wrap it.
func (n *Not) Precedence() Precedence { return PrecedenceAnd }

func (n *Not) Equal(other Node) bool {
	o, ok := other.(*Not)
	return ok && nodesEqual(n.inner, o.inner)
}

func (n *Not) Hash() uint64 {
	return newHasher(tagNot).node(n.inner).sum()
}

func (n *Not) String() string {
	return fmt.Sprintf("Not[%v]", n.inner)
}

// Marker function for Node.
func (n *Not) node() {}

// Postfix is an operator written after its operand, e.g. x IS NULL.
type Postfix struct {
	inner    Node
	operator string
}

// NewPostfix returns inner followed by operator.
func NewPostfix(inner Node, operator string) (*Postfix, error) {
	if operator == "" {
		return nil, emptyOperatorError()
	}
	if inner == nil {
		return nil, missingOperandError(operator)
	}
	return &Postfix{inner: inner, operator: operator}, nil
}

func (n *Postfix) Inner() Node            { return n.inner }
func (n *Postfix) Operator() string       { return n.operator }
func (n *Postfix) Precedence() Precedence { return PrecedencePostfix }

func (n *Postfix) Equal(other Node) bool {
	o, ok := other.(*Postfix)
	return ok && n.operator == o.operator && nodesEqual(n.inner, o.inner)
}

func (n *Postfix) Hash() uint64 {
	return newHasher(tagPostfix).node(n.inner).str(n.operator).sum()
}

func (n *Postfix) String() string {
	return fmt.Sprintf("Postfix[%v %s]", n.inner, n.operator)
}

// Marker function for Node.
func (n *Postfix) node() {}

// Variable is a value sent to the database as a query parameter. It is
// rendered as a placeholder.
type Variable struct {
	value any
}

// NewVariable returns a parameter holding value.
func NewVariable(value any) *Variable {
	return &Variable{value: value}
}

func (n *Variable) Value() any             { return n.value }
func (n *Variable) Precedence() Precedence { return PrecedencePrimary }

func (n *Variable) Equal(other Node) bool {
	o, ok := other.(*Variable)
	return ok && reflect.DeepEqual(n.value, o.value)
}

func (n *Variable) Hash() uint64 {
	return newHasher(tagVariable).value(n.value).sum()
}

func (n *Variable) String() string {
	return fmt.Sprintf("Variable[%#v]", n.value)
}

// Marker function for Node.
func (n *Variable) node() {}

// Constant is a value written into the SQL text as a literal.
type Constant struct {
	value any
}

func NewConstant(value any) *Constant {
	return &Constant{value: value}
}

func (n *Constant) Value() any             { return n.value }
func (n *Constant) Precedence() Precedence { return PrecedencePrimary }

func (n *Constant) Equal(other Node) bool {
	o, ok := other.(*Constant)
	return ok && reflect.DeepEqual(n.value, o.value)
}

func (n *Constant) Hash() uint64 {
	return newHasher(tagConstant).value(n.value).sum()
}

func (n *Constant) String() string {
	return fmt.Sprintf("Constant[%#v]", n.value)
}

// Marker function for Node.
func (n *Constant) node() {}

// Property references a field of a model type by name. The name is rendered
// as is.
type Property struct {
	model reflect.Type
	name  string
}

// NewProperty returns a reference to the field name of model. model may be
// nil for references that do not belong to a Go type.
func NewProperty(model reflect.Type, name string) (*Property, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty property name", ErrInvalidExpression)
	}
	return &Property{model: model, name: name}, nil
}

func (n *Property) Model() reflect.Type    { return n.model }
func (n *Property) Name() string           { return n.name }
func (n *Property) Precedence() Precedence { return PrecedencePrimary }

func (n *Property) Equal(other Node) bool {
	o, ok := other.(*Property)
	return ok && n.name == o.name && n.model == o.model
}

func (n *Property) Hash() uint64 {
	return newHasher(tagProperty).str(modelName(n.model)).str(n.name).sum()
}

func (n *Property) String() string {
	return fmt.Sprintf("Property[%s.%s]", modelName(n.model), n.name)
}

// Marker function for Node.
func (n *Property) node() {}

// Custom is an opaque SQL fragment passed to the database verbatim. Its
// precedence is unknown so it is always parenthesized as an operand.
type Custom struct {
	sql string
}

func NewCustom(sql string) (*Custom, error) {
	if sql == "" {
		return nil, fmt.Errorf("%w: empty custom expression", ErrInvalidExpression)
	}
	return &Custom{sql: sql}, nil
}

func (n *Custom) SQL() string            { return n.sql }
func (n *Custom) Precedence() Precedence { return PrecedenceUnknown }

func (n *Custom) Equal(other Node) bool {
	o, ok := other.(*Custom)
	return ok && n.sql == o.sql
}

func (n *Custom) Hash() uint64 {
	return newHasher(tagCustom).str(n.sql).sum()
}

func (n *Custom) String() string {
	return "Custom[" + n.sql + "]"
}

// Marker function for Node.
func (n *Custom) node() {}

// nodesEqual compares two possibly nil nodes.
func nodesEqual(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

// modelName returns the fully qualified name of a model type.
func modelName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}
