// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package sqlfluent

import (
	"fmt"
	"reflect"

	"github.com/canonical/sqlfluent/internal/expr"
	sqlreflect "github.com/canonical/sqlfluent/internal/reflect"
)

// Integer is the set of Go integer types.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Number is the set of Go types that support SQL arithmetic operators.
type Number interface {
	Integer | ~float32 | ~float64
}

// Var returns an expression that sends v to the database as a query
// parameter. Use it for every value supplied by a user.
func Var[T any](v T) Expression[T] {
	return Expression[T]{node: expr.NewVariable(v)}
}

// Const returns an expression that writes v into the SQL text as a literal.
// Only use it for values that are known when the program is written.
func Const[T any](v T) Expression[T] {
	return Expression[T]{node: expr.NewConstant(v)}
}

// Property returns a reference to the field name of the model type M. The
// name is written into the SQL as is. Two properties are equal when they
// have the same name and model type.
func Property[M any, F any](name string) Expression[F] {
	return build[F](func(...expr.Node) (expr.Node, error) {
		return expr.NewProperty(typeOf[M](), name)
	})
}

// Field returns a reference to the column of the struct type M. The column
// is the "db" tag of a field of M, or the snake case name of an untagged
// field. It fails if M has no such column or if the field cannot hold an F.
func Field[M any, F any](column string) (Expression[F], error) {
	model := typeOf[M]()
	info, err := sqlreflect.Cache().Reflect(reflect.New(model).Elem().Interface())
	if err != nil {
		return Expression[F]{}, fmt.Errorf("%w: %s", ErrInvalidExpression, err)
	}
	st, ok := info.(sqlreflect.Struct)
	if !ok {
		return Expression[F]{}, fmt.Errorf("%w: %s is not a struct", ErrInvalidExpression, info.Name())
	}
	field, ok := st.Fields[column]
	if !ok {
		return Expression[F]{}, fmt.Errorf("%w: type %q has no column %q", ErrInvalidExpression, model.Name(), column)
	}
	if want := typeOf[F](); !field.Type.AssignableTo(want) {
		return Expression[F]{}, fmt.Errorf("%w: column %q of %q has type %s, not %s",
			ErrInvalidExpression, column, model.Name(), field.Type, want)
	}
	p, err := expr.NewProperty(model, column)
	if err != nil {
		return Expression[F]{}, err
	}
	return Expression[F]{node: p}, nil
}

// MustField is the same as [Field] except that it panics on error.
func MustField[M any, F any](column string) Expression[F] {
	e, err := Field[M, F](column)
	if err != nil {
		panic(err)
	}
	return e
}

// Custom returns an SQL fragment that is passed to the database verbatim.
// Its precedence is unknown, so it is always parenthesized as an operand.
func Custom[D any](sql string) Expression[D] {
	return build[D](func(...expr.Node) (expr.Node, error) {
		return expr.NewCustom(sql)
	})
}

// Infix returns the expression "left operator right". Its precedence is
// unknown, so it is parenthesized whenever it is an operand. An empty
// operator is an invalid expression.
func Infix[D any](left Operand, operator string, right Operand) (Expression[D], error) {
	return InfixWithPrecedence[D](left, operator, right, PrecedenceUnknown)
}

// InfixWithPrecedence is the same as [Infix] with the precedence given.
func InfixWithPrecedence[D any](left Operand, operator string, right Operand, p Precedence) (Expression[D], error) {
	e := infix[D](left, operator, right, p)
	return e, e.err
}

// Compare returns the comparison of left and right.
func Compare[D any](left Expression[D], kind ComparisonKind, right Expression[D]) Expression[bool] {
	return build[bool](func(ns ...expr.Node) (expr.Node, error) {
		return expr.NewComparison(ns[0], kind, ns[1])
	}, left, right)
}

// Equals returns the predicate e = v. The value is bound as a query
// parameter.
func (e Expression[D]) Equals(v D) Expression[bool] {
	return Compare(e, Equal, Var(v))
}

// EqualsExpression returns the predicate e = other.
func (e Expression[D]) EqualsExpression(other Expression[D]) Expression[bool] {
	return Compare(e, Equal, other)
}

// LessThan returns the predicate e < other.
func (e Expression[D]) LessThan(other Expression[D]) Expression[bool] {
	return Compare(e, Less, other)
}

// LessOrEqual returns the predicate e <= other.
func (e Expression[D]) LessOrEqual(other Expression[D]) Expression[bool] {
	return Compare(e, LessOrEqual, other)
}

// MoreThan returns the predicate e > other.
func (e Expression[D]) MoreThan(other Expression[D]) Expression[bool] {
	return Compare(e, More, other)
}

// MoreOrEqual returns the predicate e >= other.
func (e Expression[D]) MoreOrEqual(other Expression[D]) Expression[bool] {
	return Compare(e, MoreOrEqual, other)
}

// IsNull returns the predicate e IS NULL.
func (e Expression[D]) IsNull() Expression[bool] {
	return postfix(e, "IS NULL")
}

// IsNotNull returns the predicate e IS NOT NULL.
func (e Expression[D]) IsNotNull() Expression[bool] {
	return postfix(e, "IS NOT NULL")
}

// Negate returns -e.
func Negate[N Number](e Expression[N]) Expression[N] {
	return build[N](func(ns ...expr.Node) (expr.Node, error) {
		return expr.NewUnaryMinus(ns[0])
	}, e)
}

// Not returns NOT e.
func Not(e Expression[bool]) Expression[bool] {
	return build[bool](func(ns ...expr.Node) (expr.Node, error) {
		return expr.NewNot(ns[0])
	}, e)
}

// And joins the predicates with AND, from left to right.
func And(a, b Expression[bool], more ...Expression[bool]) Expression[bool] {
	return chain("AND", PrecedenceAnd, a, b, more)
}

// Or joins the predicates with OR, from left to right.
func Or(a, b Expression[bool], more ...Expression[bool]) Expression[bool] {
	return chain("OR", PrecedenceOr, a, b, more)
}

// Plus returns a + b.
func Plus[N Number](a, b Expression[N]) Expression[N] {
	return infix[N](a, "+", b, PrecedenceAdditive)
}

// Minus returns a - b.
func Minus[N Number](a, b Expression[N]) Expression[N] {
	return infix[N](a, "-", b, PrecedenceAdditive)
}

// Times returns a * b.
func Times[N Number](a, b Expression[N]) Expression[N] {
	return infix[N](a, "*", b, PrecedenceMultiplicative)
}

// Divide returns a / b.
func Divide[N Number](a, b Expression[N]) Expression[N] {
	return infix[N](a, "/", b, PrecedenceMultiplicative)
}

// Mod returns a % b.
func Mod[N Integer](a, b Expression[N]) Expression[N] {
	return infix[N](a, "%", b, PrecedenceMultiplicative)
}

// BitAnd returns a & b.
func BitAnd[N Integer](a, b Expression[N]) Expression[N] {
	return infix[N](a, "&", b, PrecedenceBitwise)
}

// BitOr returns a | b.
func BitOr[N Integer](a, b Expression[N]) Expression[N] {
	return infix[N](a, "|", b, PrecedenceBitwise)
}

// Concat returns a || b, or CONCAT(a, b) in the MySQL dialect.
func Concat(a, b Expression[string]) Expression[string] {
	return infix[string](a, expr.ConcatOperator, b, PrecedenceConcatenation)
}

func infix[D any](left Operand, operator string, right Operand, p Precedence) Expression[D] {
	return build[D](func(ns ...expr.Node) (expr.Node, error) {
		return expr.NewInfixWithPrecedence(ns[0], operator, ns[1], p)
	}, left, right)
}

func postfix[D any](e Expression[D], operator string) Expression[bool] {
	return build[bool](func(ns ...expr.Node) (expr.Node, error) {
		return expr.NewPostfix(ns[0], operator)
	}, e)
}

func chain(operator string, p Precedence, a, b Expression[bool], more []Expression[bool]) Expression[bool] {
	e := infix[bool](a, operator, b, p)
	for _, next := range more {
		e = infix[bool](e, operator, next, p)
	}
	return e
}

// build resolves the operands and passes their nodes to newNode. The first
// error, from an operand or from newNode, is recorded in the result.
func build[D any](newNode func(...expr.Node) (expr.Node, error), operands ...Operand) Expression[D] {
	nodes := make([]expr.Node, len(operands))
	for i, o := range operands {
		if o == nil {
			return Expression[D]{err: fmt.Errorf("%w: nil operand", ErrInvalidExpression)}
		}
		n, err := o.exprNode()
		if err != nil {
			return Expression[D]{err: err}
		}
		nodes[i] = n
	}
	n, err := newNode(nodes...)
	if err != nil {
		return Expression[D]{err: err}
	}
	return Expression[D]{node: n}
}

// typeOf returns the reflect.Type of T, including interface types.
func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
