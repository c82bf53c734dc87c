/*
Package sqlfluent builds SQL expressions out of typed Go values and renders them
to SQL text and query arguments.

An Expression[D] is an immutable tree whose result has the Go type D. The type
parameter stops operands of different types from being compared or combined:
an Expression[int] can be added to another Expression[int] but not compared
with an Expression[string].

# Basics

Leaves are built with Var, Const, Property and Field:

	type Person struct {
		Name string `db:"name"`
		ID   int    `db:"id"`
		Team string `db:"team"`
	}

	team := sqlfluent.MustField[Person, string]("team")
	id := sqlfluent.MustField[Person, int]("id")

	predicate := sqlfluent.And(team.Equals("engineering"), id.MoreThan(sqlfluent.Var(1)))

Rendering the predicate gives

	team = ? AND id > ?

with the arguments "engineering" and 1. Values given to Var and Equals are
always sent as query parameters. Values given to Const are written into the
SQL text, so Const must only be used for values known when the program is
written.

# Parentheses

Every operator has a precedence. An operand is wrapped in parentheses when it
binds less tightly than its parent or when its precedence is unknown:

	sqlfluent.Times(sqlfluent.Plus(id, sqlfluent.Const(1)), sqlfluent.Const(2))

renders as

	(id + 1) * 2

Operands of the same precedence are not wrapped, on either side. Custom
fragments and Infix expressions built without a precedence are always wrapped.

# Errors

Building an expression never panics. The first error seen while building a
tree is kept in it and returned by Render. Errors caused by the structure of
an expression wrap ErrInvalidExpression.

# Dialects

SQLite is the default dialect. Postgres, MySQL and Named are selected with
WithDialect and change how placeholders and literals are written.

Render does not modify an expression and may be called concurrently. A Cache
keeps the statements for expressions that are rendered over and over.
*/
package sqlfluent
