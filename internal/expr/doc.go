/*
Package expr holds the untyped expression tree behind sqlfluent expressions and
turns it into SQL. It does not interact with databases.

The package is split up into three parts: the node set, structural identity,
and rendering.

# Nodes

A tree is made of a closed set of nodes. Infix, Comparison, UnaryMinus, Not and
Postfix combine operands. Variable, Constant, Property and Custom are leaves.
Nodes are immutable once built and the constructors reject trees that could
never be rendered, such as an operator with an empty symbol.

Every node has a Precedence. A child is wrapped in parentheses when its
precedence is lower than its parent's or when it is unknown. Nodes that cannot
state how tightly they bind, such as Custom fragments, report
PrecedenceUnknown.

# Structural identity

Two trees are equal when they are made of the same variants holding equal
operators and values. A Constant is never equal to a Variable, even when they
hold the same value, because one is written into the SQL text and the other is
sent as a query parameter. Hash is consistent with Equal so trees can key a
cache.

# Rendering

Render walks a tree, children before parents and left before right, and writes
the SQL. Variables become placeholders and their values are collected as query
parameters in placeholder order. Constants are written as literals. A Dialect
decides how placeholders and literals are spelled.
*/
package expr
