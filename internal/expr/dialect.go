// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package expr

import (
	"database/sql"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

// A Dialect decides how placeholders and literals are written for a family
// of databases.
type Dialect interface {
	// Name identifies the dialect.
	Name() string

	// Placeholder returns the placeholder for the n-th query parameter,
	// counting from zero.
	Placeholder(n int) string

	// Param returns the value passed to the database for the n-th query
	// parameter.
	Param(n int, v any) any

	// QuoteString returns s as a quoted string literal.
	QuoteString(s string) string

	// Bool returns the literal for b.
	Bool(b bool) string

	// Bytes returns the literal for a blob.
	Bytes(b []byte) string

	// Concat joins two rendered string operands.
	Concat(left, right string) string
}

// ConcatOperator is the standard SQL string concatenation operator.
const ConcatOperator = "||"

var (
	// SQLite writes ? placeholders and stores booleans as integers.
	SQLite Dialect = sqliteDialect{}
	// Postgres writes numbered $N placeholders.
	Postgres Dialect = postgresDialect{}
	// MySQL writes ? placeholders, escapes backslashes in strings and
	// concatenates with CONCAT, since || is a logical OR there by default.
	MySQL Dialect = mysqlDialect{}
	// Named writes @sqlfluent_N placeholders and binds parameters with
	// sql.Named.
	Named Dialect = namedDialect{}
)

type sqliteDialect struct{}

func (sqliteDialect) Name() string                { return "sqlite" }
func (sqliteDialect) Placeholder(int) string      { return "?" }
func (sqliteDialect) Param(_ int, v any) any      { return v }
func (sqliteDialect) QuoteString(s string) string { return quoteString(s) }
func (sqliteDialect) Bytes(b []byte) string       { return hexBlob(b) }
func (sqliteDialect) Concat(l, r string) string   { return concatOperator(l, r) }

func (sqliteDialect) Bool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

type postgresDialect struct{}

func (postgresDialect) Name() string { return "postgres" }

func (postgresDialect) Placeholder(n int) string {
	return "$" + strconv.Itoa(n+1)
}

func (postgresDialect) Param(_ int, v any) any { return v }

// QuoteString uses the escape string syntax when s contains backslashes.
func (postgresDialect) QuoteString(s string) string {
	return strings.TrimSpace(pq.QuoteLiteral(s))
}

func (postgresDialect) Bool(b bool) string { return boolKeyword(b) }

func (postgresDialect) Concat(l, r string) string { return concatOperator(l, r) }

func (postgresDialect) Bytes(b []byte) string {
	return `'\x` + hex.EncodeToString(b) + `'`
}

type mysqlDialect struct{}

func (mysqlDialect) Name() string           { return "mysql" }
func (mysqlDialect) Placeholder(int) string { return "?" }
func (mysqlDialect) Param(_ int, v any) any { return v }
func (mysqlDialect) Bool(b bool) string     { return boolKeyword(b) }
func (mysqlDialect) Bytes(b []byte) string  { return hexBlob(b) }

func (mysqlDialect) Concat(l, r string) string {
	return "CONCAT(" + l + ", " + r + ")"
}

// QuoteString escapes backslashes before single quotes.
func (mysqlDialect) QuoteString(s string) string {
	if !strings.ContainsAny(s, `'\`) {
		return "'" + s + "'"
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "'", "''")
	return "'" + s + "'"
}

const namedPrefix = "sqlfluent_"

type namedDialect struct{}

func (namedDialect) Name() string                { return "named" }
func (namedDialect) QuoteString(s string) string { return quoteString(s) }
func (namedDialect) Bool(b bool) string          { return boolKeyword(b) }
func (namedDialect) Bytes(b []byte) string       { return hexBlob(b) }
func (namedDialect) Concat(l, r string) string   { return concatOperator(l, r) }

func (namedDialect) Placeholder(n int) string {
	return "@" + namedPrefix + strconv.Itoa(n)
}

func (namedDialect) Param(n int, v any) any {
	return sql.Named(namedPrefix+strconv.Itoa(n), v)
}

// quoteString quotes s in the standard SQL way, doubling single quotes.
func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func concatOperator(l, r string) string {
	return l + " " + ConcatOperator + " " + r
}

func boolKeyword(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

func hexBlob(b []byte) string {
	return "X'" + strings.ToUpper(hex.EncodeToString(b)) + "'"
}
