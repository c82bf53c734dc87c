// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package gormclause hands rendered sqlfluent expressions to gorm.
//
// Expressions are rendered with ? placeholders, which gorm substitutes with
// its own dialect's bind variables. The SQL text is never rewritten here.
package gormclause

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/canonical/sqlfluent"
)

// Expr renders e and returns it as a gorm clause expression. Constants are
// written in the SQLite dialect unless opts select another dialect with ?
// placeholders, such as sqlfluent.MySQL.
//
// gorm binds every ? in the SQL to the next argument, even inside a string
// literal. Expr fails if the number of ? differs from the number of
// arguments, e.g. when a constant holds a ?. Pass such values with Var.
func Expr(e sqlfluent.Operand, opts ...sqlfluent.RenderOption) (clause.Expr, error) {
	opts = append([]sqlfluent.RenderOption{sqlfluent.WithDialect(sqlfluent.SQLite)}, opts...)
	stmt, err := sqlfluent.Render(e, opts...)
	if err != nil {
		return clause.Expr{}, err
	}
	sql, args := stmt.SQL(), stmt.Args()
	if n := strings.Count(sql, "?"); n != len(args) {
		return clause.Expr{}, fmt.Errorf("%w: %d question marks for %d arguments in %q", sqlfluent.ErrInvalidExpression, n, len(args), sql)
	}
	return clause.Expr{SQL: sql, Vars: args}, nil
}

// Where adds the predicate to the WHERE clause of db. A predicate that fails
// to render is recorded on the returned *gorm.DB with AddError.
func Where(db *gorm.DB, predicate sqlfluent.Expression[bool], opts ...sqlfluent.RenderOption) *gorm.DB {
	e, err := Expr(predicate, opts...)
	if err != nil {
		db = db.Session(&gorm.Session{})
		_ = db.AddError(err)
		return db
	}
	return db.Where(e)
}
