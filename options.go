// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package sqlfluent

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/canonical/sqlfluent/internal/expr"
)

// Dialect decides how placeholders and literals are written.
type Dialect = expr.Dialect

var (
	// SQLite writes ? placeholders. Boolean constants are written as 1 and 0.
	// It is the default dialect.
	SQLite = expr.SQLite
	// Postgres writes $1, $2, ... placeholders.
	Postgres = expr.Postgres
	// MySQL writes ? placeholders and escapes backslashes in string
	// constants.
	MySQL = expr.MySQL
	// Named writes @sqlfluent_0, @sqlfluent_1, ... placeholders and passes
	// the parameters as sql.NamedArg values.
	Named = expr.Named
)

const defaultCacheCapacity = 512

// renderConfig holds the settings shared by [Render] and [Cache].
type renderConfig struct {
	dialect       Dialect
	logger        *slog.Logger
	meterProvider metric.MeterProvider
	capacity      int
}

// RenderOption configures rendering.
type RenderOption func(*renderConfig)

// WithDialect selects the dialect used for placeholders and literals.
func WithDialect(d Dialect) RenderOption {
	return func(c *renderConfig) {
		c.dialect = d
	}
}

// WithLogger sets the logger used by a [Cache].
func WithLogger(logger *slog.Logger) RenderOption {
	return func(c *renderConfig) {
		c.logger = logger
	}
}

// WithMeterProvider sets the meter provider a [Cache] reports hits and
// misses to. If nil, metrics are not collected.
func WithMeterProvider(mp metric.MeterProvider) RenderOption {
	return func(c *renderConfig) {
		c.meterProvider = mp
	}
}

// WithCapacity bounds the number of statements held by a [Cache].
func WithCapacity(n int) RenderOption {
	return func(c *renderConfig) {
		c.capacity = n
	}
}

func newRenderConfig(opts []RenderOption) *renderConfig {
	c := &renderConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.dialect == nil {
		c.dialect = SQLite
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.meterProvider == nil {
		c.meterProvider = noop.NewMeterProvider()
	}
	if c.capacity <= 0 {
		c.capacity = defaultCacheCapacity
	}
	return c
}
