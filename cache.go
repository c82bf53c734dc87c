package sqlfluent

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/canonical/sqlfluent/internal/expr"
)

// MeterName is the instrumentation scope of the cache metrics.
const MeterName = "github.com/canonical/sqlfluent"

// Cache memoizes rendered statements. Expressions are looked up by
// structure, so two separately built but equal expressions share an entry.
//
// When the cache reaches its capacity every entry is dropped, which suits a
// small set of query shapes built over and over.
//
// The mutex must be held when accessing entries or size. A Cache is safe for
// concurrent use.
type Cache struct {
	cfg *renderConfig

	entries map[uint64][]cacheEntry
	size    int
	mutex   sync.RWMutex

	hits, misses atomic.Int64
	metrics      cacheMetrics
}

type cacheEntry struct {
	node expr.Node
	stmt *Statement
}

// NewCache returns an empty cache rendering with the given options.
func NewCache(opts ...RenderOption) *Cache {
	cfg := newRenderConfig(opts)
	return &Cache{
		cfg:     cfg,
		entries: make(map[uint64][]cacheEntry),
		metrics: newCacheMetrics(cfg.meterProvider, cfg.dialect.Name()),
	}
}

// Render returns the statement for e, rendering it on the first request.
func (c *Cache) Render(e Operand) (*Statement, error) {
	if e == nil {
		return Render(e)
	}
	n, err := e.exprNode()
	if err != nil {
		return nil, err
	}
	key := n.Hash()

	c.mutex.RLock()
	stmt, ok := c.lookup(key, n)
	c.mutex.RUnlock()
	if ok {
		c.hits.Add(1)
		c.metrics.hit()
		return stmt, nil
	}

	c.misses.Add(1)
	c.metrics.miss()
	re, err := expr.Render(c.cfg.dialect, n)
	if err != nil {
		return nil, err
	}
	stmt = &Statement{sql: re.SQL(), args: re.Params()}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	// Another goroutine may have stored the statement since we last looked.
	if cached, ok := c.lookup(key, n); ok {
		return cached, nil
	}
	if c.size >= c.cfg.capacity {
		c.cfg.logger.Debug("sqlfluent: render cache full, dropping entries",
			slog.Int("entries", c.size),
			slog.String("dialect", c.cfg.dialect.Name()))
		c.entries = make(map[uint64][]cacheEntry)
		c.size = 0
	}
	c.entries[key] = append(c.entries[key], cacheEntry{node: n, stmt: stmt})
	c.size++
	return stmt, nil
}

// lookup finds the statement for n. The mutex must be held.
func (c *Cache) lookup(key uint64, n expr.Node) (*Statement, bool) {
	for _, entry := range c.entries[key] {
		if entry.node.Equal(n) {
			return entry.stmt, true
		}
	}
	return nil, false
}

// Len returns the number of cached statements.
func (c *Cache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.size
}

// CacheStats counts cache lookups.
type CacheStats struct {
	Hits   int64
	Misses int64
}

// Stats returns the number of hits and misses since the cache was created.
func (c *Cache) Stats() CacheStats {
	return CacheStats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// cacheMetrics reports cache lookups to OpenTelemetry.
type cacheMetrics struct {
	hits   metric.Int64Counter
	misses metric.Int64Counter
	attrs  metric.MeasurementOption
}

func newCacheMetrics(mp metric.MeterProvider, dialect string) cacheMetrics {
	meter := mp.Meter(MeterName)
	m := cacheMetrics{
		attrs: metric.WithAttributes(attribute.String("sqlfluent.dialect", dialect)),
	}

	// Instrument creation only fails on invalid names, fall back to the
	// bare instrument rather than giving up on metrics.
	var err error
	m.hits, err = meter.Int64Counter(
		"sqlfluent.cache.hits",
		metric.WithDescription("Number of statements served from the render cache"),
		metric.WithUnit("{statement}"),
	)
	if err != nil {
		m.hits, _ = meter.Int64Counter("sqlfluent.cache.hits")
	}

	m.misses, err = meter.Int64Counter(
		"sqlfluent.cache.misses",
		metric.WithDescription("Number of statements rendered on a cache miss"),
		metric.WithUnit("{statement}"),
	)
	if err != nil {
		m.misses, _ = meter.Int64Counter("sqlfluent.cache.misses")
	}
	return m
}

func (m cacheMetrics) hit() {
	if m.hits != nil {
		m.hits.Add(context.Background(), 1, m.attrs)
	}
}

func (m cacheMetrics) miss() {
	if m.misses != nil {
		m.misses.Add(context.Background(), 1, m.attrs)
	}
}
