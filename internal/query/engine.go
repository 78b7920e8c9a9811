// Package query implements product search, category filtering and sorting
// over the catalog. The engine keeps an active result set that successive
// operations refine and reorder, plus a bounded cache of search results.
package query

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/mesh-intelligence/storefront/internal/metrics"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

// DefaultCacheSize is the number of search terms the result cache holds.
const DefaultCacheSize = 50

// CacheStats reports result cache activity.
type CacheStats struct {
	Hits   int
	Misses int
	Size   int
}

// Engine answers search, filter and sort requests. It is safe for concurrent
// use; each operation runs to completion under the engine lock.
type Engine struct {
	mu      sync.Mutex
	catalog []types.Product
	index   map[int]string
	active  []types.Product
	cache   *resultCache
	sorter  *sorter
	hits    int
	misses  int
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithMetrics records cache hits and misses on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithCacheSize overrides DefaultCacheSize.
func WithCacheSize(n int) Option {
	return func(e *Engine) { e.cache = newResultCache(n) }
}

// NewEngine indexes products and makes the whole catalog the active set.
func NewEngine(products []types.Product, opts ...Option) *Engine {
	e := &Engine{
		catalog: clone(products),
		index:   make(map[int]string, len(products)),
		cache:   newResultCache(DefaultCacheSize),
		sorter:  newSorter(),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	for _, p := range e.catalog {
		e.index[p.ID] = indexEntry(p)
	}
	e.active = clone(e.catalog)
	return e
}

// indexEntry is the searchable text of a product.
func indexEntry(p types.Product) string {
	return strings.ToLower(p.Name) + " " + strings.ToLower(p.Description) + " " + strings.ToLower(p.Category)
}

// Search makes the products matching term the active set and returns them.
// The term is trimmed and lower-cased; a product matches when its index entry
// contains the term. An empty term selects the whole catalog.
func (e *Engine) Search(term string) []types.Product {
	e.mu.Lock()
	defer e.mu.Unlock()

	normalized := strings.ToLower(strings.TrimSpace(term))
	if normalized == "" {
		e.active = clone(e.catalog)
		return clone(e.active)
	}

	if cached, ok := e.cache.get(normalized); ok {
		e.hits++
		e.metrics.CacheHit()
		e.active = clone(cached)
		return clone(e.active)
	}

	e.misses++
	e.metrics.CacheMiss()
	var results []types.Product
	for _, p := range e.catalog {
		if strings.Contains(e.index[p.ID], normalized) {
			results = append(results, p)
		}
	}
	if results == nil {
		results = []types.Product{}
	}
	e.cache.put(normalized, results)
	e.active = results
	e.logger.Debug("search", "term", normalized, "results", len(results))
	return clone(e.active)
}

// FilterByCategory makes the products of category the active set. The
// category "all" selects the whole catalog. The result cache is not used.
func (e *Engine) FilterByCategory(category string) []types.Product {
	e.mu.Lock()
	defer e.mu.Unlock()

	if category == types.CategoryAll {
		e.active = clone(e.catalog)
		return clone(e.active)
	}
	results := []types.Product{}
	for _, p := range e.catalog {
		if p.Category == category {
			results = append(results, p)
		}
	}
	e.active = results
	return clone(e.active)
}

// SortBy reorders the active set in place and returns it. The sort is stable
// so equal keys keep their current relative order. SortDefault and unknown
// keys leave the order unchanged.
func (e *Engine) SortBy(key SortKey) []types.Product {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.sorter.sort(e.active, key)
	return clone(e.active)
}

// Results returns the active set.
func (e *Engine) Results() []types.Product {
	e.mu.Lock()
	defer e.mu.Unlock()
	return clone(e.active)
}

// Categories returns "all" followed by each distinct category in order of
// first appearance in the catalog.
func (e *Engine) Categories() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := []string{types.CategoryAll}
	seen := map[string]bool{}
	for _, p := range e.catalog {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

// CacheStats reports cache hits, misses and current size.
func (e *Engine) CacheStats() CacheStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return CacheStats{Hits: e.hits, Misses: e.misses, Size: e.cache.len()}
}
