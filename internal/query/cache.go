package query

import "github.com/mesh-intelligence/storefront/pkg/types"

// resultCache is a bounded map from normalized search term to result list.
// When full, the oldest-inserted entry is evicted (FIFO). Lookups do not
// refresh an entry's position.
type resultCache struct {
	capacity int
	entries  map[string][]types.Product
	order    []string
}

func newResultCache(capacity int) *resultCache {
	return &resultCache{
		capacity: capacity,
		entries:  make(map[string][]types.Product, capacity),
	}
}

func (c *resultCache) get(term string) ([]types.Product, bool) {
	v, ok := c.entries[term]
	return v, ok
}

// put stores a private copy of results under term.
func (c *resultCache) put(term string, results []types.Product) {
	if c.capacity <= 0 {
		return
	}
	if _, ok := c.entries[term]; ok {
		c.entries[term] = clone(results)
		return
	}
	for len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[term] = clone(results)
	c.order = append(c.order, term)
}

func (c *resultCache) len() int {
	return len(c.entries)
}

func (c *resultCache) has(term string) bool {
	_, ok := c.entries[term]
	return ok
}

func clone(products []types.Product) []types.Product {
	out := make([]types.Product, len(products))
	copy(out, products)
	return out
}
