// Package cart implements the cart ledger: the line items a shopper has
// chosen, their derived totals and the synchronization of both with the
// durable store.
//
// Every mutation runs under the ledger lock, invalidates the totals cache and
// saves the cart record before it returns. Listeners are notified after the
// lock is released, so a listener may call back into the ledger.
package cart

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/storefront/internal/metrics"
	"github.com/mesh-intelligence/storefront/internal/persist"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

// Ledger holds the cart lines. It is safe for concurrent use.
type Ledger struct {
	mu        sync.Mutex
	lines     []types.CartLine
	products  types.ProductLookup
	store     types.Store
	totals    totalsCache
	listeners []types.Listener

	taxRate    decimal.Decimal
	includeTax bool

	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the ledger logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(c *Ledger) { c.logger = l }
}

// WithMetrics counts mutations and save failures on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Ledger) { c.metrics = m }
}

// WithClock replaces time.Now for AddedAt and LastUpdated stamps.
func WithClock(now func() time.Time) Option {
	return func(c *Ledger) { c.now = now }
}

// WithListener registers l before the cart is restored.
func WithListener(l types.Listener) Option {
	return func(c *Ledger) { c.listeners = append(c.listeners, l) }
}

// WithPricing sets the tax parameters DefaultTotals uses.
func WithPricing(p types.PricingConfig) Option {
	return func(c *Ledger) {
		c.taxRate = p.TaxRate
		c.includeTax = p.IncludeTax
	}
}

// New creates a ledger and restores the saved cart from store. A missing
// record gives an empty cart; an unreadable or corrupt one is logged and
// also gives an empty cart. Restored lines are dropped when their product no
// longer resolves, when they repeat an earlier product or when their quantity
// is not positive. Quantities above the per-line maximum are clamped.
func New(products types.ProductLookup, store types.Store, opts ...Option) *Ledger {
	l := &Ledger{
		products: products,
		store:    store,
		taxRate:  types.DefaultTaxRate,
		logger:   slog.New(slog.DiscardHandler),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.restore()
	return l
}

func (l *Ledger) restore() {
	rec, err := persist.LoadCart(l.store)
	if err != nil {
		l.logger.Error("restoring cart, starting empty", "error", err)
		return
	}
	seen := make(map[int]bool, len(rec.Items))
	for _, line := range rec.Items {
		switch {
		case seen[line.ProductID]:
			l.logger.Warn("dropping duplicate cart line", "product_id", line.ProductID)
			continue
		case line.Quantity < types.MinQuantity:
			l.logger.Warn("dropping cart line with invalid quantity", "product_id", line.ProductID, "quantity", line.Quantity)
			continue
		}
		if _, ok := l.products.ProductByID(line.ProductID); !ok {
			l.logger.Warn("dropping cart line for unknown product", "product_id", line.ProductID)
			continue
		}
		if line.Quantity > types.MaxQuantity {
			line.Quantity = types.MaxQuantity
		}
		seen[line.ProductID] = true
		l.lines = append(l.lines, line)
	}
}

// Subscribe registers a listener called after every mutation.
func (l *Ledger) Subscribe(fn types.Listener) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, fn)
}

// find returns the index of the line for productID, or -1.
func (l *Ledger) find(productID int) int {
	return slices.IndexFunc(l.lines, func(line types.CartLine) bool {
		return line.ProductID == productID
	})
}

// commit finishes a mutation made under the lock: it invalidates the totals
// cache, saves the cart and counts the change. The save error is returned
// for the event, not as a failure of the mutation.
func (l *Ledger) commit(change types.Change) types.Event {
	l.totals.invalidate()
	l.metrics.CartMutation(string(change.Kind))

	err := persist.SaveCart(l.store, types.CartRecord{
		Items:       slices.Clone(l.lines),
		LastUpdated: l.now().UTC(),
	})
	if err != nil {
		l.logger.Error("saving cart", "error", err, "change", change.Kind)
		l.metrics.PersistFailure(types.RecordCart)
	}
	return types.Event{Change: change, SaveErr: err}
}

// notify delivers ev to the listeners. Called without the lock held.
func (l *Ledger) notify(ev types.Event, listeners []types.Listener) {
	for _, fn := range listeners {
		fn(ev)
	}
}

// mutate runs op under the lock and, when it succeeds, commits and notifies.
func (l *Ledger) mutate(op func() (types.Change, error)) (types.Change, error) {
	l.mu.Lock()
	change, err := op()
	if err != nil {
		l.mu.Unlock()
		return types.Change{}, err
	}
	ev := l.commit(change)
	listeners := slices.Clone(l.listeners)
	l.mu.Unlock()

	l.notify(ev, listeners)
	return change, nil
}
