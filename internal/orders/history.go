// Package orders implements the checkout flow: the order submission port,
// the simulated gateway that stands in for a payment backend, the checkout
// service that turns a cart into an order, and the local order history.
package orders

import (
	"sync"

	"github.com/mesh-intelligence/storefront/internal/persist"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

// History is the append-only order log kept in the orderHistory record.
type History struct {
	mu    sync.Mutex
	store types.Store
}

// NewHistory creates a History over store.
func NewHistory(store types.Store) *History {
	return &History{store: store}
}

// Append adds order to the end of the history.
func (h *History) Append(order types.OrderSnapshot) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return persist.AppendOrder(h.store, order)
}

// List returns every recorded order, oldest first.
func (h *History) List() ([]types.OrderSnapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return persist.LoadOrders(h.store)
}
