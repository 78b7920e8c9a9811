package cart

import (
	"fmt"
	"slices"

	"github.com/mesh-intelligence/storefront/internal/persist"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

// Lines returns the cart lines in insertion order.
func (l *Ledger) Lines() []types.CartLine {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.lines)
}

// Line returns the line for productID.
func (l *Ledger) Line(productID int) (types.CartLine, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i := l.find(productID); i >= 0 {
		return l.lines[i], true
	}
	return types.CartLine{}, false
}

// IsEmpty reports whether the cart has no lines.
func (l *Ledger) IsEmpty() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lines) == 0
}

// Snapshot returns the lines and their default totals read under one lock,
// so the two always describe the same cart.
func (l *Ledger) Snapshot() ([]types.CartLine, types.CartTotals) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.lines), l.totalsLocked(l.includeTax, l.taxRate)
}

// Summary returns a point-in-time view of the cart priced with the default
// tax parameters.
func (l *Ledger) Summary() types.CartSummary {
	l.mu.Lock()
	defer l.mu.Unlock()

	totals := l.totalsLocked(l.includeTax, l.taxRate)
	return types.CartSummary{
		Items:      slices.Clone(l.lines),
		TotalItems: totals.ItemCount,
		TotalPrice: totals.Total,
		Timestamp:  l.now().UTC(),
	}
}

// Handoff builds the checkout handoff from the current lines without saving
// it. Total is the untaxed subtotal; checkout applies its own tax.
func (l *Ledger) Handoff() (types.Handoff, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.lines) == 0 {
		return types.Handoff{}, types.ErrEmptyCart
	}
	h := types.Handoff{Items: make([]types.HandoffLine, 0, len(l.lines))}
	for _, line := range l.lines {
		p, ok := l.products.ProductByID(line.ProductID)
		if !ok {
			continue
		}
		h.Items = append(h.Items, types.HandoffLine{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  line.Quantity,
		})
	}
	h.Total = l.subtotalLocked()
	return h, nil
}

// WriteHandoff saves the checkout handoff record and returns it.
func (l *Ledger) WriteHandoff() (types.Handoff, error) {
	h, err := l.Handoff()
	if err != nil {
		return types.Handoff{}, err
	}
	if err := persist.SaveHandoff(l.store, h); err != nil {
		l.metrics.PersistFailure(types.RecordHandoff)
		return types.Handoff{}, fmt.Errorf("writing checkout handoff: %w", err)
	}
	return h, nil
}
