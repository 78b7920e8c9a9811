package cart

import (
	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

// totalsCache is a single slot holding the last computed totals. It is reused
// only while valid and only for the same tax parameters.
type totalsCache struct {
	valid bool
	value types.CartTotals
}

func (c *totalsCache) lookup(includeTax bool, taxRate decimal.Decimal) (types.CartTotals, bool) {
	if !c.valid || c.value.IncludeTax != includeTax || !c.value.TaxRate.Equal(taxRate) {
		return types.CartTotals{}, false
	}
	return c.value, true
}

func (c *totalsCache) store(t types.CartTotals) {
	c.value = t
	c.valid = true
}

func (c *totalsCache) invalidate() {
	c.valid = false
}

// Totals returns the cart totals for the given tax parameters. Tax is zero
// unless includeTax is set, and Total is always Subtotal + Tax.
func (l *Ledger) Totals(includeTax bool, taxRate decimal.Decimal) types.CartTotals {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalsLocked(includeTax, taxRate)
}

func (l *Ledger) totalsLocked(includeTax bool, taxRate decimal.Decimal) types.CartTotals {
	if t, ok := l.totals.lookup(includeTax, taxRate); ok {
		return t
	}
	t := l.computeTotals(includeTax, taxRate)
	l.totals.store(t)
	return t
}

// DefaultTotals returns Totals with the ledger's configured tax parameters.
func (l *Ledger) DefaultTotals() types.CartTotals {
	return l.Totals(l.includeTax, l.taxRate)
}

func (l *Ledger) computeTotals(includeTax bool, taxRate decimal.Decimal) types.CartTotals {
	subtotal := l.subtotalLocked()
	tax := decimal.Zero
	if includeTax {
		tax = subtotal.Mul(taxRate)
	}
	return types.CartTotals{
		Subtotal:   subtotal,
		Tax:        tax,
		Total:      subtotal.Add(tax),
		TaxRate:    taxRate,
		ItemCount:  l.itemCountLocked(),
		IncludeTax: includeTax,
	}
}

// Subtotal is always computed from the current lines.
func (l *Ledger) Subtotal() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.subtotalLocked()
}

func (l *Ledger) subtotalLocked() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range l.lines {
		sum = sum.Add(l.lineSubtotal(line))
	}
	return sum
}

func (l *Ledger) lineSubtotal(line types.CartLine) decimal.Decimal {
	p, ok := l.products.ProductByID(line.ProductID)
	if !ok {
		return decimal.Zero
	}
	return p.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
}

// ItemCount is the total number of units across all lines.
func (l *Ledger) ItemCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.itemCountLocked()
}

func (l *Ledger) itemCountLocked() int {
	n := 0
	for _, line := range l.lines {
		n += line.Quantity
	}
	return n
}

// LineSubtotal returns price times quantity for the line of productID, or
// zero when there is no such line.
func (l *Ledger) LineSubtotal(productID int) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i := l.find(productID); i >= 0 {
		return l.lineSubtotal(l.lines[i])
	}
	return decimal.Zero
}
