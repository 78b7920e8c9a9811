package cart

import (
	"fmt"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

// Add puts quantity units of productID in the cart. An existing line is
// incremented; otherwise a new line is appended. The product must resolve
// and the resulting line quantity must stay within the per-line maximum.
func (l *Ledger) Add(productID, quantity int) (types.Change, error) {
	if quantity < types.MinQuantity {
		return types.Change{}, fmt.Errorf("adding %d of product %d: %w", quantity, productID, types.ErrInvalidQuantity)
	}
	if _, ok := l.products.ProductByID(productID); !ok {
		return types.Change{}, fmt.Errorf("adding product %d: %w", productID, types.ErrProductNotFound)
	}
	return l.mutate(func() (types.Change, error) {
		if i := l.find(productID); i >= 0 {
			prev := l.lines[i].Quantity
			if prev+quantity > types.MaxQuantity {
				return types.Change{}, fmt.Errorf("adding %d to %d of product %d: %w", quantity, prev, productID, types.ErrQuantityLimit)
			}
			l.lines[i].Quantity = prev + quantity
			return types.Change{Kind: types.ChangeQuantityIncreased, ProductID: productID, Previous: prev, Quantity: prev + quantity}, nil
		}
		if quantity > types.MaxQuantity {
			return types.Change{}, fmt.Errorf("adding %d of product %d: %w", quantity, productID, types.ErrQuantityLimit)
		}
		l.lines = append(l.lines, types.CartLine{
			ProductID: productID,
			Quantity:  quantity,
			AddedAt:   l.now().UTC(),
		})
		return types.Change{Kind: types.ChangeLineAdded, ProductID: productID, Quantity: quantity}, nil
	})
}

// Remove deletes the line for productID.
func (l *Ledger) Remove(productID int) (types.Change, error) {
	return l.mutate(func() (types.Change, error) {
		return l.removeLocked(productID)
	})
}

func (l *Ledger) removeLocked(productID int) (types.Change, error) {
	i := l.find(productID)
	if i < 0 {
		return types.Change{}, fmt.Errorf("removing product %d: %w", productID, types.ErrLineNotFound)
	}
	prev := l.lines[i].Quantity
	l.lines = append(l.lines[:i], l.lines[i+1:]...)
	return types.Change{Kind: types.ChangeLineRemoved, ProductID: productID, Previous: prev}, nil
}

// UpdateQuantity sets the quantity of the line for productID. A quantity of
// zero or less removes the line; a quantity above the per-line maximum is
// rejected without changing anything.
func (l *Ledger) UpdateQuantity(productID, quantity int) (types.Change, error) {
	return l.mutate(func() (types.Change, error) {
		return l.updateLocked(productID, quantity)
	})
}

func (l *Ledger) updateLocked(productID, quantity int) (types.Change, error) {
	if quantity < types.MinQuantity {
		return l.removeLocked(productID)
	}
	if quantity > types.MaxQuantity {
		return types.Change{}, fmt.Errorf("setting product %d to %d: %w", productID, quantity, types.ErrQuantityLimit)
	}
	i := l.find(productID)
	if i < 0 {
		return types.Change{}, fmt.Errorf("updating product %d: %w", productID, types.ErrLineNotFound)
	}
	prev := l.lines[i].Quantity
	l.lines[i].Quantity = quantity

	kind := types.ChangeUnchanged
	switch {
	case quantity > prev:
		kind = types.ChangeQuantityIncreased
	case quantity < prev:
		kind = types.ChangeQuantityDecreased
	}
	return types.Change{Kind: kind, ProductID: productID, Previous: prev, Quantity: quantity}, nil
}

// Increase adds one unit to the line for productID.
func (l *Ledger) Increase(productID int) (types.Change, error) {
	return l.step(productID, 1)
}

// Decrease removes one unit from the line for productID, removing the line
// when it reaches zero.
func (l *Ledger) Decrease(productID int) (types.Change, error) {
	return l.step(productID, -1)
}

func (l *Ledger) step(productID, delta int) (types.Change, error) {
	return l.mutate(func() (types.Change, error) {
		i := l.find(productID)
		if i < 0 {
			return types.Change{}, fmt.Errorf("updating product %d: %w", productID, types.ErrLineNotFound)
		}
		return l.updateLocked(productID, l.lines[i].Quantity+delta)
	})
}

// Clear empties the cart.
func (l *Ledger) Clear() types.Change {
	change, _ := l.mutate(func() (types.Change, error) {
		l.lines = nil
		return types.Change{Kind: types.ChangeCleared}, nil
	})
	return change
}
