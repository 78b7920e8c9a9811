// Package persist layers typed JSON records over a byte-level types.Store.
// It owns the encoding of the three storefront records: the cart, the order
// history and the checkout handoff.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

// SaveJSON encodes v and stores it under key.
func SaveJSON(store types.Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := store.Put(key, data); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

// LoadJSON decodes the record under key into v. It reports found=false with
// a nil error when the key is absent. Undecodable data is wrapped with
// ErrCorruptRecord.
func LoadJSON(store types.Store, key string, v any) (bool, error) {
	data, err := store.Get(key)
	if errors.Is(err, types.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("loading %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("%w: %s: %v", types.ErrCorruptRecord, key, err)
	}
	return true, nil
}

// SaveCart writes the cart record.
func SaveCart(store types.Store, rec types.CartRecord) error {
	if rec.Items == nil {
		rec.Items = []types.CartLine{}
	}
	return SaveJSON(store, types.RecordCart, rec)
}

// LoadCart reads the cart record. A missing record yields an empty cart.
func LoadCart(store types.Store) (types.CartRecord, error) {
	var rec types.CartRecord
	if _, err := LoadJSON(store, types.RecordCart, &rec); err != nil {
		return types.CartRecord{}, err
	}
	return rec, nil
}

// AppendOrder adds an order to the history. The history is rewritten whole;
// callers serialize appends.
func AppendOrder(store types.Store, order types.OrderSnapshot) error {
	orders, err := LoadOrders(store)
	if err != nil {
		return err
	}
	orders = append(orders, order)
	return SaveJSON(store, types.RecordOrderHistory, orders)
}

// LoadOrders reads the order history, oldest first.
func LoadOrders(store types.Store) ([]types.OrderSnapshot, error) {
	var orders []types.OrderSnapshot
	if _, err := LoadJSON(store, types.RecordOrderHistory, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// SaveHandoff writes the checkout handoff record.
func SaveHandoff(store types.Store, h types.Handoff) error {
	if h.Items == nil {
		h.Items = []types.HandoffLine{}
	}
	return SaveJSON(store, types.RecordHandoff, h)
}

// LoadHandoff reads the checkout handoff record. found is false when no
// checkout is pending.
func LoadHandoff(store types.Store) (h types.Handoff, found bool, err error) {
	found, err = LoadJSON(store, types.RecordHandoff, &h)
	return h, found, err
}

// ClearHandoff removes the checkout handoff record.
func ClearHandoff(store types.Store) error {
	if err := store.Delete(types.RecordHandoff); err != nil {
		return fmt.Errorf("clearing %s: %w", types.RecordHandoff, err)
	}
	return nil
}
