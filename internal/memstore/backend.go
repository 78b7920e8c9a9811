// Package memstore implements a process-local storage backend. It keeps
// records in a map and loses them when the process exits. Used by tests and
// by ephemeral CLI sessions.
package memstore

import (
	"sort"
	"sync"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

var _ types.Store = (*Backend)(nil)

// Backend implements types.Store in memory.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	records  map[string][]byte
}

// NewBackend creates a new in-memory backend. Call Attach before use.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach initializes an empty record map. Config is validated but otherwise
// unused.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}
	b.records = make(map[string][]byte)
	b.attached = true
	return nil
}

// Detach drops all records. Idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.attached = false
	b.records = nil
	return nil
}

// Get returns a copy of the value stored under key.
func (b *Backend) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, types.ErrInvalidKey
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	v, ok := b.records[key]
	if !ok {
		return nil, types.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Put stores a copy of value under key.
func (b *Backend) Put(key string, value []byte) error {
	if key == "" {
		return types.ErrInvalidKey
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	b.records[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes key.
func (b *Backend) Delete(key string) error {
	if key == "" {
		return types.ErrInvalidKey
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	delete(b.records, key)
	return nil
}

// Keys returns the stored keys in ascending order.
func (b *Backend) Keys() ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	keys := make([]string, 0, len(b.records))
	for k := range b.records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
