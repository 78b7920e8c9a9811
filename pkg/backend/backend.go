// Package backend provides the public factory for storage backends.
// It exposes the backend constructors while keeping implementations internal.
package backend

import (
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/storefront/internal/badgerstore"
	"github.com/mesh-intelligence/storefront/internal/filestore"
	"github.com/mesh-intelligence/storefront/internal/memstore"
	"github.com/mesh-intelligence/storefront/internal/redisstore"
	"github.com/mesh-intelligence/storefront/internal/sqlite"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

// New creates a detached backend by name. Call Attach with a Config to
// initialize it.
//
// Example:
//
//	store, err := backend.New(types.BackendSQLite, nil)
//	err = store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".storefront",
//	})
//	defer store.Detach()
func New(name string, logger *slog.Logger) (types.Store, error) {
	switch name {
	case types.BackendFile:
		return filestore.NewBackend(), nil
	case types.BackendSQLite:
		return sqlite.NewBackend(), nil
	case types.BackendBadger:
		return badgerstore.NewBackend(logger), nil
	case types.BackendRedis:
		return redisstore.NewBackend(), nil
	case types.BackendMemory:
		return memstore.NewBackend(), nil
	case "":
		return nil, types.ErrBackendEmpty
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrBackendUnknown, name)
	}
}

// Open creates the backend named by cfg.Backend and attaches it.
func Open(cfg types.Config, logger *slog.Logger) (types.Store, error) {
	store, err := New(cfg.Backend, logger)
	if err != nil {
		return nil, err
	}
	if err := store.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attaching %s backend: %w", cfg.Backend, err)
	}
	return store, nil
}
