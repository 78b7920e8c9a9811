package types

// Store is the durable key-value contract every storage backend implements.
// Values are opaque bytes; the persist package layers JSON records on top.
// Callers attach to a backend, read and write keys, and detach when done.
type Store interface {
	// Attach connects the store to the backend described by config.
	// Returns ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, operations return ErrStoreDetached.
	Detach() error

	// Get returns the value stored under key.
	// Returns ErrNotFound if the key is absent.
	Get(key string) ([]byte, error)

	// Put stores value under key, replacing any previous value.
	Put(key string, value []byte) error

	// Delete removes key. Deleting an absent key succeeds.
	Delete(key string) error

	// Keys returns all stored keys in ascending order.
	Keys() ([]string, error)
}
