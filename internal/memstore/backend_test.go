package memstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

func attached(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend()
	cfg := types.DefaultConfig()
	cfg.Backend = types.BackendMemory
	require.NoError(t, b.Attach(cfg))
	t.Cleanup(func() { b.Detach() })
	return b
}

func TestBackend_Lifecycle(t *testing.T) {
	b := NewBackend()
	cfg := types.DefaultConfig()
	cfg.Backend = types.BackendMemory

	require.NoError(t, b.Attach(cfg))
	assert.ErrorIs(t, b.Attach(cfg), types.ErrAlreadyAttached)

	require.NoError(t, b.Detach())
	require.NoError(t, b.Detach(), "second Detach should not error")

	_, err := b.Get("k")
	assert.ErrorIs(t, err, types.ErrStoreDetached)
	assert.ErrorIs(t, b.Put("k", []byte("v")), types.ErrStoreDetached)
}

func TestBackend_PutGetDelete(t *testing.T) {
	b := attached(t)

	_, err := b.Get(types.RecordCart)
	assert.ErrorIs(t, err, types.ErrNotFound)

	require.NoError(t, b.Put(types.RecordCart, []byte(`{"items":[]}`)))
	got, err := b.Get(types.RecordCart)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, string(got))

	// Returned slices are copies.
	got[0] = 'x'
	again, err := b.Get(types.RecordCart)
	require.NoError(t, err)
	assert.Equal(t, byte('{'), again[0])

	require.NoError(t, b.Delete(types.RecordCart))
	require.NoError(t, b.Delete(types.RecordCart))
	_, err = b.Get(types.RecordCart)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestBackend_KeysSorted(t *testing.T) {
	b := attached(t)
	for _, k := range types.StandardRecordKeys {
		require.NoError(t, b.Put(k, []byte("1")))
	}
	keys, err := b.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{types.RecordHandoff, types.RecordOrderHistory, types.RecordCart}, keys)
}

func TestBackend_EmptyKey(t *testing.T) {
	b := attached(t)
	assert.ErrorIs(t, b.Put("", nil), types.ErrInvalidKey)
	_, err := b.Get("")
	assert.ErrorIs(t, err, types.ErrInvalidKey)
}
