package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		wantErr error
	}{
		{"file", types.BackendFile, nil},
		{"sqlite", types.BackendSQLite, nil},
		{"badger", types.BackendBadger, nil},
		{"redis", types.BackendRedis, nil},
		{"memory", types.BackendMemory, nil},
		{"empty", "", types.ErrBackendEmpty},
		{"unknown", "postgres", types.ErrBackendUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := New(tt.backend, nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, store)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, store)
		})
	}
}

func TestOpen_AttachesDurableBackends(t *testing.T) {
	for _, name := range []string{types.BackendFile, types.BackendSQLite, types.BackendBadger} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			cfg := types.DefaultConfig()
			cfg.Backend = name
			cfg.DataDir = dir

			store, err := Open(cfg, nil)
			require.NoError(t, err)
			require.NoError(t, store.Put(types.RecordCart, []byte(`{"items":[]}`)))
			require.NoError(t, store.Detach())

			reopened, err := Open(cfg, nil)
			require.NoError(t, err)
			defer reopened.Detach()

			got, err := reopened.Get(types.RecordCart)
			require.NoError(t, err)
			assert.Equal(t, `{"items":[]}`, string(got))
		})
	}
}

func TestOpen_MemoryIsNotDurable(t *testing.T) {
	cfg := types.DefaultConfig()
	cfg.Backend = types.BackendMemory

	store, err := Open(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, store.Put(types.RecordCart, []byte(`{}`)))
	require.NoError(t, store.Detach())

	reopened, err := Open(cfg, nil)
	require.NoError(t, err)
	defer reopened.Detach()
	_, err = reopened.Get(types.RecordCart)
	assert.ErrorIs(t, err, types.ErrNotFound)
}
