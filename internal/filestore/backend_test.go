// Tests for the file backend: lifecycle, atomic persistence, re-attach.
package filestore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

func testConfig(dir string) types.Config {
	cfg := types.DefaultConfig()
	cfg.Backend = types.BackendFile
	cfg.DataDir = dir
	return cfg
}

func TestBackend_AttachCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	b := NewBackend()
	require.NoError(t, b.Attach(testConfig(dir)))
	defer b.Detach()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	assert.ErrorIs(t, b.Attach(testConfig(dir)), types.ErrAlreadyAttached)
}

func TestBackend_Detach(t *testing.T) {
	b := NewBackend()
	require.NoError(t, b.Attach(testConfig(t.TempDir())))

	require.NoError(t, b.Detach())
	require.NoError(t, b.Detach(), "second Detach should not error")

	_, err := b.Get(types.RecordCart)
	assert.ErrorIs(t, err, types.ErrStoreDetached)
	_, err = b.Keys()
	assert.ErrorIs(t, err, types.ErrStoreDetached)
}

func TestBackend_RecordWrittenAsFile(t *testing.T) {
	dir := t.TempDir()
	b := NewBackend()
	require.NoError(t, b.Attach(testConfig(dir)))
	defer b.Detach()

	require.NoError(t, b.Put(types.RecordCart, []byte(`{"items":[]}`)))

	data, err := os.ReadFile(filepath.Join(dir, "shoppingCart.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, string(data))

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestBackend_SurvivesReattach(t *testing.T) {
	dir := t.TempDir()

	b := NewBackend()
	require.NoError(t, b.Attach(testConfig(dir)))
	require.NoError(t, b.Put(types.RecordOrderHistory, []byte(`[]`)))
	require.NoError(t, b.Detach())

	b2 := NewBackend()
	require.NoError(t, b2.Attach(testConfig(dir)))
	defer b2.Detach()

	got, err := b2.Get(types.RecordOrderHistory)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}

func TestBackend_GetMissingAndDelete(t *testing.T) {
	b := NewBackend()
	require.NoError(t, b.Attach(testConfig(t.TempDir())))
	defer b.Detach()

	_, err := b.Get(types.RecordHandoff)
	assert.ErrorIs(t, err, types.ErrNotFound)

	require.NoError(t, b.Put(types.RecordHandoff, []byte(`{}`)))
	require.NoError(t, b.Delete(types.RecordHandoff))
	require.NoError(t, b.Delete(types.RecordHandoff), "deleting an absent key succeeds")

	_, err = b.Get(types.RecordHandoff)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestBackend_Keys(t *testing.T) {
	dir := t.TempDir()
	b := NewBackend()
	require.NoError(t, b.Attach(testConfig(dir)))
	defer b.Detach()

	require.NoError(t, b.Put(types.RecordCart, []byte(`{}`)))
	require.NoError(t, b.Put(types.RecordHandoff, []byte(`{}`)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0o755))

	keys, err := b.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{types.RecordHandoff, types.RecordCart}, keys)
}

func TestBackend_InvalidKeys(t *testing.T) {
	b := NewBackend()
	require.NoError(t, b.Attach(testConfig(t.TempDir())))
	defer b.Detach()

	for _, key := range []string{"", ".hidden", "../escape", `a\b`} {
		t.Run(key, func(t *testing.T) {
			assert.ErrorIs(t, b.Put(key, []byte("x")), types.ErrInvalidKey)
		})
	}
}
