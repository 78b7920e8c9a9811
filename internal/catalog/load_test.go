package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

func writeCatalog(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeCatalog(t,
		`{"id":1,"name":"Lamp","price":45.99,"description":"LED lamp","image":"💡","category":"home"}`,
		``,
		`{"id":2,"name":"Mug","price":"15.99","category":"home"}`,
		`{not json`,
		`{"id":3,"name":"Negative","price":-1,"category":"home"}`,
		`{"id":4,"name":"No category","price":1}`,
		`{"id":5,"name":"Reserved","price":1,"category":"all"}`,
		`{"id":6,"name":"","price":1,"category":"home"}`,
		`{"id":7,"name":"Pen","price":"1.50","category":"office"}`,
	)

	s, err := LoadFile(path, nil)
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())

	all := s.All()
	assert.Equal(t, []int{1, 2, 7}, []int{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, "45.99", all[0].Price.StringFixed(2))
	assert.Equal(t, "💡", all[0].ImageGlyph)
	assert.Equal(t, "15.99", all[1].Price.StringFixed(2))
	assert.Equal(t, "1.50", all[2].Price.StringFixed(2))
}

func TestLoadFile_DuplicateID(t *testing.T) {
	path := writeCatalog(t,
		`{"id":1,"name":"A","price":1,"category":"x"}`,
		`{"id":1,"name":"B","price":2,"category":"x"}`,
	)
	_, err := LoadFile(path, nil)
	assert.ErrorIs(t, err, types.ErrDuplicateProduct)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.jsonl"), nil)
	assert.Error(t, err)
}

func TestDecodeProduct_InvalidIsTagged(t *testing.T) {
	_, err := decodeProduct([]byte(`{"id":"x"}`))
	assert.ErrorIs(t, err, types.ErrInvalidProduct)
}
