package query

import (
	"fmt"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

// SortKey selects the ordering applied by Engine.SortBy.
type SortKey string

// Sort keys.
const (
	SortDefault   SortKey = "default"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortName      SortKey = "name"
)

// SortKeys lists the accepted sort keys.
var SortKeys = []SortKey{SortDefault, SortPriceLow, SortPriceHigh, SortName}

// ParseSortKey validates s. The empty string means SortDefault.
func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return SortDefault, nil
	}
	k := SortKey(s)
	if slices.Contains(SortKeys, k) {
		return k, nil
	}
	return "", fmt.Errorf("unknown sort key %q (want one of %v)", s, SortKeys)
}

// sorter holds the name collator. collate.Collator is not safe for
// concurrent use; the engine lock serializes access.
type sorter struct {
	collator *collate.Collator
}

func newSorter() *sorter {
	return &sorter{collator: collate.New(language.English)}
}

func (s *sorter) sort(products []types.Product, key SortKey) {
	switch key {
	case SortPriceLow:
		slices.SortStableFunc(products, func(a, b types.Product) int {
			return a.Price.Cmp(b.Price)
		})
	case SortPriceHigh:
		slices.SortStableFunc(products, func(a, b types.Product) int {
			return b.Price.Cmp(a.Price)
		})
	case SortName:
		slices.SortStableFunc(products, func(a, b types.Product) int {
			return s.collator.CompareString(a.Name, b.Name)
		})
	}
}
