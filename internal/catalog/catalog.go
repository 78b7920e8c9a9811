// Package catalog holds the immutable product catalog and resolves product
// IDs for the cart and the query engine.
package catalog

import (
	"fmt"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

var _ types.ProductLookup = (*Store)(nil)

// Store is an immutable, ordered product list with an ID index. It is safe
// for concurrent reads.
type Store struct {
	products []types.Product
	byID     map[int]int
}

// New builds a Store from products, keeping their order. Duplicate IDs and
// negative prices are rejected.
func New(products []types.Product) (*Store, error) {
	s := &Store{
		products: make([]types.Product, 0, len(products)),
		byID:     make(map[int]int, len(products)),
	}
	for _, p := range products {
		if _, dup := s.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: %d", types.ErrDuplicateProduct, p.ID)
		}
		if p.Price.IsNegative() {
			return nil, fmt.Errorf("%w: product %d", types.ErrInvalidPrice, p.ID)
		}
		s.byID[p.ID] = len(s.products)
		s.products = append(s.products, p)
	}
	return s, nil
}

// All returns the products in catalog order. The slice is a copy.
func (s *Store) All() []types.Product {
	out := make([]types.Product, len(s.products))
	copy(out, s.products)
	return out
}

// ProductByID returns the product with the given ID.
func (s *Store) ProductByID(id int) (types.Product, bool) {
	i, ok := s.byID[id]
	if !ok {
		return types.Product{}, false
	}
	return s.products[i], true
}

// Len returns the number of products.
func (s *Store) Len() int {
	return len(s.products)
}
