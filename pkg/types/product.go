package types

import "github.com/shopspring/decimal"

// Product is a purchasable catalog item. Products are immutable once the
// catalog has been loaded.
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	ImageGlyph  string          `json:"image"`
	Category    string          `json:"category"`
}

// ProductLookup resolves product IDs. The second return value is false when
// no product has the given ID; callers treat that as "no such product".
type ProductLookup interface {
	ProductByID(id int) (Product, bool)
}

// CategoryAll is the sentinel category that selects the whole catalog.
const CategoryAll = "all"
