package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quantity bounds for a single cart line.
const (
	MinQuantity = 1
	MaxQuantity = 99
)

// DefaultTaxRate is the cart tax rate used when the caller does not supply one.
var DefaultTaxRate = decimal.RequireFromString("0.08")

// CartLine is one line item in the cart. A cart holds at most one line per
// ProductID.
type CartLine struct {
	ProductID int       `json:"productId"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
}

// CartTotals is derived from the cart lines and the tax parameters.
// Total is always Subtotal + Tax, and Tax is zero unless IncludeTax is set.
type CartTotals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	Total      decimal.Decimal `json:"total"`
	TaxRate    decimal.Decimal `json:"taxRate"`
	ItemCount  int             `json:"itemCount"`
	IncludeTax bool            `json:"includeTax"`
}

// CartRecord is the persisted form of the cart (record key RecordCart).
type CartRecord struct {
	Items       []CartLine `json:"items"`
	LastUpdated time.Time  `json:"lastUpdated"`
}

// CartSummary is a point-in-time view of the cart for checkout surfaces.
type CartSummary struct {
	Items      []CartLine      `json:"items"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Timestamp  time.Time       `json:"timestamp"`
}

// ChangeKind tells the rendering layer what a cart mutation did so it can
// give distinct feedback for each case.
type ChangeKind string

// Cart change kinds.
const (
	ChangeLineAdded         ChangeKind = "line_added"
	ChangeQuantityIncreased ChangeKind = "quantity_increased"
	ChangeQuantityDecreased ChangeKind = "quantity_decreased"
	ChangeUnchanged         ChangeKind = "unchanged"
	ChangeLineRemoved       ChangeKind = "line_removed"
	ChangeCleared           ChangeKind = "cleared"
)

// Change describes the outcome of a successful cart mutation.
type Change struct {
	Kind      ChangeKind `json:"kind"`
	ProductID int        `json:"productId,omitempty"`
	Previous  int        `json:"previous"`
	Quantity  int        `json:"quantity"`
}

// Event is delivered to listeners after every cart mutation. SaveErr is set
// when the cart could not be persisted; the in-memory state is still updated.
type Event struct {
	Change  Change
	SaveErr error
}

// Listener is the rendering hook the cart calls after each mutation.
type Listener func(Event)
