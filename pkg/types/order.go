package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer holds the contact and shipping details captured at checkout.
// Values are stored as given.
type Customer struct {
	FirstName     string `json:"firstName" yaml:"first_name"`
	LastName      string `json:"lastName" yaml:"last_name"`
	Email         string `json:"email" yaml:"email"`
	Phone         string `json:"phone,omitempty" yaml:"phone"`
	Address       string `json:"address" yaml:"address"`
	City          string `json:"city" yaml:"city"`
	State         string `json:"state" yaml:"state"`
	ZipCode       string `json:"zipCode" yaml:"zip_code"`
	PaymentMethod string `json:"paymentMethod,omitempty" yaml:"payment_method"`
}

// OrderLine is a cart line frozen together with the product data it had at
// the moment the order was placed.
type OrderLine struct {
	ProductID int             `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// OrderSnapshot is one entry of the append-only order history
// (record key RecordOrderHistory).
type OrderSnapshot struct {
	OrderID     string      `json:"orderId"`
	OrderNumber string      `json:"orderNumber"`
	Customer    Customer    `json:"customer"`
	Items       []OrderLine `json:"items"`
	Totals      CartTotals  `json:"totals"`
	Timestamp   time.Time   `json:"timestamp"`
}

// HandoffLine is a cart line as passed to the checkout surface.
type HandoffLine struct {
	ProductID int             `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Handoff is the transient record the cart writes before checkout
// (record key RecordHandoff).
type Handoff struct {
	Items []HandoffLine   `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// CheckoutQuote is the order summary shown on the checkout surface, which
// adds shipping and applies its own tax rate.
type CheckoutQuote struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}
