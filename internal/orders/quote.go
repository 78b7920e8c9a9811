package orders

import (
	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

// Quote prices a checkout handoff: subtotal of the handed-off lines, tax at
// taxRate, plus a flat shipping charge. An empty handoff quotes zero.
func Quote(h types.Handoff, taxRate, shipping decimal.Decimal) types.CheckoutQuote {
	if len(h.Items) == 0 {
		return types.CheckoutQuote{
			Subtotal: decimal.Zero,
			Tax:      decimal.Zero,
			Shipping: decimal.Zero,
			Total:    decimal.Zero,
		}
	}
	subtotal := decimal.Zero
	for _, item := range h.Items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	tax := subtotal.Mul(taxRate)
	return types.CheckoutQuote{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Add(tax).Add(shipping),
	}
}
