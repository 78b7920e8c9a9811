package orders

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

func TestQuote(t *testing.T) {
	h := types.Handoff{
		Items: []types.HandoffLine{
			{ProductID: 1, Name: "Wireless Headphones", Price: decimal.RequireFromString("99.99"), Quantity: 1},
			{ProductID: 3, Name: "Coffee Mug", Price: decimal.RequireFromString("15.99"), Quantity: 2},
		},
	}
	q := Quote(h, types.DefaultCheckoutTaxRate, types.DefaultShipping)

	assert.Equal(t, "131.97", q.Subtotal.String())
	assert.Equal(t, "11.21745", q.Tax.String())
	assert.Equal(t, "9.99", q.Shipping.String())
	assert.Equal(t, "153.17745", q.Total.String())
	assert.Equal(t, "153.18", q.Total.StringFixed(2))
}

func TestQuote_Empty(t *testing.T) {
	q := Quote(types.Handoff{}, types.DefaultCheckoutTaxRate, types.DefaultShipping)
	assert.True(t, q.Total.IsZero())
	assert.True(t, q.Shipping.IsZero())
}
