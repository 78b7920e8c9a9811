package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/storefront/internal/cart"
	"github.com/mesh-intelligence/storefront/internal/metrics"
	"github.com/mesh-intelligence/storefront/internal/persist"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

// Result is the outcome delivered by PlaceAsync.
type Result struct {
	Order types.OrderSnapshot
	Err   error
}

// Checkout turns the current cart into an order.
type Checkout struct {
	ledger    *cart.Ledger
	products  types.ProductLookup
	history   *History
	submitter Submitter
	store     types.Store

	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// CheckoutOption configures a Checkout.
type CheckoutOption func(*Checkout)

// WithLogger sets the checkout logger.
func WithLogger(l *slog.Logger) CheckoutOption {
	return func(c *Checkout) { c.logger = l }
}

// WithMetrics counts order outcomes on m.
func WithMetrics(m *metrics.Metrics) CheckoutOption {
	return func(c *Checkout) { c.metrics = m }
}

// WithClock replaces time.Now for order timestamps.
func WithClock(now func() time.Time) CheckoutOption {
	return func(c *Checkout) { c.now = now }
}

// NewCheckout wires the checkout service. store is where the handoff record
// lives; it is removed after a successful order.
func NewCheckout(ledger *cart.Ledger, products types.ProductLookup, history *History, submitter Submitter, store types.Store, opts ...CheckoutOption) *Checkout {
	c := &Checkout{
		ledger:    ledger,
		products:  products,
		history:   history,
		submitter: submitter,
		store:     store,
		logger:    slog.New(slog.DiscardHandler),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Place submits the cart as an order for customer. On success the order is
// recorded in the history, the cart is cleared and the handoff record is
// removed. On failure the cart is left untouched so the caller can retry.
func (c *Checkout) Place(ctx context.Context, customer types.Customer) (types.OrderSnapshot, error) {
	req, err := c.request(customer)
	if err != nil {
		return types.OrderSnapshot{}, err
	}

	receipt, err := c.submitter.Submit(ctx, req)
	if err != nil {
		outcome := metrics.OutcomeFailure
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			outcome = metrics.OutcomeCanceled
		}
		c.metrics.Order(outcome)
		c.logger.Warn("order submission failed", "error", err)
		return types.OrderSnapshot{}, fmt.Errorf("placing order: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return types.OrderSnapshot{}, fmt.Errorf("generating order id: %w", err)
	}
	order := types.OrderSnapshot{
		OrderID:     id.String(),
		OrderNumber: receipt.OrderNumber,
		Customer:    customer,
		Items:       req.Items,
		Totals:      req.Totals,
		Timestamp:   c.now().UTC(),
	}

	if err := c.history.Append(order); err != nil {
		c.logger.Error("recording order", "order_number", order.OrderNumber, "error", err)
		c.metrics.PersistFailure(types.RecordOrderHistory)
	}
	c.ledger.Clear()
	if err := persist.ClearHandoff(c.store); err != nil {
		c.logger.Error("clearing checkout handoff", "error", err)
		c.metrics.PersistFailure(types.RecordHandoff)
	}
	c.metrics.Order(metrics.OutcomeSuccess)
	c.logger.Info("order placed", "order_number", order.OrderNumber, "total", order.Totals.Total.StringFixed(2))
	return order, nil
}

// PlaceAsync runs Place in the background. The channel receives exactly one
// Result and is then closed.
func (c *Checkout) PlaceAsync(ctx context.Context, customer types.Customer) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		order, err := c.Place(ctx, customer)
		out <- Result{Order: order, Err: err}
	}()
	return out
}

// request snapshots the cart lines and totals.
func (c *Checkout) request(customer types.Customer) (OrderRequest, error) {
	lines, totals := c.ledger.Snapshot()
	if len(lines) == 0 {
		return OrderRequest{}, types.ErrEmptyCart
	}
	items := make([]types.OrderLine, 0, len(lines))
	for _, line := range lines {
		p, ok := c.products.ProductByID(line.ProductID)
		if !ok {
			continue
		}
		items = append(items, types.OrderLine{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  line.Quantity,
			LineTotal: p.Price.Mul(decimal.NewFromInt(int64(line.Quantity))),
		})
	}
	return OrderRequest{
		Customer: customer,
		Items:    items,
		Totals:   totals,
	}, nil
}
