package orders

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

// OrderRequest is what the checkout service submits.
type OrderRequest struct {
	Customer types.Customer
	Items    []types.OrderLine
	Totals   types.CartTotals
}

// Receipt confirms an accepted order.
type Receipt struct {
	OrderNumber string
	AcceptedAt  time.Time
}

// Submitter sends an order to whatever processes it. Implementations return
// types.ErrTransientFailure when the caller may retry, and the context error
// when ctx ends first.
type Submitter interface {
	Submit(ctx context.Context, req OrderRequest) (Receipt, error)
}

const (
	orderNumberLen      = 9
	orderNumberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// SimulatedGateway is a Submitter that waits a random delay and then fails
// with probability FailureRate. No order leaves the process.
type SimulatedGateway struct {
	FailureRate float64
	MinDelay    time.Duration
	MaxDelay    time.Duration

	mu    sync.Mutex
	rng   *rand.Rand
	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// GatewayOption configures a SimulatedGateway.
type GatewayOption func(*SimulatedGateway)

// WithRand replaces the random source, for deterministic tests.
func WithRand(r *rand.Rand) GatewayOption {
	return func(g *SimulatedGateway) { g.rng = r }
}

// WithSleep replaces the delay function.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) GatewayOption {
	return func(g *SimulatedGateway) { g.sleep = fn }
}

// NewSimulatedGateway creates a gateway with the failure rate and delay range
// from cfg.
func NewSimulatedGateway(cfg types.CheckoutConfig, opts ...GatewayOption) *SimulatedGateway {
	g := &SimulatedGateway{
		FailureRate: cfg.FailureRate,
		MinDelay:    cfg.MinDelay,
		MaxDelay:    cfg.MaxDelay,
		rng:         rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5f3759df)),
		sleep:       sleepContext,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Submit waits, then accepts or rejects the order.
func (g *SimulatedGateway) Submit(ctx context.Context, req OrderRequest) (Receipt, error) {
	delay, fail, number := g.draw()
	if err := g.sleep(ctx, delay); err != nil {
		return Receipt{}, err
	}
	if fail {
		return Receipt{}, types.ErrTransientFailure
	}
	return Receipt{OrderNumber: number, AcceptedAt: g.now().UTC()}, nil
}

// draw takes every random value Submit needs in one locked step.
func (g *SimulatedGateway) draw() (time.Duration, bool, string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delay := g.MinDelay
	if span := g.MaxDelay - g.MinDelay; span > 0 {
		delay += time.Duration(g.rng.Int64N(int64(span) + 1))
	}
	fail := g.rng.Float64() < g.FailureRate

	var b strings.Builder
	b.Grow(orderNumberLen)
	for range orderNumberLen {
		b.WriteByte(orderNumberAlphabet[g.rng.IntN(len(orderNumberAlphabet))])
	}
	return delay, fail, b.String()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
