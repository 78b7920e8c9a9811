// Package storefront assembles the storefront engine. An App owns one of each
// component (catalog, query engine, cart ledger, order history, checkout) and
// injects the shared store, logger and metrics into them.
package storefront

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/storefront/internal/cart"
	"github.com/mesh-intelligence/storefront/internal/catalog"
	"github.com/mesh-intelligence/storefront/internal/metrics"
	"github.com/mesh-intelligence/storefront/internal/orders"
	"github.com/mesh-intelligence/storefront/internal/persist"
	"github.com/mesh-intelligence/storefront/internal/query"
	"github.com/mesh-intelligence/storefront/pkg/backend"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

// Version is the storefront release version.
const Version = "0.1.0"

// App is one running storefront.
type App struct {
	Config   types.Config
	Store    types.Store
	Catalog  *catalog.Store
	Query    *query.Engine
	Cart     *cart.Ledger
	History  *orders.History
	Checkout *orders.Checkout
	Metrics  *metrics.Metrics

	logger *slog.Logger
}

type options struct {
	logger    *slog.Logger
	store     types.Store
	submitter orders.Submitter
	listeners []types.Listener
}

// Option configures Open.
type Option func(*options)

// WithLogger sets the logger shared by every component.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithStore uses an already attached store instead of opening
// cfg.Backend. The App does not detach it on Close.
func WithStore(s types.Store) Option {
	return func(o *options) { o.store = s }
}

// WithSubmitter replaces the simulated order gateway.
func WithSubmitter(s orders.Submitter) Option {
	return func(o *options) { o.submitter = s }
}

// WithCartListener registers a cart listener before the cart is restored.
func WithCartListener(l types.Listener) Option {
	return func(o *options) { o.listeners = append(o.listeners, l) }
}

// Open validates cfg, attaches the storage backend, loads the catalog and
// builds every component.
func Open(cfg types.Config, opts ...Option) (*App, error) {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cat := catalog.Default()
	if cfg.CatalogFile != "" {
		loaded, err := catalog.LoadFile(cfg.CatalogFile, o.logger)
		if err != nil {
			return nil, err
		}
		cat = loaded
	}

	store := o.store
	owned := false
	if store == nil {
		s, err := backend.Open(cfg, o.logger)
		if err != nil {
			return nil, err
		}
		store, owned = s, true
	}

	m := metrics.New()
	ledgerOpts := []cart.Option{
		cart.WithLogger(o.logger),
		cart.WithMetrics(m),
		cart.WithPricing(cfg.Pricing),
	}
	for _, l := range o.listeners {
		ledgerOpts = append(ledgerOpts, cart.WithListener(l))
	}
	ledger := cart.New(cat, store, ledgerOpts...)

	submitter := o.submitter
	if submitter == nil {
		submitter = orders.NewSimulatedGateway(cfg.Checkout)
	}
	history := orders.NewHistory(store)

	app := &App{
		Config:  cfg,
		Catalog: cat,
		Query:   query.NewEngine(cat.All(), query.WithMetrics(m), query.WithLogger(o.logger)),
		Cart:    ledger,
		History: history,
		Checkout: orders.NewCheckout(ledger, cat, history, submitter, store,
			orders.WithLogger(o.logger), orders.WithMetrics(m)),
		Metrics: m,
		logger:  o.logger,
	}
	if owned {
		app.Store = store
	} else {
		app.Store = unowned{store}
	}
	return app, nil
}

// unowned shields a caller-supplied store from Close.
type unowned struct{ types.Store }

func (unowned) Detach() error { return nil }

// Quote prices the pending checkout handoff with the configured checkout tax
// rate and shipping. found is false when no checkout is pending.
func (a *App) Quote() (q types.CheckoutQuote, h types.Handoff, found bool, err error) {
	h, found, err = persist.LoadHandoff(a.Store)
	if err != nil || !found {
		return types.CheckoutQuote{}, h, found, err
	}
	return orders.Quote(h, a.Config.Checkout.TaxRate, a.Config.Checkout.Shipping), h, true, nil
}

// Close detaches the store the App opened.
func (a *App) Close() error {
	if a == nil || a.Store == nil {
		return nil
	}
	if err := a.Store.Detach(); err != nil && !errors.Is(err, types.ErrStoreDetached) {
		return fmt.Errorf("closing store: %w", err)
	}
	return nil
}
