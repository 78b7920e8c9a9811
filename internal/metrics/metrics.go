// Package metrics holds the prometheus counters the storefront core updates.
// Each App owns its own registry; there are no package-level collectors.
// All methods are safe on a nil *Metrics, which records nothing.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

const namespace = "storefront"

// Order outcome label values.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeCanceled = "canceled"
)

// Metrics is the set of storefront collectors.
type Metrics struct {
	registry *prometheus.Registry

	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	cartMutations   *prometheus.CounterVec
	persistFailures *prometheus.CounterVec
	orders          *prometheus.CounterVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "cache_hits_total",
			Help:      "Search terms answered from the result cache",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "cache_misses_total",
			Help:      "Search terms computed by scanning the index",
		}),
		// Labels: kind (line_added, quantity_increased, ...)
		cartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "mutations_total",
			Help:      "Cart mutations by change kind",
		}, []string{"kind"}),
		// Labels: record (shoppingCart, orderHistory, cartData)
		persistFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "persist",
			Name:      "failures_total",
			Help:      "Failed record writes by record key",
		}, []string{"record"}),
		// Labels: outcome (success, failure, canceled)
		orders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "submitted_total",
			Help:      "Order submissions by outcome",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(m.cacheHits, m.cacheMisses, m.cartMutations, m.persistFailures, m.orders)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// CacheHit records a search answered from the cache.
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

// CacheMiss records a search computed from the index.
func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

// CartMutation records a successful cart mutation.
func (m *Metrics) CartMutation(kind string) {
	if m == nil {
		return
	}
	m.cartMutations.WithLabelValues(kind).Inc()
}

// PersistFailure records a failed write of record.
func (m *Metrics) PersistFailure(record string) {
	if m == nil {
		return
	}
	m.persistFailures.WithLabelValues(record).Inc()
}

// Order records an order submission outcome.
func (m *Metrics) Order(outcome string) {
	if m == nil {
		return
	}
	m.orders.WithLabelValues(outcome).Inc()
}

// WriteText writes the collectors that have counted something in the
// Prometheus text exposition format. Zero-valued series are left out, so the
// shell shows only what the session did.
func (m *Metrics) WriteText(w io.Writer) error {
	if m == nil {
		return nil
	}
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		var nonZero []*dto.Metric
		for _, metric := range mf.GetMetric() {
			if metric.GetCounter().GetValue() != 0 {
				nonZero = append(nonZero, metric)
			}
		}
		if len(nonZero) == 0 {
			continue
		}
		mf.Metric = nonZero
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("writing %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
