// Package metrics exposes Prometheus counters/gauges for the demo host.
// The core engine never imports this package: instrumentation is a
// host-layer concern, recorded around calls into internal/engine, not
// inside it.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the host's Prometheus series.
type Collector struct {
	OrdersAccepted *prometheus.CounterVec
	OrdersRejected *prometheus.CounterVec
	OrdersActive   *prometheus.GaugeVec
	TradesTotal    *prometheus.CounterVec
	TradeVolume    *prometheus.CounterVec
}

// NewCollector builds and registers a fresh Collector against reg. Pass
// prometheus.NewRegistry() in tests to avoid colliding with the global
// default registry across test runs.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		OrdersAccepted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "outcomebook",
				Subsystem: "orders",
				Name:      "accepted_total",
				Help:      "Total number of orders admitted into a book.",
			},
			[]string{"market_id", "outcome_id", "side"},
		),
		OrdersRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "outcomebook",
				Subsystem: "orders",
				Name:      "rejected_total",
				Help:      "Total number of orders rejected, by error kind.",
			},
			[]string{"market_id", "outcome_id", "reason"},
		),
		OrdersActive: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "outcomebook",
				Subsystem: "orders",
				Name:      "active",
				Help:      "Current number of resting, unfilled orders.",
			},
			[]string{"market_id", "outcome_id"},
		),
		TradesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "outcomebook",
				Subsystem: "trades",
				Name:      "total",
				Help:      "Total number of trades executed.",
			},
			[]string{"market_id", "outcome_id"},
		),
		TradeVolume: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "outcomebook",
				Subsystem: "trades",
				Name:      "volume",
				Help:      "Total matched quantity.",
			},
			[]string{"market_id", "outcome_id"},
		),
	}

	reg.MustRegister(c.OrdersAccepted, c.OrdersRejected, c.OrdersActive, c.TradesTotal, c.TradeVolume)
	return c
}

// RecordAccepted records an order that entered the book, whether or not
// it rested afterward.
func (c *Collector) RecordAccepted(marketID, outcomeID, side string) {
	c.OrdersAccepted.WithLabelValues(marketID, outcomeID, side).Inc()
}

// RecordRejected records a rejected order by its error kind.
func (c *Collector) RecordRejected(marketID, outcomeID, reason string) {
	c.OrdersRejected.WithLabelValues(marketID, outcomeID, reason).Inc()
}

// SetActiveOrders sets the current active-order gauge for a book.
func (c *Collector) SetActiveOrders(marketID, outcomeID string, n int) {
	c.OrdersActive.WithLabelValues(marketID, outcomeID).Set(float64(n))
}

// RecordTrades records a batch of trades produced by one match.
func (c *Collector) RecordTrades(marketID, outcomeID string, count int, volume uint64) {
	if count == 0 {
		return
	}
	c.TradesTotal.WithLabelValues(marketID, outcomeID).Add(float64(count))
	c.TradeVolume.WithLabelValues(marketID, outcomeID).Add(float64(volume))
}

// Handler returns the HTTP handler serving the registered metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
