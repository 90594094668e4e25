// Package monitoring exposes shop activity as Prometheus metrics.
package monitoring

import (
	"net/http"
	"sync"

	"dukaan/internal/engine"
	"dukaan/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector observes committed state transitions and keeps the metric
// families current. It registers on its own registry so tests never fight
// over the global default.
type Collector struct {
	registry *prometheus.Registry

	mu             sync.Mutex
	salesSeen      int
	expensesSeen   int
	actionsTotal   *prometheus.CounterVec
	salesAmount    prometheus.Counter
	expensesAmount prometheus.Counter
	inventoryUnits prometheus.Gauge
	cartLines      prometheus.Gauge
}

// NewCollector creates a collector with all metric families registered.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		actionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pos_actions_dispatched_total",
				Help: "Action records dispatched, by kind",
			},
			[]string{"kind"},
		),
		salesAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pos_sales_amount_total",
			Help: "Cumulative amount of recorded sales",
		}),
		expensesAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pos_expenses_amount_total",
			Help: "Cumulative amount of recorded expenses",
		}),
		inventoryUnits: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pos_inventory_units",
			Help: "Total units currently in stock across all items",
		}),
		cartLines: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pos_cart_lines",
			Help: "Lines currently in the session cart",
		}),
	}

	c.registry.MustRegister(
		c.actionsTotal,
		c.salesAmount,
		c.expensesAmount,
		c.inventoryUnits,
		c.cartLines,
	)
	return c
}

// StateChanged implements store.Observer.
func (c *Collector) StateChanged(action models.ActionRecord, state engine.State) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if action.Kind != "" {
		c.actionsTotal.WithLabelValues(string(action.Kind)).Inc()
	}

	for _, sale := range state.Sales[c.salesSeen:] {
		c.salesAmount.Add(sale.TotalAmount)
	}
	c.salesSeen = len(state.Sales)

	for _, exp := range state.Expenses[c.expensesSeen:] {
		c.expensesAmount.Add(exp.Amount)
	}
	c.expensesSeen = len(state.Expenses)

	units := 0
	for _, item := range state.Inventory {
		units += item.Quantity
	}
	c.inventoryUnits.Set(float64(units))
	c.cartLines.Set(float64(len(state.Cart)))
}

// Handler serves the collector's registry over HTTP.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Gather exposes the registry for tests.
func (c *Collector) Gather() prometheus.Gatherer {
	return c.registry
}
