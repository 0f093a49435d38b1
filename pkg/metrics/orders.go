package metrics

import "github.com/prometheus/client_golang/prometheus"

// OrderMetrics counts purchase order lifecycle events.
type OrderMetrics struct {
	received    prometheus.Counter
	units       prometheus.Counter
	transitions *prometheus.CounterVec
}

// NewOrderMetrics registers the purchase order counters on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	received := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_received_total",
		Help: "Purchase orders marked as received.",
	})
	units := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stock_units_received_total",
		Help: "Stock units added to products by received orders.",
	})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Purchase order status changes by target status.",
	}, []string{"status"})
	reg.MustRegister(received, units, transitions)
	return &OrderMetrics{
		received:    received,
		units:       units,
		transitions: transitions,
	}
}

// ObserveTransition increments the transition counter for the target status.
func (m *OrderMetrics) ObserveTransition(status string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(status)).Inc()
}

// ObserveReceived records a received order and the units it added to stock.
func (m *OrderMetrics) ObserveReceived(units int) {
	if m == nil || m.received == nil {
		return
	}
	m.received.Inc()
	if units > 0 {
		m.units.Add(float64(units))
	}
}
