package sim

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts run-loop activity. A nil *Metrics records nothing.
type Metrics struct {
	Ticks       prometheus.Counter
	EventsFired *prometheus.CounterVec
	Deadlocks   prometheus.Counter
	PoolSize    prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// Panics if registration fails (following prometheus convention).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smew_ticks_total",
			Help: "Total number of ticks that executed an event",
		}),
		EventsFired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "smew_events_fired_total",
			Help: "Events executed, including chained events",
		}, []string{"event"}),
		Deadlocks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smew_deadlocks_total",
			Help: "Runs that ended because no event was possible",
		}),
		PoolSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "smew_pool_size",
			Help:    "Number of valid event instances per tick",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
	reg.MustRegister(m.Ticks, m.EventsFired, m.Deadlocks, m.PoolSize)
	return m
}

func (m *Metrics) tick(pool int) {
	if m == nil {
		return
	}
	m.PoolSize.Observe(float64(pool))
	if pool > 0 {
		m.Ticks.Inc()
	}
}

func (m *Metrics) fired(event string) {
	if m == nil {
		return
	}
	m.EventsFired.WithLabelValues(event).Inc()
}

func (m *Metrics) deadlock() {
	if m == nil {
		return
	}
	m.Deadlocks.Inc()
}
