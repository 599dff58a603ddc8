package observ

import (
	"github.com/prometheus/client_golang/prometheus"

	"parsetrace/internal/trace"
)

// Collector is a trace.Sink that counts recorded events in Prometheus
// metrics.
type Collector struct {
	events *prometheus.CounterVec
	depth  *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parsetrace_events_total",
				Help: "Total number of recorded parser trace events",
			},
			[]string{"tag", "phase"},
		),
		depth: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "parsetrace_span_depth",
				Help:    "Nesting depth of entered parser calls",
				Buckets: prometheus.LinearBuckets(0, 1, 16),
			},
			[]string{"tag"},
		),
	}
	if err := reg.Register(c.events); err != nil {
		return nil, err
	}
	if err := reg.Register(c.depth); err != nil {
		return nil, err
	}
	return c, nil
}

// Emit counts ev.
func (c *Collector) Emit(tag string, ev *trace.Event) {
	c.events.WithLabelValues(tag, ev.Phase.String()).Inc()
	if ev.Phase == trace.PhaseEnter {
		c.depth.WithLabelValues(tag).Observe(float64(ev.Depth))
	}
}

var _ trace.Sink = (*Collector)(nil)
