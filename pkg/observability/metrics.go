package observability

import (
	"context"
	"fmt"

	"github.com/aretw0/menube/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for one engine.
type Metrics struct {
	reg      prometheus.Registerer
	events   *prometheus.CounterVec
	commands *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMetrics creates and registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		reg: reg,
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "menube_events_total",
				Help: "Total number of events published by the engine",
			},
			[]string{"event"},
		),
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "menube_commands_total",
				Help: "Total number of completed commands",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "menube_command_duration_seconds",
				Help:    "Duration of command executions",
				Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
			},
		),
	}
	for _, c := range []prometheus.Collector{m.events, m.commands, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}
	return m, nil
}

// TrackOutstanding exposes f as the menube_commands_outstanding gauge.
func (m *Metrics) TrackOutstanding(f func() int) error {
	g := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "menube_commands_outstanding",
			Help: "Commands started and not yet completed",
		},
		func() float64 { return float64(f()) },
	)
	if err := m.reg.Register(g); err != nil {
		return fmt.Errorf("failed to register metric: %w", err)
	}
	return nil
}

// Observe records one event. It has the ports.Handler signature so it can
// be subscribed to the bus directly.
func (m *Metrics) Observe(_ context.Context, ev domain.Event) {
	m.events.WithLabelValues(ev.Name).Inc()
	if ev.Name != domain.EventCommandCompleted || ev.Result == nil {
		return
	}
	outcome := "success"
	if ev.Result.Failed() {
		outcome = "failure"
	}
	m.commands.WithLabelValues(outcome).Inc()
	m.duration.Observe(ev.Result.Duration.Seconds())
}
