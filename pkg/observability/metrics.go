package observability

import (
	"context"
	"fmt"

	"github.com/irobinett3/traceTM-iansntm/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the tracer's Prometheus collectors.
type Metrics struct {
	Runs        *prometheus.CounterVec
	DepthRounds *prometheus.CounterVec
	Transitions *prometheus.CounterVec
	Frontier    *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg skips registration.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tracetm_runs_total",
				Help: "Total number of completed runs by verdict",
			},
			[]string{"machine", "verdict"},
		),
		DepthRounds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tracetm_depth_rounds_total",
				Help: "Total number of depth rounds processed",
			},
			[]string{"machine"},
		),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tracetm_transitions_total",
				Help: "Total number of transitions taken, implicit rejects included",
			},
			[]string{"machine"},
		),
		Frontier: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tracetm_frontier_size",
				Help:    "Configurations queued for the next depth",
				Buckets: prometheus.ExponentialBuckets(1, 4, 10),
			},
			[]string{"machine"},
		),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.Runs, m.DepthRounds, m.Transitions, m.Frontier} {
			if err := reg.Register(c); err != nil {
				return nil, fmt.Errorf("failed to register metric: %w", err)
			}
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDepth: func(_ context.Context, e *domain.DepthEvent) {
			m.DepthRounds.WithLabelValues(e.Machine).Inc()
			m.Frontier.WithLabelValues(e.Machine).Observe(float64(e.Frontier))
		},
		OnHalt: func(_ context.Context, e *domain.HaltEvent) {
			verdict := "rejected"
			if e.Accepted {
				verdict = "accepted"
			}
			m.Runs.WithLabelValues(e.Machine, verdict).Inc()
			m.Transitions.WithLabelValues(e.Machine).Add(float64(e.Transitions))
		},
	}
}
