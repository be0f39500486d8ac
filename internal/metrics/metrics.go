// Package metrics exports allocation retry statistics to Prometheus.
package metrics

import (
	"github.com/me/rota/internal/allocator"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rota"

// Attempt outcomes.
const (
	OutcomeComplete = "complete"
	OutcomeIdle     = "idle"
	OutcomeNoPair   = "no_pair"
)

// Metrics implements allocator.Observer.
type Metrics struct {
	Attempts         *prometheus.CounterVec
	IdleWorkers      prometheus.Histogram
	AttemptsPerRound prometheus.Histogram
}

// New creates the collectors and registers them with reg. It panics if they
// are already registered there.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Attempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attempts_total",
			Help:      "allocation attempts by outcome",
		}, []string{"outcome"}),
		IdleWorkers: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "idle_workers",
			Help:      "workers left idle by a failed attempt",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		}),
		AttemptsPerRound: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "attempts_per_round",
			Help:      "attempts needed to reach a complete allocation",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
}

func (m *Metrics) AttemptFailed(a allocator.Attempt) {
	if a.Err != nil {
		m.Attempts.WithLabelValues(OutcomeNoPair).Inc()
		return
	}
	m.Attempts.WithLabelValues(OutcomeIdle).Inc()
	m.IdleWorkers.Observe(float64(a.Idle))
}

func (m *Metrics) Completed(r *allocator.Round) {
	m.Attempts.WithLabelValues(OutcomeComplete).Inc()
	m.AttemptsPerRound.Observe(float64(r.Attempt))
}
