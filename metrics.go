package dspline

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

//////
// Prometheus metrics.
//////

// searchMetrics groups the collectors updated by Search. Collectors are
// created per search and only exported when a Registerer is configured.
type searchMetrics struct {
	// evaluations counts objective evaluations by phase.
	evaluations *prometheus.CounterVec

	// objectiveSeconds tracks objective latency.
	objectiveSeconds prometheus.Histogram

	// minRepeats mirrors the engine repeat counter.
	minRepeats prometheus.Gauge
}

// register adds c to reg. When an equal collector is already registered, as
// happens when several searches share a registry, the existing one is
// returned instead.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if reg == nil {
		return c
	}

	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}

	return c
}

func newSearchMetrics(reg prometheus.Registerer) *searchMetrics {
	return &searchMetrics{
		evaluations: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dspline_evaluations_total",
			Help: "Total objective evaluations by search phase",
		}, []string{"phase"})),
		objectiveSeconds: register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dspline_objective_seconds",
			Help:    "Objective evaluation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 12), // 0.1ms to ~7min
		})),
		minRepeats: register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dspline_min_repeat_count",
			Help: "Consecutive updates with the same fitted minimum",
		})),
	}
}
