package model

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/abikoushi/stan/internal/agrad"
)

const (
	metricsNamespace = "agrad"
	metricsSubsystem = "model"
)

// Evaluation kinds used as metric labels.
const (
	kindLogDensity = "log_density"
	kindGradient   = "gradient"
	kindJacobian   = "jacobian"
)

// Metrics holds the evaluator's Prometheus collectors. A nil *Metrics
// records nothing. One Metrics may be shared by evaluators running on
// different goroutines.
type Metrics struct {
	// evaluations counts evaluations.
	// Labels: kind (log_density, gradient, jacobian),
	// outcome (ok, error, non_finite, exhausted)
	evaluations *prometheus.CounterVec

	// tapeNodes tracks how many nodes each recorded evaluation allocated.
	tapeNodes prometheus.Histogram

	// gradientSeconds measures successful gradient evaluations.
	gradientSeconds prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "evaluations_total",
			Help:      "Total model evaluations by kind and outcome",
		}, []string{"kind", "outcome"}),
		tapeNodes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "tape_nodes",
			Help:      "Nodes recorded per evaluation",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 10),
		}),
		gradientSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "gradient_duration_seconds",
			Help:      "Gradient evaluation latency in seconds",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}),
	}
}

func (m *Metrics) observeEvaluation(kind string, err error) {
	if m == nil {
		return
	}
	m.evaluations.WithLabelValues(kind, outcome(err)).Inc()
}

func (m *Metrics) observeTape(nodes int) {
	if m == nil {
		return
	}
	m.tapeNodes.Observe(float64(nodes))
}

func (m *Metrics) observeGradient(d time.Duration) {
	if m == nil {
		return
	}
	m.gradientSeconds.Observe(d.Seconds())
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNonFinite):
		return "non_finite"
	case errors.Is(err, agrad.ErrTapeExhausted):
		return "exhausted"
	default:
		return "error"
	}
}
