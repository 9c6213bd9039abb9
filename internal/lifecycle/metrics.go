package lifecycle

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Globally registered metrics, promauto style. Tests measure increments
// rather than absolute values since registration is process-wide.
var (
	phaseTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bank_gateway_phase_total",
		Help: "Lifecycle phase executions by bank, phase and outcome.",
	}, []string{"bank", "phase", "outcome"})

	phaseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bank_gateway_phase_duration_seconds",
		Help:    "Lifecycle phase durations by bank and phase.",
		Buckets: prometheus.DefBuckets,
	}, []string{"bank", "phase"})

	settleRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bank_gateway_settle_retries_total",
		Help: "Settle attempts beyond the first, across all banks.",
	})
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

func observePhase(bank, phase, outcome string, seconds float64) {
	phaseTotal.WithLabelValues(bank, phase, outcome).Inc()
	phaseDuration.WithLabelValues(bank, phase).Observe(seconds)
}
