package assign

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	commandDuration     *prometheus.HistogramVec
	commandsHandled     *prometheus.CounterVec
	persistenceFallback prometheus.Counter
	commitFailures      prometheus.Counter
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.HistogramVec, *prometheus.CounterVec, prometheus.Counter, prometheus.Counter) {
	dur := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assignment_command_duration_seconds",
			Help:    "Latency of assignment commands from parse to report",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action"},
	)
	handled := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assignment_commands_total",
			Help: "Number of assignment commands handled",
		},
		[]string{"action", "outcome"},
	)
	fallback := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "assignment_persistence_fallback_total",
			Help: "Number of commits that used the generic update endpoint after the assign endpoint failed",
		},
	)
	failures := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "assignment_commit_failures_total",
			Help: "Number of commits where both persistence tiers failed",
		},
	)
	return dur, handled, fallback, failures
}

func init() {
	commandDuration, commandsHandled, persistenceFallback, commitFailures = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers assignment metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(commandDuration, commandsHandled, persistenceFallback, commitFailures)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	commandDuration, commandsHandled, persistenceFallback, commitFailures = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
