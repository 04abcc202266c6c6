package eventbus

import "github.com/prometheus/client_golang/prometheus"

var (
	eventsDelivered prometheus.Counter
	eventsDropped   prometheus.Counter
)

// newCollectors creates new metric collectors.
func newCollectors() (prometheus.Counter, prometheus.Counter) {
	delivered := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "eventbus_events_delivered_total",
			Help: "Number of events delivered to subscriber channels",
		},
	)
	dropped := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "eventbus_events_dropped_total",
			Help: "Number of events dropped because a subscriber buffer was full",
		},
	)
	return delivered, dropped
}

func init() {
	eventsDelivered, eventsDropped = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers bus metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(eventsDelivered, eventsDropped)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	eventsDelivered, eventsDropped = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
