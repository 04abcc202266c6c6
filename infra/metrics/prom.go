package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/fieldops/core/metrics"
)

// PromSink records assignment events in Prometheus metrics.
type PromSink struct {
	events  *prometheus.CounterVec
	latency *prometheus.HistogramVec
	roster  prometheus.Gauge
}

// NewPromSink registers assignment metrics on the default Prometheus
// registerer. The Prometheus server should be started separately.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assignment_events_total",
		Help: "Total number of assignment decisions",
	}, []string{"phase", "outcome", "fallback"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "assignment_latency_seconds",
		Help:    "Time from command parse to report",
		Buckets: prometheus.DefBuckets,
	}, []string{"phase", "failed"})
	roster := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "technician_roster_size",
		Help: "Number of technicians in the last directory snapshot",
	})

	if err := reg.Register(events); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			events = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(latency); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			latency = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(roster); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			roster = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}

	return &PromSink{events: events, latency: latency, roster: roster}, nil
}

// RecordAssignment increments the counter for each decision.
func (s *PromSink) RecordAssignment(recs []coremetrics.AssignmentRecord) error {
	for _, r := range recs {
		s.events.WithLabelValues(r.Phase, r.Outcome, strconv.FormatBool(r.UsedFallback)).Inc()
	}
	return nil
}

// RecordCommandLatency records the command latency histogram.
func (s *PromSink) RecordCommandLatency(recs []coremetrics.CommandLatency) error {
	for _, r := range recs {
		s.latency.WithLabelValues(r.Phase, strconv.FormatBool(r.Failed)).Observe(r.Latency.Seconds())
	}
	return nil
}

// RecordRosterSize sets the gauge to the snapshot's technician count.
func (s *PromSink) RecordRosterSize(size int) error {
	if s.roster != nil {
		s.roster.Set(float64(size))
	}
	return nil
}
