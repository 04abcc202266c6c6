package metrics

import (
	"time"

	"github.com/kilianp07/fieldops/core/model"
)

// AssignmentRecord is one orchestrator decision to be recorded: a previewed
// proposal or an executed commit, with its outcome.
type AssignmentRecord struct {
	CorrelationID  string
	DispatchNumber string
	TechnicianID   string
	TechnicianName string
	Date           model.Date
	StartTime      model.ClockTime
	Phase          string // "preview" or "execute"
	Outcome        string // "proposed", "committed", "fallback", "failed", "not_found", "already_assigned"
	UsedFallback   bool
	Score          int
	Time           time.Time
}

// MetricsSink records assignment decisions for observability purposes.
type MetricsSink interface {
	RecordAssignment(records []AssignmentRecord) error
}

// CommandLatency captures how long one free-text command took end to end.
type CommandLatency struct {
	CorrelationID string
	Phase         string
	Latency       time.Duration
	Failed        bool
}

// LatencyRecorder is an optional capability for sinks that track latency.
type LatencyRecorder interface {
	RecordCommandLatency(recs []CommandLatency) error
}

// RosterSizeRecorder is an optional capability recording how many
// technicians the directory snapshot contained.
type RosterSizeRecorder interface {
	RecordRosterSize(size int) error
}

// NopSink discards all records.
type NopSink struct{}

func (NopSink) RecordAssignment([]AssignmentRecord) error { return nil }

// MultiSink fans records out to several sinks, returning the first error.
type MultiSink struct {
	sinks []MetricsSink
}

// NewMultiSink combines the given sinks into one.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) RecordAssignment(records []AssignmentRecord) error {
	var firstErr error
	for _, s := range m.sinks {
		if err := s.RecordAssignment(records); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// RecordCommandLatency forwards to every sink implementing LatencyRecorder.
func (m *MultiSink) RecordCommandLatency(recs []CommandLatency) error {
	var firstErr error
	for _, s := range m.sinks {
		if lr, ok := s.(LatencyRecorder); ok {
			if err := lr.RecordCommandLatency(recs); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// RecordRosterSize forwards to every sink implementing RosterSizeRecorder.
func (m *MultiSink) RecordRosterSize(size int) error {
	var firstErr error
	for _, s := range m.sinks {
		if rr, ok := s.(RosterSizeRecorder); ok {
			if err := rr.RecordRosterSize(size); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
