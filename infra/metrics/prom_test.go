package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/kilianp07/fieldops/core/metrics"
)

func TestPromSink_RecordAssignment(t *testing.T) {
	reg := prometheus.NewRegistry()
	sinkIf, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	sink, ok := sinkIf.(*PromSink)
	if !ok {
		t.Fatalf("expected PromSink")
	}

	rec := coremetrics.AssignmentRecord{
		CorrelationID: "cid-1",
		Phase:         "execute",
		Outcome:       "fallback",
		UsedFallback:  true,
		Time:          time.Now(),
	}
	if err := sink.RecordAssignment([]coremetrics.AssignmentRecord{rec}); err != nil {
		t.Fatalf("record error: %v", err)
	}
	if err := sink.RecordCommandLatency([]coremetrics.CommandLatency{{
		CorrelationID: "cid-1",
		Phase:         "execute",
		Latency:       150 * time.Millisecond,
	}}); err != nil {
		t.Fatalf("latency error: %v", err)
	}
	if err := sink.RecordRosterSize(7); err != nil {
		t.Fatalf("roster error: %v", err)
	}

	expected := `
# HELP assignment_events_total Total number of assignment decisions
# TYPE assignment_events_total counter
assignment_events_total{fallback="true",outcome="fallback",phase="execute"} 1
`
	if err := testutil.CollectAndCompare(sink.events, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
	if got := testutil.ToFloat64(sink.roster); got != 7 {
		t.Errorf("roster gauge: got %v", got)
	}
}

func TestPromSink_ReuseRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("first sink: %v", err)
	}
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("second sink must reuse collectors: %v", err)
	}
}
