package assign

import (
	"context"
	"fmt"
	"testing"
	"time"

	coremon "github.com/kilianp07/fieldops/core/monitoring"
)

type recordMonitor struct {
	err  error
	tags map[string]string
}

func (r *recordMonitor) CaptureException(err error, tags map[string]string) {
	r.err = err
	r.tags = tags
}
func (r *recordMonitor) Recover()            {}
func (r *recordMonitor) Flush(time.Duration) {}

func TestCommitFailureCaptured(t *testing.T) {
	mon := &recordMonitor{}
	coremon.Init(mon)
	defer coremon.Init(coremon.NopMonitor{})

	mgr, disp := fixture(t)
	disp.assignErr = fmt.Errorf("assign endpoint: 500")
	disp.updateErr = fmt.Errorf("update endpoint: 500")
	rep := mgr.Handle(context.Background(), "confirm assign WO-1001 to Maria Lopez at 09:00")
	if rep.Outcome != OutcomeFailed {
		t.Fatalf("expected failed, got %s", rep.Outcome)
	}
	if mon.err == nil {
		t.Fatalf("error not captured")
	}
	if mon.tags["dispatch"] != "WO-1001" || mon.tags["phase"] != "execute" {
		t.Fatalf("tags missing: %v", mon.tags)
	}
}

func TestPreviewCapturesNothing(t *testing.T) {
	mon := &recordMonitor{}
	coremon.Init(mon)
	defer coremon.Init(coremon.NopMonitor{})

	mgr, _ := fixture(t)
	rep := mgr.Handle(context.Background(), "assign dispatch WO-1001 to Maria")
	if rep.Outcome != OutcomeProposed {
		t.Fatalf("expected proposal, got %s", rep.Outcome)
	}
	if mon.err != nil {
		t.Fatalf("preview must not report: %v", mon.err)
	}
}
