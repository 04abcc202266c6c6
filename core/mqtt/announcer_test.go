package mqtt

import (
	"fmt"
	"testing"
	"time"

	"github.com/kilianp07/fieldops/core/events"
	"github.com/kilianp07/fieldops/infra/logger"
	"github.com/kilianp07/fieldops/internal/eventbus"
)

type fakeAnnouncer struct {
	announced    []events.AssignEvent
	err          error
	disconnected bool
}

func (f *fakeAnnouncer) Announce(ev events.AssignEvent) error {
	f.announced = append(f.announced, ev)
	return f.err
}

func (f *fakeAnnouncer) Disconnect() { f.disconnected = true }

func TestRelayForwardsAssignEvents(t *testing.T) {
	bus := eventbus.New()
	ann := &fakeAnnouncer{}
	done := make(chan struct{})
	go func() {
		Relay(bus, ann, logger.NopLogger{})
		close(done)
	}()
	time.Sleep(10 * time.Millisecond)
	bus.Publish(events.CommandEvent{Raw: "ignored"})
	bus.Publish(events.AssignEvent{DispatchNumber: "WO-7", TechnicianID: "t1"})
	time.Sleep(20 * time.Millisecond)
	bus.Close()
	<-done

	if len(ann.announced) != 1 {
		t.Fatalf("expected one announcement, got %d", len(ann.announced))
	}
	if ann.announced[0].DispatchNumber != "WO-7" {
		t.Fatalf("unexpected event %+v", ann.announced[0])
	}
}

func TestRelaySurvivesAnnounceErrors(t *testing.T) {
	bus := eventbus.New()
	ann := &fakeAnnouncer{err: fmt.Errorf("broker down")}
	done := make(chan struct{})
	go func() {
		Relay(bus, ann, logger.NopLogger{})
		close(done)
	}()
	time.Sleep(10 * time.Millisecond)
	bus.Publish(events.AssignEvent{DispatchNumber: "WO-1"})
	bus.Publish(events.AssignEvent{DispatchNumber: "WO-2"})
	time.Sleep(20 * time.Millisecond)
	bus.Close()
	<-done

	if len(ann.announced) != 2 {
		t.Fatalf("relay must keep consuming after errors, got %d", len(ann.announced))
	}
}

func TestNopAnnouncer(t *testing.T) {
	var a Announcer = NopAnnouncer{}
	if err := a.Announce(events.AssignEvent{DispatchNumber: "WO-1"}); err != nil {
		t.Fatalf("nop announce: %v", err)
	}
	a.Disconnect()
}
