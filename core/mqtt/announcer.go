package mqtt

import (
	"github.com/kilianp07/fieldops/core/events"
	"github.com/kilianp07/fieldops/core/logger"
	"github.com/kilianp07/fieldops/internal/eventbus"
)

// Announcer publishes committed assignments to interested parties
// (field tablets, wallboards) outside the CRM.
type Announcer interface {
	// Announce publishes one committed assignment.
	Announce(ev events.AssignEvent) error
	// Disconnect releases the underlying connection, if any.
	Disconnect()
}

// NopAnnouncer drops every announcement. Used when no broker is configured.
type NopAnnouncer struct{}

func (NopAnnouncer) Announce(events.AssignEvent) error { return nil }
func (NopAnnouncer) Disconnect()                       {}

// Relay forwards committed assignments from the bus to the announcer until
// the bus closes. Announce errors are logged, never propagated: a stale
// wallboard must not fail a commit.
func Relay(bus eventbus.EventBus, a Announcer, log logger.Logger) {
	for ev := range bus.Subscribe() {
		ae, ok := ev.(events.AssignEvent)
		if !ok {
			continue
		}
		if err := a.Announce(ae); err != nil {
			log.Errorf("announce %s: %v", ae.DispatchNumber, err)
		}
	}
}
