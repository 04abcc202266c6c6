package events

// Package events defines the event types published on the internal bus
// while the orchestrator handles a command. Subscribers (metrics
// collector, MQTT announcer) consume them without coupling to the
// orchestrator itself.
