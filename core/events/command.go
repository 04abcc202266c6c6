package events

// CommandEvent is published when a free-text command has been parsed.
type CommandEvent struct {
	CorrelationID string
	Raw           string
	Action        string // "preview" or "execute"
}
