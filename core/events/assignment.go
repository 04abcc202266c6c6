package events

import "github.com/kilianp07/fieldops/core/model"

// ProposalEvent is published when a preview produced an assignment proposal.
type ProposalEvent struct {
	CorrelationID  string
	DispatchNumber string
	TechnicianID   string
	Date           model.Date
	StartTime      model.ClockTime
	Warnings       []string
}

// AssignEvent is published when an assignment has been committed.
type AssignEvent struct {
	CorrelationID  string
	DispatchID     string
	DispatchNumber string
	TechnicianID   string
	TechnicianName string
	Date           model.Date
	StartTime      model.ClockTime
	// UsedFallback is true when the generic update endpoint was used after
	// the specialized assign call failed.
	UsedFallback bool
}

// CommitFailureEvent is published when both persistence tiers failed.
type CommitFailureEvent struct {
	CorrelationID  string
	DispatchNumber string
	TechnicianID   string
	Err            error
}
