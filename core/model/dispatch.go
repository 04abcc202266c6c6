package model

import "fmt"

// DispatchStatus is the lifecycle state of a field-service job.
type DispatchStatus string

const (
	DispatchPending    DispatchStatus = "pending"
	DispatchAssigned   DispatchStatus = "assigned"
	DispatchInProgress DispatchStatus = "in_progress"
	DispatchCompleted  DispatchStatus = "completed"
	DispatchCancelled  DispatchStatus = "cancelled"
)

// Terminal reports whether the status excludes the dispatch from workload
// and conflict computations.
func (s DispatchStatus) Terminal() bool {
	return s == DispatchCompleted || s == DispatchCancelled
}

// DefaultDurationMinutes is assumed when a dispatch has no recorded end time.
const DefaultDurationMinutes = 60

// Dispatch is a scheduled field-service job, assignable to one or more
// technicians on a specific date and optional time window.
type Dispatch struct {
	ID     string         `json:"id"`
	Number string         `json:"number"`
	Status DispatchStatus `json:"status"`

	ScheduledDate Date       `json:"scheduled_date"`
	StartTime     *ClockTime `json:"scheduled_start_time,omitempty"`
	EndTime       *ClockTime `json:"scheduled_end_time,omitempty"`

	AssignedTechnicianIDs []string `json:"assigned_technician_ids"`
}

// Validate checks that the dispatch record is sound.
func (d Dispatch) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("dispatch id is required")
	}
	if d.Number == "" {
		return fmt.Errorf("dispatch %s has no number", d.ID)
	}
	return nil
}

// AssignedTo reports whether the technician already appears in the
// dispatch's assignee list.
func (d Dispatch) AssignedTo(technicianID string) bool {
	for _, id := range d.AssignedTechnicianIDs {
		if id == technicianID {
			return true
		}
	}
	return false
}

// ActiveOn reports whether the dispatch occupies the technician's day:
// scheduled on date and not in a terminal status.
func (d Dispatch) ActiveOn(date Date) bool {
	return d.ScheduledDate == date && !d.Status.Terminal()
}

// DurationMinutes returns the scheduled duration, falling back to
// DefaultDurationMinutes when either bound is missing.
func (d Dispatch) DurationMinutes() int {
	if d.StartTime == nil || d.EndTime == nil {
		return DefaultDurationMinutes
	}
	dur := d.EndTime.Minutes() - d.StartTime.Minutes()
	if dur <= 0 {
		return DefaultDurationMinutes
	}
	return dur
}

// EndOrEstimate returns the recorded end time, or start + the default
// duration when no end is recorded. The second return is false when the
// dispatch has no start time at all.
func (d Dispatch) EndOrEstimate() (ClockTime, bool) {
	if d.EndTime != nil {
		return *d.EndTime, true
	}
	if d.StartTime != nil {
		return d.StartTime.AddMinutes(DefaultDurationMinutes), true
	}
	return 0, false
}
