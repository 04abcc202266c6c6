package model

import (
	"fmt"
	"time"
)

// LeaveStatus is the review state of a leave request.
type LeaveStatus string

const (
	LeaveApproved LeaveStatus = "approved"
	LeavePending  LeaveStatus = "pending"
	LeaveRejected LeaveStatus = "rejected"
)

// Leave is an absence interval for a technician. Both bounds are inclusive.
type Leave struct {
	Start  Date        `json:"start_date"`
	End    Date        `json:"end_date"`
	Status LeaveStatus `json:"status"`
}

// Covers reports whether the leave interval contains date.
func (l Leave) Covers(date Date) bool {
	return !date.Before(l.Start) && !date.After(l.End)
}

// Blocks reports whether the leave keeps the technician off the given date.
// Rejected leaves never block; pending ones do until someone rejects them.
func (l Leave) Blocks(date Date) bool {
	return l.Status != LeaveRejected && l.Covers(date)
}

// DaySchedule is a technician's working-hours template for one weekday.
type DaySchedule struct {
	Enabled    bool      `json:"enabled"`
	FullDayOff bool      `json:"full_day_off"`
	Start      ClockTime `json:"start_time"`
	End        ClockTime `json:"end_time"`
	LunchStart ClockTime `json:"lunch_start"`
	LunchEnd   ClockTime `json:"lunch_end"`
}

// Technician is a field worker with a recurring weekly schedule and leave records.
type Technician struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Roles []string `json:"roles"`

	// Week holds one DaySchedule per weekday, indexed by time.Weekday.
	// A nil entry means no schedule is configured for that day.
	Week   [7]*DaySchedule `json:"week"`
	Leaves []Leave         `json:"leaves"`
}

// Validate checks that the technician record is sound.
func (t Technician) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("technician id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("technician %s has no name", t.ID)
	}
	return nil
}

// ScheduleFor returns the schedule template for the given weekday, or nil
// when none is configured.
func (t Technician) ScheduleFor(day time.Weekday) *DaySchedule {
	return t.Week[int(day)]
}

// LeaveOn returns the first leave blocking the technician on date, if any.
func (t Technician) LeaveOn(date Date) (Leave, bool) {
	for _, l := range t.Leaves {
		if l.Blocks(date) {
			return l, true
		}
	}
	return Leave{}, false
}
