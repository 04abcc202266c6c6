package model

// Roster is the schedule service's view of one technician: the weekly
// working-hours templates plus leave records. The scheduling engine only
// reads it; ownership stays with the schedule service.
type Roster struct {
	// Week holds one DaySchedule per weekday, indexed by time.Weekday.
	Week   [7]*DaySchedule `json:"day_schedules"`
	Leaves []Leave         `json:"leaves"`
}
