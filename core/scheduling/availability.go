package scheduling

import "github.com/kilianp07/fieldops/core/model"

// Reasons surfaced when a technician is not workable on a date.
const (
	ReasonOnLeave = "on leave"
	ReasonDayOff  = "day off"
)

// WorkWindow is the usable portion of a technician's day.
type WorkWindow struct {
	Start      model.ClockTime `json:"start"`
	End        model.ClockTime `json:"end"`
	LunchStart model.ClockTime `json:"lunch_start"`
	LunchEnd   model.ClockTime `json:"lunch_end"`
}

// Availability is the outcome of checking one technician against one date.
type Availability struct {
	Available bool       `json:"available"`
	Reason    string     `json:"reason,omitempty"`
	Window    WorkWindow `json:"window"`
}

// ResolveAvailability decides whether the technician is workable on date.
// Leave records are checked first: any non-rejected leave covering the date
// wins. Otherwise the weekday schedule template applies; a missing template
// falls back to the policy's default window rather than failing.
func ResolveAvailability(p Policy, t model.Technician, date model.Date) Availability {
	if _, ok := t.LeaveOn(date); ok {
		return Availability{Available: false, Reason: ReasonOnLeave}
	}

	ds := t.ScheduleFor(date.Weekday())
	if ds == nil {
		return Availability{
			Available: true,
			Window: WorkWindow{
				Start:      p.DefaultStart,
				End:        p.DefaultEnd,
				LunchStart: p.DefaultLunchStart,
				LunchEnd:   p.DefaultLunchEnd,
			},
		}
	}
	if !ds.Enabled || ds.FullDayOff {
		return Availability{Available: false, Reason: ReasonDayOff}
	}
	return Availability{
		Available: true,
		Window: WorkWindow{
			Start:      ds.Start,
			End:        ds.End,
			LunchStart: ds.LunchStart,
			LunchEnd:   ds.LunchEnd,
		},
	}
}
