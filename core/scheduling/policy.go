package scheduling

import (
	"fmt"

	"github.com/kilianp07/fieldops/core/model"
)

// Policy groups the scheduling constants that used to be magic numbers.
// Zero values are replaced by the defaults below so an empty config section
// behaves like the historical behavior.
type Policy struct {
	// MaxWorkHours caps a technician's daily committed hours. A technician
	// is flagged overloaded one hour before the cap.
	MaxWorkHours int `json:"max_work_hours" yaml:"max_work_hours"`
	// BaseScore is the starting suitability score for an available technician.
	BaseScore int `json:"base_score" yaml:"base_score"`
	// WorkloadPenalty is subtracted from the score per active job on the day.
	WorkloadPenalty int `json:"workload_penalty" yaml:"workload_penalty"`

	// Fallback work window used when a technician has no schedule template
	// configured for the weekday. Missing schedule data means "assume
	// available", not an error.
	DefaultStart      model.ClockTime `json:"-" yaml:"-"`
	DefaultEnd        model.ClockTime `json:"-" yaml:"-"`
	DefaultLunchStart model.ClockTime `json:"-" yaml:"-"`
	DefaultLunchEnd   model.ClockTime `json:"-" yaml:"-"`
}

// Score is the suitability of an available technician carrying workload w:
// the base score minus the per-job penalty, floored at 1 so an overloaded
// but present technician still outranks an absent one.
func (p Policy) Score(w Workload) int {
	s := p.BaseScore - p.WorkloadPenalty*w.Count
	if s < 1 {
		s = 1
	}
	return s
}

// DefaultPolicy returns the policy matching the original dispatch rules.
func DefaultPolicy() Policy {
	return Policy{
		MaxWorkHours:      8,
		BaseScore:         100,
		WorkloadPenalty:   15,
		DefaultStart:      model.MustClock("08:00"),
		DefaultEnd:        model.MustClock("17:00"),
		DefaultLunchStart: model.MustClock("12:00"),
		DefaultLunchEnd:   model.MustClock("13:00"),
	}
}

// SetDefaults fills zero fields with the default policy values.
func (p *Policy) SetDefaults() {
	def := DefaultPolicy()
	if p.MaxWorkHours == 0 {
		p.MaxWorkHours = def.MaxWorkHours
	}
	if p.BaseScore == 0 {
		p.BaseScore = def.BaseScore
	}
	if p.WorkloadPenalty == 0 {
		p.WorkloadPenalty = def.WorkloadPenalty
	}
	if p.DefaultStart == 0 && p.DefaultEnd == 0 {
		p.DefaultStart = def.DefaultStart
		p.DefaultEnd = def.DefaultEnd
		p.DefaultLunchStart = def.DefaultLunchStart
		p.DefaultLunchEnd = def.DefaultLunchEnd
	}
}

// Validate checks the policy constants are usable.
func (p Policy) Validate() error {
	if p.MaxWorkHours <= 0 || p.MaxWorkHours > 24 {
		return fmt.Errorf("max_work_hours must be in (0, 24], got %d", p.MaxWorkHours)
	}
	if p.WorkloadPenalty < 0 {
		return fmt.Errorf("workload_penalty must not be negative")
	}
	if !p.DefaultStart.Before(p.DefaultEnd) {
		return fmt.Errorf("default work window is empty")
	}
	return nil
}
