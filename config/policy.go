package config

import (
	"fmt"

	"github.com/kilianp07/fieldops/core/model"
	"github.com/kilianp07/fieldops/core/scheduling"
)

// PolicyConfig exposes the scheduling constants in the config file. Clock
// values are "HH:MM" strings; empty fields fall back to the built-in policy.
type PolicyConfig struct {
	MaxWorkHours      int    `json:"max_work_hours"`
	BaseScore         int    `json:"base_score"`
	WorkloadPenalty   int    `json:"workload_penalty"`
	DefaultStart      string `json:"default_start"`
	DefaultEnd        string `json:"default_end"`
	DefaultLunchStart string `json:"default_lunch_start"`
	DefaultLunchEnd   string `json:"default_lunch_end"`
}

// ToPolicy converts the section into a scheduling.Policy, parsing clock
// strings and applying defaults for anything left empty.
func (c PolicyConfig) ToPolicy() (scheduling.Policy, error) {
	p := scheduling.Policy{
		MaxWorkHours:    c.MaxWorkHours,
		BaseScore:       c.BaseScore,
		WorkloadPenalty: c.WorkloadPenalty,
	}
	clocks := []struct {
		name string
		raw  string
		dst  *model.ClockTime
	}{
		{"default_start", c.DefaultStart, &p.DefaultStart},
		{"default_end", c.DefaultEnd, &p.DefaultEnd},
		{"default_lunch_start", c.DefaultLunchStart, &p.DefaultLunchStart},
		{"default_lunch_end", c.DefaultLunchEnd, &p.DefaultLunchEnd},
	}
	for _, cl := range clocks {
		if cl.raw == "" {
			continue
		}
		t, err := model.ParseClock(cl.raw)
		if err != nil {
			return scheduling.Policy{}, fmt.Errorf("policy.%s: %w", cl.name, err)
		}
		*cl.dst = t
	}
	p.SetDefaults()
	if err := p.Validate(); err != nil {
		return scheduling.Policy{}, err
	}
	return p, nil
}
