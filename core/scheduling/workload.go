package scheduling

import "github.com/kilianp07/fieldops/core/model"

// Workload aggregates a technician's committed time on one date.
type Workload struct {
	Count        int  `json:"count"`
	TotalMinutes int  `json:"total_minutes"`
	Overloaded   bool `json:"overloaded"`
}

// ComputeWorkload reduces the dispatch list to the technician's active
// commitments on date. Dispatches in a terminal status are ignored; a
// dispatch with no recorded time window counts for the default duration.
// Pure reduction, no I/O.
func ComputeWorkload(p Policy, technicianID string, date model.Date, dispatches []model.Dispatch) Workload {
	var w Workload
	for _, d := range dispatches {
		if !d.ActiveOn(date) || !d.AssignedTo(technicianID) {
			continue
		}
		w.Count++
		w.TotalMinutes += d.DurationMinutes()
	}
	w.Overloaded = w.TotalMinutes >= (p.MaxWorkHours-1)*60
	return w
}

// ActiveDispatches returns the technician's active dispatches on date,
// the working set for slot suggestion.
func ActiveDispatches(technicianID string, date model.Date, dispatches []model.Dispatch) []model.Dispatch {
	var out []model.Dispatch
	for _, d := range dispatches {
		if d.ActiveOn(date) && d.AssignedTo(technicianID) {
			out = append(out, d)
		}
	}
	return out
}
