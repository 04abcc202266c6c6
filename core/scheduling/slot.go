package scheduling

import (
	"sort"

	"github.com/kilianp07/fieldops/core/model"
)

// SuggestSlot proposes a start time for a new assignment inside the work
// window, given the technician's existing dispatches on the day.
//
// An explicit caller-provided time always wins and is returned unchanged;
// surfacing conflicts with it is the caller's job. Otherwise the heuristic
// is a greedy append: start after the last known commitment, skipping the
// lunch window. It deliberately does not pack gaps or optimize routes.
func SuggestSlot(win WorkWindow, dispatches []model.Dispatch, explicit *model.ClockTime) model.ClockTime {
	if explicit != nil {
		return *explicit
	}
	if len(dispatches) == 0 {
		return win.Start
	}

	sorted := make([]model.Dispatch, len(dispatches))
	copy(sorted, dispatches)
	sort.SliceStable(sorted, func(i, j int) bool {
		si, sj := startOrWindow(sorted[i], win), startOrWindow(sorted[j], win)
		return si.Before(sj)
	})

	anchor := win.Start
	last := sorted[len(sorted)-1]
	if end, ok := last.EndOrEstimate(); ok {
		anchor = end
	}
	// Half-open lunch test: an anchor exactly at lunch end is fine.
	if !anchor.Before(win.LunchStart) && anchor.Before(win.LunchEnd) {
		anchor = win.LunchEnd
	}
	return anchor
}

func startOrWindow(d model.Dispatch, win WorkWindow) model.ClockTime {
	if d.StartTime != nil {
		return *d.StartTime
	}
	return win.Start
}
