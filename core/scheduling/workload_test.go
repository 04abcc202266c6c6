package scheduling

import (
	"testing"

	"github.com/kilianp07/fieldops/core/model"
)

func clockPtr(s string) *model.ClockTime {
	c := model.MustClock(s)
	return &c
}

func TestComputeWorkloadCountsActiveOnly(t *testing.T) {
	dispatches := []model.Dispatch{
		{ID: "d1", Number: "WO-1", Status: model.DispatchAssigned, ScheduledDate: tuesday,
			StartTime: clockPtr("09:00"), EndTime: clockPtr("10:30"), AssignedTechnicianIDs: []string{"t1"}},
		{ID: "d2", Number: "WO-2", Status: model.DispatchCompleted, ScheduledDate: tuesday,
			AssignedTechnicianIDs: []string{"t1"}},
		{ID: "d3", Number: "WO-3", Status: model.DispatchAssigned, ScheduledDate: tuesday.AddDays(1),
			AssignedTechnicianIDs: []string{"t1"}},
		{ID: "d4", Number: "WO-4", Status: model.DispatchAssigned, ScheduledDate: tuesday,
			AssignedTechnicianIDs: []string{"t2"}},
	}
	w := ComputeWorkload(DefaultPolicy(), "t1", tuesday, dispatches)
	if w.Count != 1 || w.TotalMinutes != 90 {
		t.Fatalf("expected 1 job / 90 min, got %+v", w)
	}
	if w.Overloaded {
		t.Fatalf("90 minutes must not be overloaded")
	}
}

func TestComputeWorkloadDefaultDuration(t *testing.T) {
	dispatches := []model.Dispatch{
		{ID: "d1", Number: "WO-1", Status: model.DispatchAssigned, ScheduledDate: tuesday,
			AssignedTechnicianIDs: []string{"t1"}},
	}
	w := ComputeWorkload(DefaultPolicy(), "t1", tuesday, dispatches)
	if w.TotalMinutes != model.DefaultDurationMinutes {
		t.Fatalf("expected default duration, got %d", w.TotalMinutes)
	}
}

func TestComputeWorkloadOverloadThreshold(t *testing.T) {
	// Threshold sits one hour below the cap: 7h with an 8h policy.
	mk := func(total int) Workload {
		var dispatches []model.Dispatch
		start := model.MustClock("08:00")
		for total > 0 {
			chunk := total
			if chunk > 60 {
				chunk = 60
			}
			s := start
			end := start.AddMinutes(chunk)
			dispatches = append(dispatches, model.Dispatch{
				ID: "d", Number: "WO", Status: model.DispatchAssigned, ScheduledDate: tuesday,
				StartTime: &s, EndTime: &end, AssignedTechnicianIDs: []string{"t1"},
			})
			start = end
			total -= chunk
		}
		return ComputeWorkload(DefaultPolicy(), "t1", tuesday, dispatches)
	}
	if mk(6*60 + 59).Overloaded {
		t.Fatalf("6h59 must not be overloaded")
	}
	if !mk(7 * 60).Overloaded {
		t.Fatalf("7h must be overloaded")
	}
}

func TestActiveDispatches(t *testing.T) {
	dispatches := []model.Dispatch{
		{ID: "d1", Number: "WO-1", Status: model.DispatchAssigned, ScheduledDate: tuesday, AssignedTechnicianIDs: []string{"t1"}},
		{ID: "d2", Number: "WO-2", Status: model.DispatchCancelled, ScheduledDate: tuesday, AssignedTechnicianIDs: []string{"t1"}},
	}
	got := ActiveDispatches("t1", tuesday, dispatches)
	if len(got) != 1 || got[0].ID != "d1" {
		t.Fatalf("unexpected active set: %+v", got)
	}
}
