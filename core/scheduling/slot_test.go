package scheduling

import (
	"testing"

	"github.com/kilianp07/fieldops/core/model"
)

func window() WorkWindow {
	return WorkWindow{
		Start:      model.MustClock("08:00"),
		End:        model.MustClock("17:00"),
		LunchStart: model.MustClock("12:00"),
		LunchEnd:   model.MustClock("13:00"),
	}
}

func TestSuggestSlotExplicitWins(t *testing.T) {
	explicit := model.MustClock("12:30")
	got := SuggestSlot(window(), nil, &explicit)
	if got != explicit {
		t.Fatalf("explicit time must be returned unchanged, got %s", got)
	}
}

func TestSuggestSlotEmptyDayStartsAtWindow(t *testing.T) {
	if got := SuggestSlot(window(), nil, nil); got.String() != "08:00" {
		t.Fatalf("expected window start, got %s", got)
	}
}

func TestSuggestSlotAppendsAfterLastJob(t *testing.T) {
	dispatches := []model.Dispatch{
		{ID: "d1", Number: "WO-1", StartTime: clockPtr("08:00"), EndTime: clockPtr("09:00")},
		{ID: "d2", Number: "WO-2", StartTime: clockPtr("09:00"), EndTime: clockPtr("10:30")},
	}
	if got := SuggestSlot(window(), dispatches, nil); got.String() != "10:30" {
		t.Fatalf("expected 10:30, got %s", got)
	}
}

func TestSuggestSlotSkipsLunch(t *testing.T) {
	dispatches := []model.Dispatch{
		{ID: "d1", Number: "WO-1", StartTime: clockPtr("10:00"), EndTime: clockPtr("12:00")},
	}
	// anchor lands exactly on lunch start, push to lunch end
	if got := SuggestSlot(window(), dispatches, nil); got.String() != "13:00" {
		t.Fatalf("expected 13:00, got %s", got)
	}

	dispatches[0].EndTime = clockPtr("13:00")
	// anchor exactly at lunch end stays put
	if got := SuggestSlot(window(), dispatches, nil); got.String() != "13:00" {
		t.Fatalf("expected 13:00, got %s", got)
	}
}

func TestSuggestSlotEstimatesMissingEnd(t *testing.T) {
	dispatches := []model.Dispatch{
		{ID: "d1", Number: "WO-1", StartTime: clockPtr("09:00")},
	}
	if got := SuggestSlot(window(), dispatches, nil); got.String() != "10:00" {
		t.Fatalf("expected 10:00 (start + default duration), got %s", got)
	}
}

func TestSuggestSlotUnsortedInput(t *testing.T) {
	dispatches := []model.Dispatch{
		{ID: "d2", Number: "WO-2", StartTime: clockPtr("14:00"), EndTime: clockPtr("15:00")},
		{ID: "d1", Number: "WO-1", StartTime: clockPtr("08:00"), EndTime: clockPtr("09:00")},
	}
	if got := SuggestSlot(window(), dispatches, nil); got.String() != "15:00" {
		t.Fatalf("expected 15:00, got %s", got)
	}
}
