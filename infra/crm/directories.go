package crm

import (
	"context"
	"fmt"
	"net/url"

	"github.com/kilianp07/fieldops/core/model"
)

// technicianDTO mirrors the CRM's technician listing payload.
type technicianDTO struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

// List returns the technician directory without schedule data; rosters are
// fetched separately per technician.
func (c *Client) List(ctx context.Context) ([]model.Technician, error) {
	var dtos []technicianDTO
	if err := c.do(ctx, "GET", "/api/technicians", nil, &dtos); err != nil {
		return nil, err
	}
	out := make([]model.Technician, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, model.Technician{ID: d.ID, Name: d.Name, Roles: d.Roles})
	}
	return out, nil
}

type dayScheduleDTO struct {
	Enabled    bool   `json:"enabled"`
	FullDayOff bool   `json:"full_day_off"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	LunchStart string `json:"lunch_start"`
	LunchEnd   string `json:"lunch_end"`
}

type leaveDTO struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
}

type rosterDTO struct {
	DaySchedules map[string]dayScheduleDTO `json:"day_schedules"`
	Leaves       []leaveDTO                `json:"leaves"`
}

// Roster fetches one technician's weekly templates and leaves. Malformed
// entries are skipped rather than failing the whole roster; a missing
// template downstream means "assume available".
func (c *Client) Roster(ctx context.Context, technicianID string) (model.Roster, error) {
	var dto rosterDTO
	path := fmt.Sprintf("/api/technicians/%s/schedule", url.PathEscape(technicianID))
	if err := c.do(ctx, "GET", path, nil, &dto); err != nil {
		return model.Roster{}, err
	}

	var roster model.Roster
	for key, ds := range dto.DaySchedules {
		idx, ok := weekdayIndex(key)
		if !ok {
			continue
		}
		sched := model.DaySchedule{Enabled: ds.Enabled, FullDayOff: ds.FullDayOff}
		// Off days often come without time bounds; only working days need them.
		if ds.Enabled && !ds.FullDayOff {
			var err error
			if sched.Start, err = model.ParseClock(ds.StartTime); err != nil {
				continue
			}
			if sched.End, err = model.ParseClock(ds.EndTime); err != nil {
				continue
			}
			// Lunch bounds are optional; a missing window just means no break.
			sched.LunchStart, _ = model.ParseClock(ds.LunchStart)
			sched.LunchEnd, _ = model.ParseClock(ds.LunchEnd)
		}
		roster.Week[idx] = &sched
	}
	for _, l := range dto.Leaves {
		start, err := model.ParseDate(l.StartDate)
		if err != nil {
			continue
		}
		end, err := model.ParseDate(l.EndDate)
		if err != nil {
			continue
		}
		roster.Leaves = append(roster.Leaves, model.Leave{
			Start:  start,
			End:    end,
			Status: model.LeaveStatus(l.Status),
		})
	}
	return roster, nil
}

// weekdayIndex maps the CRM's weekday keys ("0".."6" or lowercase names,
// Sunday first) onto time.Weekday indices.
func weekdayIndex(key string) (int, bool) {
	switch key {
	case "0", "sunday":
		return 0, true
	case "1", "monday":
		return 1, true
	case "2", "tuesday":
		return 2, true
	case "3", "wednesday":
		return 3, true
	case "4", "thursday":
		return 4, true
	case "5", "friday":
		return 5, true
	case "6", "saturday":
		return 6, true
	}
	return 0, false
}
