package crm

import (
	"context"
	"fmt"
	"net/url"

	"github.com/kilianp07/fieldops/core/model"
)

type dispatchDTO struct {
	ID                    string   `json:"id"`
	Number                string   `json:"number"`
	Status                string   `json:"status"`
	ScheduledDate         string   `json:"scheduled_date"`
	ScheduledStartTime    string   `json:"scheduled_start_time"`
	ScheduledEndTime      string   `json:"scheduled_end_time"`
	AssignedTechnicianIDs []string `json:"assigned_technician_ids"`
}

func (d dispatchDTO) toModel() model.Dispatch {
	out := model.Dispatch{
		ID:                    d.ID,
		Number:                d.Number,
		Status:                model.DispatchStatus(d.Status),
		AssignedTechnicianIDs: d.AssignedTechnicianIDs,
	}
	if date, err := model.ParseDate(d.ScheduledDate); err == nil {
		out.ScheduledDate = date
	}
	if t, err := model.ParseClock(d.ScheduledStartTime); err == nil {
		out.StartTime = &t
	}
	if t, err := model.ParseClock(d.ScheduledEndTime); err == nil {
		out.EndTime = &t
	}
	return out
}

func fromModel(d model.Dispatch) dispatchDTO {
	dto := dispatchDTO{
		ID:                    d.ID,
		Number:                d.Number,
		Status:                string(d.Status),
		AssignedTechnicianIDs: d.AssignedTechnicianIDs,
	}
	if !d.ScheduledDate.IsZero() {
		dto.ScheduledDate = d.ScheduledDate.String()
	}
	if d.StartTime != nil {
		dto.ScheduledStartTime = d.StartTime.String()
	}
	if d.EndTime != nil {
		dto.ScheduledEndTime = d.EndTime.String()
	}
	return dto
}

// ListDispatches returns every dispatch record the CRM holds.
func (c *Client) ListDispatches(ctx context.Context) ([]model.Dispatch, error) {
	var dtos []dispatchDTO
	if err := c.do(ctx, "GET", "/api/dispatches", nil, &dtos); err != nil {
		return nil, err
	}
	out := make([]model.Dispatch, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toModel())
	}
	return out, nil
}

// Assign calls the specialized assignment endpoint: the CRM appends the
// technician and flips the dispatch to assigned server-side.
func (c *Client) Assign(ctx context.Context, dispatchID, technicianID string, start model.ClockTime) error {
	body := map[string]string{
		"technician_id": technicianID,
		"start_time":    start.String(),
	}
	path := fmt.Sprintf("/api/dispatches/%s/assign", url.PathEscape(dispatchID))
	return c.do(ctx, "POST", path, body, nil)
}

// dispatchDirectory narrows the client to the dispatch surface so the
// dispatch List call does not collide with the technician one.
type DispatchDirectory struct{ c *Client }

func (d DispatchDirectory) List(ctx context.Context) ([]model.Dispatch, error) {
	return d.c.ListDispatches(ctx)
}

func (d DispatchDirectory) Assign(ctx context.Context, dispatchID, technicianID string, start model.ClockTime) error {
	return d.c.Assign(ctx, dispatchID, technicianID, start)
}

func (d DispatchDirectory) Update(ctx context.Context, dsp model.Dispatch) error {
	return d.c.Update(ctx, dsp)
}

// Dispatches returns the client's dispatch-directory view.
func (c *Client) Dispatches() DispatchDirectory {
	return DispatchDirectory{c: c}
}

// Update overwrites the dispatch record wholesale. Used as the fallback
// tier when Assign fails. There is no optimistic-concurrency check; an
// If-Match/version header on this call is the extension point if
// concurrent dispatchers ever need correctness guarantees.
func (c *Client) Update(ctx context.Context, d model.Dispatch) error {
	path := fmt.Sprintf("/api/dispatches/%s", url.PathEscape(d.ID))
	return c.do(ctx, "PATCH", path, fromModel(d), nil)
}
