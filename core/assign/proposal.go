package assign

import (
	"github.com/kilianp07/fieldops/core/model"
	"github.com/kilianp07/fieldops/core/scheduling"
)

// Proposal is the transient outcome of a preview. It lives for one
// request/response cycle and is never persisted: confirmation is a fresh
// command that re-derives everything from scratch.
type Proposal struct {
	Dispatch   model.Dispatch      `json:"dispatch"`
	Technician model.Technician    `json:"technician"`
	Date       model.Date          `json:"date"`
	StartTime  model.ClockTime     `json:"start_time"`
	Workload   scheduling.Workload `json:"workload"`
	// Score is the technician's suitability under the current policy,
	// mirroring what the ranker would report for the same date.
	Score int `json:"score"`
	// DateMoved is set when the requested date fell inside a leave and the
	// proposal was shifted to the day after the leave ends.
	DateMoved bool     `json:"date_moved"`
	Warnings  []string `json:"warnings,omitempty"`
}
