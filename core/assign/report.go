package assign

import (
	"fmt"
	"strings"

	"github.com/kilianp07/fieldops/core/scheduling"
)

// Outcome classifies what a report describes. Every orchestrator path ends
// in a report; none of them throws.
type Outcome string

const (
	OutcomeProposed        Outcome = "proposed"
	OutcomeCommitted       Outcome = "committed"
	OutcomeFallback        Outcome = "fallback"
	OutcomeFailed          Outcome = "failed"
	OutcomeNotFound        Outcome = "not_found"
	OutcomeAlreadyAssigned Outcome = "already_assigned"
	OutcomeUnavailable     Outcome = "unavailable"
	OutcomeBadCommand      Outcome = "bad_command"
)

// Report is the orchestrator's answer to one command: human-readable text
// for direct display plus enough structure for callers that want it.
type Report struct {
	CorrelationID string    `json:"correlation_id"`
	Outcome       Outcome   `json:"outcome"`
	Text          string    `json:"text"`
	Proposal      *Proposal `json:"proposal,omitempty"`
	// Confirm is the canonical command to re-issue verbatim to commit the
	// proposal. Empty when there is nothing to confirm.
	Confirm string `json:"confirm,omitempty"`
}

type reportBuilder struct {
	b strings.Builder
}

func (r *reportBuilder) linef(format string, args ...any) {
	fmt.Fprintf(&r.b, format+"\n", args...)
}

func (r *reportBuilder) blank() { r.b.WriteString("\n") }

func (r *reportBuilder) String() string { return strings.TrimRight(r.b.String(), "\n") }

func proposalText(p *Proposal, confirm string) string {
	var rb reportBuilder
	rb.linef("Dispatch %s: proposed assignment", p.Dispatch.Number)
	rb.linef("Technician: %s", p.Technician.Name)
	if p.DateMoved {
		rb.linef("Date: %s (moved past a leave; please re-confirm for this new date)", p.Date)
	} else {
		rb.linef("Date: %s", p.Date)
	}
	rb.linef("Proposed start: %s", p.StartTime)
	rb.linef("Current workload: %d job(s), %d min", p.Workload.Count, p.Workload.TotalMinutes)
	if p.Workload.Overloaded {
		rb.linef("Note: this technician is close to the daily hour cap.")
	}
	for _, w := range p.Warnings {
		rb.linef("Warning: %s", w)
	}
	rb.blank()
	rb.linef("To confirm, reply: %s", confirm)
	return rb.String()
}

func rankingText(dispatchNumber string, date string, rankings []scheduling.Ranking, sum scheduling.FleetSummary, confirm string) string {
	var rb reportBuilder
	rb.linef("Dispatch %s: recommended technicians for %s", dispatchNumber, date)
	for i, r := range rankings {
		if i == 5 {
			break
		}
		if r.Available {
			rb.linef("%d. %s: score %d (%d job(s), %d min)", i+1, r.Technician.Name, r.Score, r.Workload.Count, r.Workload.TotalMinutes)
		} else {
			rb.linef("%d. %s: unavailable (%s)", i+1, r.Technician.Name, r.Reason)
		}
	}
	rb.linef("Fleet workload: %.0f min average (±%.0f).", sum.MeanMinutes, sum.StdDevMinutes)
	if confirm != "" {
		rb.blank()
		rb.linef("To assign the top match, reply: %s", confirm)
	}
	return rb.String()
}

func notFoundTechnicianText(ref string, samples []string) string {
	var rb reportBuilder
	rb.linef("No technician matches %q.", ref)
	if len(samples) > 0 {
		rb.linef("Known technicians include:")
		for _, n := range samples {
			rb.linef("- %s", n)
		}
	}
	return rb.String()
}

func manualBoardText(msg, boardURL string) string {
	var rb reportBuilder
	rb.linef("%s", msg)
	if boardURL != "" {
		rb.linef("You can schedule it manually here: %s", boardURL)
	}
	return rb.String()
}
