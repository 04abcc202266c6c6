package assign

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kilianp07/fieldops/core/model"
)

// Action selects the orchestrator phase a command triggers.
type Action string

const (
	ActionPreview Action = "preview"
	ActionExecute Action = "execute"
)

// Command is a parsed free-text assignment command.
type Command struct {
	Action        Action
	DispatchRef   string
	TechnicianRef string // empty means "rank and recommend"
	Date          *model.Date
	Time          *model.ClockTime
	Raw           string
}

var (
	// assign dispatch <NUMBER> [to <NAME>] [on <DATE>] [at <TIME>]
	assignRe = regexp.MustCompile(`(?i)^\s*assign\s+dispatch\s+(\S+)(?:\s+to\s+(.*?))?(?:\s+on\s+(\d{4}-\d{2}-\d{2}))?(?:\s+at\s+(\d{1,2}:\d{2}))?\s*$`)
	// confirm assign <NUMBER> to <NAME> at <TIME>
	confirmRe = regexp.MustCompile(`(?i)^\s*confirm\s+assign\s+(\S+)\s+to\s+(.+?)\s+at\s+(\d{1,2}:\d{2})\s*$`)
)

// ParseCommand parses the free-text grammar recognized by the orchestrator:
//
//	assign dispatch <NUMBER> [to <NAME>] [on <DATE>] [at <TIME>]   -> preview
//	confirm assign <NUMBER> to <NAME> at <TIME>                    -> execute
//
// Matching is case-insensitive. Omitting the technician name asks for a
// ranked recommendation instead of a specific assignment.
func ParseCommand(text string) (Command, error) {
	if m := confirmRe.FindStringSubmatch(text); m != nil {
		t, err := model.ParseClock(m[3])
		if err != nil {
			return Command{}, err
		}
		return Command{
			Action:        ActionExecute,
			DispatchRef:   m[1],
			TechnicianRef: strings.TrimSpace(m[2]),
			Time:          &t,
			Raw:           text,
		}, nil
	}
	if m := assignRe.FindStringSubmatch(text); m != nil {
		cmd := Command{
			Action:        ActionPreview,
			DispatchRef:   m[1],
			TechnicianRef: strings.TrimSpace(m[2]),
			Raw:           text,
		}
		if m[3] != "" {
			d, err := model.ParseDate(m[3])
			if err != nil {
				return Command{}, err
			}
			cmd.Date = &d
		}
		if m[4] != "" {
			t, err := model.ParseClock(m[4])
			if err != nil {
				return Command{}, err
			}
			cmd.Time = &t
		}
		return cmd, nil
	}
	return Command{}, fmt.Errorf("unrecognized command %q", strings.TrimSpace(text))
}

// ConfirmCommand renders the canonical confirmation string for a proposal.
// Re-issuing it verbatim triggers the execute phase with the same inputs.
func ConfirmCommand(dispatchNumber, technicianName string, start model.ClockTime) string {
	return fmt.Sprintf("confirm assign %s to %s at %s", dispatchNumber, technicianName, start)
}
