package assign

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/fieldops/core/assign/logging"
	"github.com/kilianp07/fieldops/core/events"
	"github.com/kilianp07/fieldops/core/logger"
	coremetrics "github.com/kilianp07/fieldops/core/metrics"
	"github.com/kilianp07/fieldops/core/model"
	"github.com/kilianp07/fieldops/core/monitoring"
	"github.com/kilianp07/fieldops/core/scheduling"
	"github.com/kilianp07/fieldops/internal/eventbus"
)

// sampleLimit caps how many technician names a not-found notice lists.
const sampleLimit = 5

// Manager drives the two-phase assignment workflow: preview builds a
// proposal from an immutable CRM snapshot, execute re-resolves everything
// from scratch and commits. No state is carried between the two phases.
type Manager struct {
	technicians TechnicianDirectory
	schedules   ScheduleService
	dispatches  DispatchDirectory
	policy      scheduling.Policy
	log         logger.Logger
	metrics     coremetrics.MetricsSink
	bus         eventbus.EventBus
	store       logging.LogStore
	boardURL    string
	now         func() time.Time
}

// NewManager creates a new manager. boardURL is the manual scheduling board
// linked from degraded reports; it may be empty.
func NewManager(techs TechnicianDirectory, schedules ScheduleService, dispatches DispatchDirectory, policy scheduling.Policy, sink coremetrics.MetricsSink, bus eventbus.EventBus, log logger.Logger, boardURL string) (*Manager, error) {
	if techs == nil || schedules == nil || dispatches == nil {
		return nil, fmt.Errorf("assign: nil directory provided to NewManager")
	}
	if log == nil {
		return nil, fmt.Errorf("assign: nil logger provided to NewManager")
	}
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	policy.SetDefaults()
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("assign: %w", err)
	}
	return &Manager{
		technicians: techs,
		schedules:   schedules,
		dispatches:  dispatches,
		policy:      policy,
		log:         log,
		metrics:     sink,
		bus:         bus,
		boardURL:    boardURL,
		now:         time.Now,
	}, nil
}

// SetLogStore configures the store used to persist the audit trail.
func (m *Manager) SetLogStore(store logging.LogStore) { m.store = store }

// SetClock overrides the time source. Intended for tests.
func (m *Manager) SetClock(now func() time.Time) {
	if now != nil {
		m.now = now
	}
}

// Close releases resources held by the manager.
func (m *Manager) Close() error {
	if m.bus != nil {
		m.bus.Close()
	}
	if m.store != nil {
		return m.store.Close()
	}
	return nil
}

// Handle parses a free-text command and routes it to the matching phase.
// Every path returns a displayable report; nothing escapes as an error.
func (m *Manager) Handle(ctx context.Context, text string) *Report {
	start := m.now()
	cid := uuid.NewString()

	cmd, err := ParseCommand(text)
	if err != nil {
		m.log.Debugf("command rejected: %v", err)
		commandsHandled.WithLabelValues("parse", string(OutcomeBadCommand)).Inc()
		return &Report{
			CorrelationID: cid,
			Outcome:       OutcomeBadCommand,
			Text: "I did not understand that. Try:\n" +
				"- assign dispatch <NUMBER> to <NAME> [on <DATE>] [at <TIME>]\n" +
				"- confirm assign <NUMBER> to <NAME> at <TIME>",
		}
	}
	if m.bus != nil {
		m.bus.Publish(events.CommandEvent{CorrelationID: cid, Raw: text, Action: string(cmd.Action)})
	}

	var rep *Report
	switch cmd.Action {
	case ActionExecute:
		rep = m.execute(ctx, cmd, cid)
	default:
		rep = m.preview(ctx, cmd, cid)
	}

	elapsed := m.now().Sub(start)
	commandDuration.WithLabelValues(string(cmd.Action)).Observe(elapsed.Seconds())
	commandsHandled.WithLabelValues(string(cmd.Action), string(rep.Outcome)).Inc()
	if lr, ok := m.metrics.(coremetrics.LatencyRecorder); ok {
		rec := coremetrics.CommandLatency{
			CorrelationID: cid,
			Phase:         string(cmd.Action),
			Latency:       elapsed,
			Failed:        rep.Outcome == OutcomeFailed,
		}
		if err := lr.RecordCommandLatency([]coremetrics.CommandLatency{rec}); err != nil {
			m.log.Errorf("latency metrics error: %v", err)
		}
	}
	return rep
}

// Preview resolves the command and builds an assignment proposal without
// mutating anything.
func (m *Manager) Preview(ctx context.Context, cmd Command) *Report {
	return m.preview(ctx, cmd, uuid.NewString())
}

// Execute re-resolves the command and commits the assignment with the
// two-tier persistence fallback.
func (m *Manager) Execute(ctx context.Context, cmd Command) *Report {
	return m.execute(ctx, cmd, uuid.NewString())
}

//nolint:gocyclo
func (m *Manager) preview(ctx context.Context, cmd Command, cid string) *Report {
	snap, err := m.loadSnapshot(ctx)
	if err != nil {
		return m.degraded(cid, "preview", cmd, err)
	}

	d, warnings, rep := m.resolveDispatchRef(cid, cmd, snap)
	if rep != nil {
		return rep
	}
	date := m.targetDate(cmd, d)

	if cmd.TechnicianRef == "" {
		return m.recommend(ctx, cid, cmd, d, date, snap)
	}

	matches := ResolveTechnician(cmd.TechnicianRef, snap.Technicians)
	if len(matches) == 0 {
		rep := &Report{
			CorrelationID: cid,
			Outcome:       OutcomeNotFound,
			Text:          notFoundTechnicianText(cmd.TechnicianRef, sampleNames(snap.Technicians, sampleLimit)),
		}
		m.finish(ctx, cid, "preview", cmd, rep, nil, &d, nil)
		return rep
	}
	tech := matches[0]
	if len(matches) > 1 {
		warnings = append(warnings, ambiguityWarning("technicians", technicianNames(matches[1:])))
	}

	if d.AssignedTo(tech.ID) {
		rep := &Report{
			CorrelationID: cid,
			Outcome:       OutcomeAlreadyAssigned,
			Text:          fmt.Sprintf("%s is already assigned to dispatch %s.", tech.Name, d.Number),
		}
		m.finish(ctx, cid, "preview", cmd, rep, &tech, &d, nil)
		return rep
	}

	avail := scheduling.ResolveAvailability(m.policy, tech, date)
	dateMoved := false
	if !avail.Available {
		switch avail.Reason {
		case scheduling.ReasonOnLeave:
			// Scheduling conflicts are not errors: shift to the first day
			// after the leave and ask for a fresh confirmation.
			leave, _ := tech.LeaveOn(date)
			date = leave.End.AddDays(1)
			dateMoved = true
			avail = scheduling.ResolveAvailability(m.policy, tech, date)
			if !avail.Available {
				avail.Window = m.defaultWindow()
				warnings = append(warnings, fmt.Sprintf("%s is marked %q on %s as well; verify before confirming", tech.Name, avail.Reason, date))
			}
		default:
			rep := &Report{
				CorrelationID: cid,
				Outcome:       OutcomeUnavailable,
				Text:          m.unavailableText(tech, date, avail.Reason, snap),
			}
			m.finish(ctx, cid, "preview", cmd, rep, &tech, &d, nil)
			return rep
		}
	}

	workload := scheduling.ComputeWorkload(m.policy, tech.ID, date, snap.Dispatches)
	existing := scheduling.ActiveDispatches(tech.ID, date, snap.Dispatches)
	slot := scheduling.SuggestSlot(avail.Window, existing, cmd.Time)
	warnings = append(warnings, m.explicitTimeWarnings(cmd.Time, avail.Window, existing)...)

	proposal := &Proposal{
		Dispatch:   d,
		Technician: tech,
		Date:       date,
		StartTime:  slot,
		Workload:   workload,
		Score:      m.policy.Score(workload),
		DateMoved:  dateMoved,
		Warnings:   warnings,
	}
	confirm := ConfirmCommand(d.Number, tech.Name, slot)
	rep = &Report{
		CorrelationID: cid,
		Outcome:       OutcomeProposed,
		Text:          proposalText(proposal, confirm),
		Proposal:      proposal,
		Confirm:       confirm,
	}

	if m.bus != nil {
		m.bus.Publish(events.ProposalEvent{
			CorrelationID:  cid,
			DispatchNumber: d.Number,
			TechnicianID:   tech.ID,
			Date:           date,
			StartTime:      slot,
			Warnings:       warnings,
		})
	}
	m.finish(ctx, cid, "preview", cmd, rep, &tech, &d, &slot)
	return rep
}

//nolint:gocyclo
func (m *Manager) execute(ctx context.Context, cmd Command, cid string) *Report {
	snap, err := m.loadSnapshot(ctx)
	if err != nil {
		return m.degraded(cid, "execute", cmd, err)
	}

	d, _, rep := m.resolveDispatchRef(cid, cmd, snap)
	if rep != nil {
		return rep
	}

	matches := ResolveTechnician(cmd.TechnicianRef, snap.Technicians)
	if len(matches) == 0 {
		rep := &Report{
			CorrelationID: cid,
			Outcome:       OutcomeNotFound,
			Text:          notFoundTechnicianText(cmd.TechnicianRef, sampleNames(snap.Technicians, sampleLimit)),
		}
		m.finish(ctx, cid, "execute", cmd, rep, nil, &d, nil)
		return rep
	}
	tech := matches[0]

	if d.AssignedTo(tech.ID) {
		rep := &Report{
			CorrelationID: cid,
			Outcome:       OutcomeAlreadyAssigned,
			Text:          fmt.Sprintf("%s is already assigned to dispatch %s.", tech.Name, d.Number),
		}
		m.finish(ctx, cid, "execute", cmd, rep, &tech, &d, nil)
		return rep
	}

	start := cmd.Time
	if start == nil {
		date := m.targetDate(cmd, d)
		avail := scheduling.ResolveAvailability(m.policy, tech, date)
		if !avail.Available {
			avail.Window = m.defaultWindow()
		}
		s := scheduling.SuggestSlot(avail.Window, scheduling.ActiveDispatches(tech.ID, date, snap.Dispatches), nil)
		start = &s
	}

	usedFallback := false
	if err := m.dispatches.Assign(ctx, d.ID, tech.ID, *start); err != nil {
		m.log.Warnf("assign endpoint failed for %s, trying generic update: %v", d.Number, err)
		upd := d
		upd.AssignedTechnicianIDs = append(append([]string{}, d.AssignedTechnicianIDs...), tech.ID)
		upd.Status = model.DispatchAssigned
		upd.StartTime = start
		if uerr := m.dispatches.Update(ctx, upd); uerr != nil {
			commitFailures.Inc()
			m.log.Errorf("both persistence tiers failed for %s: %v", d.Number, uerr)
			monitoring.CaptureException(uerr, map[string]string{"dispatch": d.Number, "phase": "execute"})
			if m.bus != nil {
				m.bus.Publish(events.CommitFailureEvent{CorrelationID: cid, DispatchNumber: d.Number, TechnicianID: tech.ID, Err: uerr})
			}
			rep := &Report{
				CorrelationID: cid,
				Outcome:       OutcomeFailed,
				Text: manualBoardText(
					fmt.Sprintf("Could not record the assignment of %s to dispatch %s.", tech.Name, d.Number),
					m.boardURL),
			}
			m.finish(ctx, cid, "execute", cmd, rep, &tech, &d, start)
			return rep
		}
		persistenceFallback.Inc()
		usedFallback = true
	}

	outcome := OutcomeCommitted
	if usedFallback {
		outcome = OutcomeFallback
	}
	rep = &Report{
		CorrelationID: cid,
		Outcome:       outcome,
		Text:          fmt.Sprintf("Assigned %s to dispatch %s at %s.", tech.Name, d.Number, start),
	}
	if m.bus != nil {
		m.bus.Publish(events.AssignEvent{
			CorrelationID:  cid,
			DispatchID:     d.ID,
			DispatchNumber: d.Number,
			TechnicianID:   tech.ID,
			TechnicianName: tech.Name,
			Date:           d.ScheduledDate,
			StartTime:      *start,
			UsedFallback:   usedFallback,
		})
	}
	m.finish(ctx, cid, "execute", cmd, rep, &tech, &d, start)
	return rep
}

// recommend handles previews with no technician reference: rank everyone
// and surface the best candidates.
func (m *Manager) recommend(ctx context.Context, cid string, cmd Command, d model.Dispatch, date model.Date, snap *Snapshot) *Report {
	rankings, sum := scheduling.Rank(m.policy, snap.Technicians, date, snap.Dispatches)
	confirm := ""
	for _, r := range rankings {
		if r.Available {
			existing := scheduling.ActiveDispatches(r.Technician.ID, date, snap.Dispatches)
			win := scheduling.ResolveAvailability(m.policy, r.Technician, date).Window
			confirm = ConfirmCommand(d.Number, r.Technician.Name, scheduling.SuggestSlot(win, existing, cmd.Time))
			break
		}
	}
	outcome := OutcomeProposed
	if confirm == "" {
		outcome = OutcomeUnavailable
	}
	rep := &Report{
		CorrelationID: cid,
		Outcome:       outcome,
		Text:          rankingText(d.Number, date.String(), rankings, sum, confirm),
		Confirm:       confirm,
	}
	m.finish(ctx, cid, "preview", cmd, rep, nil, &d, nil)
	return rep
}

func (m *Manager) resolveDispatchRef(cid string, cmd Command, snap *Snapshot) (model.Dispatch, []string, *Report) {
	matches := ResolveDispatch(cmd.DispatchRef, snap.Dispatches)
	if len(matches) == 0 {
		return model.Dispatch{}, nil, &Report{
			CorrelationID: cid,
			Outcome:       OutcomeNotFound,
			Text:          fmt.Sprintf("No dispatch matches %q.", cmd.DispatchRef),
		}
	}
	var warnings []string
	if len(matches) > 1 {
		warnings = append(warnings, ambiguityWarning("dispatches", dispatchNumbers(matches[1:])))
	}
	return matches[0], warnings, nil
}

// targetDate picks the date a proposal is built for: the command's explicit
// date, else the dispatch's scheduled date, else today.
func (m *Manager) targetDate(cmd Command, d model.Dispatch) model.Date {
	if cmd.Date != nil {
		return *cmd.Date
	}
	if !d.ScheduledDate.IsZero() {
		return d.ScheduledDate
	}
	return model.DateOf(m.now())
}

func (m *Manager) defaultWindow() scheduling.WorkWindow {
	return scheduling.WorkWindow{
		Start:      m.policy.DefaultStart,
		End:        m.policy.DefaultEnd,
		LunchStart: m.policy.DefaultLunchStart,
		LunchEnd:   m.policy.DefaultLunchEnd,
	}
}

// explicitTimeWarnings surfaces conflicts with a caller-forced start time.
// The override is honored either way; these only inform the dispatcher.
func (m *Manager) explicitTimeWarnings(explicit *model.ClockTime, win scheduling.WorkWindow, existing []model.Dispatch) []string {
	if explicit == nil {
		return nil
	}
	var out []string
	t := *explicit
	if !t.Before(win.LunchStart) && t.Before(win.LunchEnd) {
		out = append(out, fmt.Sprintf("requested time %s falls inside the lunch break (%s–%s)", t, win.LunchStart, win.LunchEnd))
	}
	if t.Before(win.Start) || !t.Before(win.End) {
		out = append(out, fmt.Sprintf("requested time %s is outside working hours (%s–%s)", t, win.Start, win.End))
	}
	for _, d := range existing {
		if d.StartTime == nil {
			continue
		}
		end, _ := d.EndOrEstimate()
		if !t.Before(*d.StartTime) && t.Before(end) {
			out = append(out, fmt.Sprintf("requested time %s overlaps dispatch %s (%s–%s)", t, d.Number, d.StartTime, end))
		}
	}
	return out
}

func (m *Manager) unavailableText(tech model.Technician, date model.Date, reason string, snap *Snapshot) string {
	text := fmt.Sprintf("%s is unavailable on %s: %s.", tech.Name, date, reason)
	rankings, _ := scheduling.Rank(m.policy, snap.Technicians, date, snap.Dispatches)
	var alts []string
	for _, r := range rankings {
		if r.Available && r.Technician.ID != tech.ID {
			alts = append(alts, fmt.Sprintf("%s (score %d)", r.Technician.Name, r.Score))
		}
		if len(alts) == 3 {
			break
		}
	}
	if len(alts) > 0 {
		text += fmt.Sprintf("\nAvailable instead: %s.", joinList(alts))
	}
	return text
}

// degraded is the answer when the CRM itself could not be read: point the
// dispatcher at the manual board instead of failing.
func (m *Manager) degraded(cid, phase string, cmd Command, err error) *Report {
	m.log.Errorf("%s snapshot failed: %v", phase, err)
	rep := &Report{
		CorrelationID: cid,
		Outcome:       OutcomeFailed,
		Text:          manualBoardText("The scheduling data is unreachable right now.", m.boardURL),
	}
	m.audit(context.Background(), cid, phase, cmd, rep, nil, nil, nil)
	return rep
}

// finish records the report in the metrics sink and the audit trail.
func (m *Manager) finish(ctx context.Context, cid, phase string, cmd Command, rep *Report, tech *model.Technician, d *model.Dispatch, start *model.ClockTime) {
	rec := coremetrics.AssignmentRecord{
		CorrelationID: cid,
		Phase:         phase,
		Outcome:       string(rep.Outcome),
		UsedFallback:  rep.Outcome == OutcomeFallback,
		Time:          m.now(),
	}
	if d != nil {
		rec.DispatchNumber = d.Number
	}
	if start != nil {
		rec.StartTime = *start
	}
	if rep.Proposal != nil {
		rec.Date = rep.Proposal.Date
		rec.StartTime = rep.Proposal.StartTime
		rec.Score = rep.Proposal.Score
	}
	if tech != nil {
		rec.TechnicianID = tech.ID
		rec.TechnicianName = tech.Name
	}
	if err := m.metrics.RecordAssignment([]coremetrics.AssignmentRecord{rec}); err != nil {
		m.log.Errorf("metrics error: %v", err)
	}
	m.audit(ctx, cid, phase, cmd, rep, tech, d, start)
}

func (m *Manager) audit(ctx context.Context, cid, phase string, cmd Command, rep *Report, tech *model.Technician, d *model.Dispatch, start *model.ClockTime) {
	if m.store == nil {
		return
	}
	rec := logging.LogRecord{
		Timestamp:     m.now(),
		CorrelationID: cid,
		Command:       cmd.Raw,
		Phase:         phase,
		Outcome:       string(rep.Outcome),
		UsedFallback:  rep.Outcome == OutcomeFallback,
	}
	if d != nil {
		rec.DispatchNumber = d.Number
	}
	if start != nil {
		rec.StartTime = start.String()
	}
	if rep.Proposal != nil {
		rec.Date = rep.Proposal.Date.String()
		rec.StartTime = rep.Proposal.StartTime.String()
	}
	if tech != nil {
		rec.TechnicianID = tech.ID
		rec.TechnicianName = tech.Name
	}
	if err := m.store.Append(ctx, rec); err != nil {
		m.log.Errorf("audit append failed: %v", err)
	}
}

func ambiguityWarning(kind string, others []string) string {
	return fmt.Sprintf("other %s also match: %s; re-issue with a more specific reference if this is the wrong one", kind, joinList(others))
}

func technicianNames(ts []model.Technician) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Name
	}
	return out
}

func dispatchNumbers(ds []model.Dispatch) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Number
	}
	return out
}

func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	out := items[0]
	for _, s := range items[1:] {
		out += ", " + s
	}
	return out
}
