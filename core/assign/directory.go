package assign

import (
	"context"
	"fmt"
	"sync"

	coremetrics "github.com/kilianp07/fieldops/core/metrics"
	"github.com/kilianp07/fieldops/core/model"
)

// TechnicianDirectory lists the field workers known to the CRM.
type TechnicianDirectory interface {
	List(ctx context.Context) ([]model.Technician, error)
}

// ScheduleService returns a technician's weekly templates and leaves.
type ScheduleService interface {
	Roster(ctx context.Context, technicianID string) (model.Roster, error)
}

// DispatchDirectory lists dispatch records and carries the only two
// mutating calls the engine ever makes: the specialized assign endpoint
// and the generic record update used as its fallback.
type DispatchDirectory interface {
	List(ctx context.Context) ([]model.Dispatch, error)
	Assign(ctx context.Context, dispatchID, technicianID string, start model.ClockTime) error
	Update(ctx context.Context, d model.Dispatch) error
}

// Snapshot is the immutable view of the CRM an orchestrator call operates
// on. All computation within one request happens against this snapshot;
// nothing is re-fetched between resolution and proposal.
type Snapshot struct {
	Technicians []model.Technician
	Dispatches  []model.Dispatch
}

// loadSnapshot fans the independent directory reads out concurrently and
// joins them. Technician and dispatch listings are hard requirements; a
// failed roster fetch leaves that technician without schedule data, which
// downstream treats as "assume available".
func (m *Manager) loadSnapshot(ctx context.Context) (*Snapshot, error) {
	var (
		wg      sync.WaitGroup
		techs   []model.Technician
		disps   []model.Dispatch
		techErr error
		dispErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		techs, techErr = m.technicians.List(ctx)
	}()
	go func() {
		defer wg.Done()
		disps, dispErr = m.dispatches.List(ctx)
	}()
	wg.Wait()
	if techErr != nil {
		return nil, fmt.Errorf("list technicians: %w", techErr)
	}
	if dispErr != nil {
		return nil, fmt.Errorf("list dispatches: %w", dispErr)
	}

	var rwg sync.WaitGroup
	var mu sync.Mutex
	for i := range techs {
		rwg.Add(1)
		go func(i int) {
			defer rwg.Done()
			roster, err := m.schedules.Roster(ctx, techs[i].ID)
			if err != nil {
				m.log.Warnf("roster fetch for %s failed, assuming default schedule: %v", techs[i].ID, err)
				return
			}
			mu.Lock()
			techs[i].Week = roster.Week
			techs[i].Leaves = roster.Leaves
			mu.Unlock()
		}(i)
	}
	rwg.Wait()

	if rr, ok := m.metrics.(coremetrics.RosterSizeRecorder); ok {
		if err := rr.RecordRosterSize(len(techs)); err != nil {
			m.log.Errorf("roster size metrics error: %v", err)
		}
	}
	return &Snapshot{Technicians: techs, Dispatches: disps}, nil
}
