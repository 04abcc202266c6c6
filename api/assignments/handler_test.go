package assignments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kilianp07/fieldops/core/assign"
	"github.com/kilianp07/fieldops/core/assign/logging"
	"github.com/kilianp07/fieldops/core/model"
	"github.com/kilianp07/fieldops/core/scheduling"
	"github.com/kilianp07/fieldops/infra/logger"
)

type fakeTechs struct{ techs []model.Technician }

func (f fakeTechs) List(context.Context) ([]model.Technician, error) { return f.techs, nil }

type fakeSchedules struct{ rosters map[string]model.Roster }

func (f fakeSchedules) Roster(_ context.Context, id string) (model.Roster, error) {
	return f.rosters[id], nil
}

type fakeDispatches struct{ dispatches []model.Dispatch }

func (f *fakeDispatches) List(context.Context) ([]model.Dispatch, error) { return f.dispatches, nil }
func (f *fakeDispatches) Assign(context.Context, string, string, model.ClockTime) error {
	return nil
}
func (f *fakeDispatches) Update(context.Context, model.Dispatch) error { return nil }

func testManager(t *testing.T) *assign.Manager {
	t.Helper()
	techs := fakeTechs{techs: []model.Technician{{ID: "t1", Name: "Maria Lopez"}}}
	scheds := fakeSchedules{rosters: map[string]model.Roster{}}
	disp := &fakeDispatches{dispatches: []model.Dispatch{{
		ID: "d1", Number: "WO-1001", Status: model.DispatchPending,
		ScheduledDate: model.MustDate("2026-09-01"),
	}}}
	mgr, err := assign.NewManager(techs, scheds, disp, scheduling.Policy{}, nil, nil, logger.NopLogger{}, "")
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	return mgr
}

func TestCommandHandler(t *testing.T) {
	h := NewCommandHandler(testManager(t), "tok")

	body := `{"command":"assign dispatch WO-1001 to Maria"}`
	req := httptest.NewRequest("POST", "/api/assignments/command", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer tok")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	var rep assign.Report
	if err := json.Unmarshal(rr.Body.Bytes(), &rep); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rep.Outcome != assign.OutcomeProposed {
		t.Fatalf("expected proposal, got %s: %s", rep.Outcome, rep.Text)
	}
	if rep.Confirm == "" {
		t.Fatalf("expected confirm command")
	}

	// unauthorized
	req = httptest.NewRequest("POST", "/api/assignments/command", strings.NewReader(body))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}

	// bad body
	req = httptest.NewRequest("POST", "/api/assignments/command", strings.NewReader("{}"))
	req.Header.Set("Authorization", "Bearer tok")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}

func TestCommandHandlerBadGrammar(t *testing.T) {
	h := NewCommandHandler(testManager(t), "")
	body := `{"command":"do something weird"}`
	req := httptest.NewRequest("POST", "/api/assignments/command", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var rep assign.Report
	if err := json.Unmarshal(rr.Body.Bytes(), &rep); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rep.Outcome != assign.OutcomeBadCommand {
		t.Fatalf("expected bad_command, got %s", rep.Outcome)
	}
}

type memStore struct{ recs []logging.LogRecord }

func (m *memStore) Append(_ context.Context, r logging.LogRecord) error {
	m.recs = append(m.recs, r)
	return nil
}

func (m *memStore) Query(_ context.Context, q logging.LogQuery) ([]logging.LogRecord, error) {
	var res []logging.LogRecord
	for _, r := range m.recs {
		if q.DispatchNumber != "" && r.DispatchNumber != q.DispatchNumber {
			continue
		}
		res = append(res, r)
	}
	return res, nil
}

func (m *memStore) Close() error { return nil }

func TestLogHandler_AuthAndFilters(t *testing.T) {
	store := &memStore{}
	if err := store.Append(context.Background(), logging.LogRecord{
		Timestamp:      time.Now(),
		CorrelationID:  "cid-1",
		Command:        "assign dispatch WO-1001 to Maria",
		Phase:          "preview",
		DispatchNumber: "WO-1001",
		Outcome:        "proposed",
	}); err != nil {
		t.Fatalf("append: %v", err)
	}
	h := NewLogHandler(store, "tok")

	req := httptest.NewRequest("GET", "/api/assignments/logs?dispatch_number=WO-1001", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var out []logging.LogRecord
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 record")
	}

	req = httptest.NewRequest("GET", "/api/assignments/logs", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
}
