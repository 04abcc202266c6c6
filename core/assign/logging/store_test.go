package logging

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func sampleRecord(ts time.Time, number, techID string) LogRecord {
	return LogRecord{
		Timestamp:      ts,
		CorrelationID:  "cid-" + number,
		Command:        "assign dispatch " + number + " to Maria",
		Phase:          "preview",
		DispatchNumber: number,
		TechnicianID:   techID,
		TechnicianName: "Maria Lopez",
		Date:           "2026-09-01",
		StartTime:      "09:00",
		Outcome:        "proposed",
	}
}

func TestJSONLStore_PersistQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	store, err := NewJSONLStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = store.Close() }()

	now := time.Now()
	if err := store.Append(context.Background(), sampleRecord(now, "WO-1", "t1")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.Append(context.Background(), sampleRecord(now, "WO-2", "t2")); err != nil {
		t.Fatalf("append: %v", err)
	}

	out, err := store.Query(context.Background(), LogQuery{DispatchNumber: "WO-1"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(out) != 1 || out[0].TechnicianID != "t1" {
		t.Fatalf("unexpected result: %+v", out)
	}
	out, err = store.Query(context.Background(), LogQuery{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
}

func TestJSONLStore_TimeFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	store, err := NewJSONLStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	old := time.Now().Add(-2 * time.Hour)
	recent := time.Now()
	_ = store.Append(context.Background(), sampleRecord(old, "WO-1", "t1"))
	_ = store.Append(context.Background(), sampleRecord(recent, "WO-2", "t1"))

	out, err := store.Query(context.Background(), LogQuery{Start: time.Now().Add(-time.Hour)})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(out) != 1 || out[0].DispatchNumber != "WO-2" {
		t.Fatalf("time filter broken: %+v", out)
	}
}

func TestSQLiteStore_PersistQuery(t *testing.T) {
	store, err := NewSQLiteStore("file:test.db?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = store.Close() }()

	now := time.Now()
	if err := store.Append(context.Background(), sampleRecord(now, "WO-1", "t1")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.Append(context.Background(), sampleRecord(now, "WO-2", "t2")); err != nil {
		t.Fatalf("append: %v", err)
	}

	out, err := store.Query(context.Background(), LogQuery{TechnicianID: "t2"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(out) != 1 || out[0].DispatchNumber != "WO-2" {
		t.Fatalf("unexpected result: %+v", out)
	}
	if out[0].Command == "" || out[0].Outcome != "proposed" {
		t.Fatalf("record did not round trip: %+v", out[0])
	}
}

func TestRotatingJSONLStore_PersistQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	store, err := NewRotatingJSONLStore(path, 1, 1, 1)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Append(context.Background(), sampleRecord(time.Now(), "WO-1", "t1")); err != nil {
		t.Fatalf("append: %v", err)
	}
	out, err := store.Query(context.Background(), LogQuery{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %d", len(out))
	}
}

func TestNewStoreSelectsBackend(t *testing.T) {
	dir := t.TempDir()
	if _, err := NewStore("jsonl", filepath.Join(dir, "a.log"), 0, 0, 0); err != nil {
		t.Fatalf("jsonl: %v", err)
	}
	if _, err := NewStore("jsonl", filepath.Join(dir, "b.log"), 5, 2, 7); err != nil {
		t.Fatalf("rotating jsonl: %v", err)
	}
	if _, err := NewStore("sqlite", filepath.Join(dir, "c.db"), 0, 0, 0); err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	if _, err := NewStore("csv", filepath.Join(dir, "d.csv"), 0, 0, 0); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
