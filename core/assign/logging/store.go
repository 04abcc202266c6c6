package logging

import (
	"context"
	"fmt"
	"time"
)

// LogRecord captures one orchestrator decision for the audit trail: what
// was asked, how the references resolved and what came out.
type LogRecord struct {
	Timestamp      time.Time `json:"timestamp"`
	CorrelationID  string    `json:"correlation_id"`
	Command        string    `json:"command"`
	Phase          string    `json:"phase"` // "preview" or "execute"
	DispatchNumber string    `json:"dispatch_number,omitempty"`
	TechnicianID   string    `json:"technician_id,omitempty"`
	TechnicianName string    `json:"technician_name,omitempty"`
	Date           string    `json:"date,omitempty"`
	StartTime      string    `json:"start_time,omitempty"`
	Outcome        string    `json:"outcome"`
	UsedFallback   bool      `json:"used_fallback,omitempty"`
	Detail         string    `json:"detail,omitempty"`
}

// LogQuery defines filters for retrieving records.
type LogQuery struct {
	Start          time.Time
	End            time.Time
	DispatchNumber string
	TechnicianID   string
}

func (q LogQuery) matches(r LogRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.DispatchNumber != "" && r.DispatchNumber != q.DispatchNumber {
		return false
	}
	if q.TechnicianID != "" && r.TechnicianID != q.TechnicianID {
		return false
	}
	return true
}

// LogStore persists LogRecords and supports querying.
type LogStore interface {
	Append(ctx context.Context, rec LogRecord) error
	Query(ctx context.Context, q LogQuery) ([]LogRecord, error)
	Close() error
}

// NewStore builds a LogStore for the given backend. Rotation settings only
// apply to the jsonl backend and are ignored otherwise.
func NewStore(backend, path string, maxSizeMB, maxBackups, maxAgeDays int) (LogStore, error) {
	switch backend {
	case "jsonl":
		if maxSizeMB > 0 {
			return NewRotatingJSONLStore(path, maxSizeMB, maxBackups, maxAgeDays)
		}
		return NewJSONLStore(path)
	case "sqlite":
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown audit backend %s", backend)
	}
}
