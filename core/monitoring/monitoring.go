// Package monitoring exposes a process-wide error reporter. Persistence and
// transport failures that the command pipeline downgrades to soft outcomes
// are still worth surfacing to an external tracker.
package monitoring

import "time"

// Monitor receives errors that were handled but should not go unnoticed.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	Recover()
	Flush(timeout time.Duration)
}

// NopMonitor drops everything. It is the default until Init is called.
type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) Recover()                                  {}
func (NopMonitor) Flush(time.Duration)                       {}

var current Monitor = NopMonitor{}

// Init installs the monitor implementation used by the package helpers.
func Init(m Monitor) {
	if m != nil {
		current = m
	}
}

// CaptureException forwards err to the installed monitor. Tags give the
// tracker enough context to group events (dispatch number, phase).
func CaptureException(err error, tags map[string]string) {
	current.CaptureException(err, tags)
}

// Recover reports a panic from a background goroutine, then re-panics.
// Use with defer.
func Recover() {
	current.Recover()
}

// Flush blocks until buffered events are delivered or the timeout elapses.
func Flush(d time.Duration) {
	current.Flush(d)
}
