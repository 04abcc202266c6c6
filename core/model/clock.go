package model

import (
	"fmt"
	"time"
)

// ClockTime is a wall-clock time of day stored as minutes since midnight.
// It carries no date or zone information; dispatch scheduling only ever
// reasons about local wall-clock windows.
type ClockTime int

// ParseClock parses "HH:MM" into a ClockTime.
func ParseClock(s string) (ClockTime, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock time %q out of range", s)
	}
	return ClockTime(h*60 + m), nil
}

// MustClock parses "HH:MM" and panics on error. Intended for constants and tests.
func MustClock(s string) ClockTime {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// AddMinutes returns the clock time shifted by n minutes, capped to the same day.
func (c ClockTime) AddMinutes(n int) ClockTime {
	v := int(c) + n
	if v < 0 {
		v = 0
	}
	if v > 23*60+59 {
		v = 23*60 + 59
	}
	return ClockTime(v)
}

// Before reports whether c is strictly earlier than other.
func (c ClockTime) Before(other ClockTime) bool { return c < other }

// Minutes returns the number of minutes since midnight.
func (c ClockTime) Minutes() int { return int(c) }

// Date is a civil date (year, month, day) with no time or zone component.
// Leave ranges and dispatch scheduling compare dates, never instants.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses "YYYY-MM-DD" into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// MustDate parses "YYYY-MM-DD" and panics on error. Intended for tests.
func MustDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DateOf truncates t to its civil date in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IsZero reports whether d is the zero date.
func (d Date) IsZero() bool { return d == Date{} }

func (d Date) time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Weekday returns the day of week for d.
func (d Date) Weekday() time.Weekday { return d.time().Weekday() }

// AddDays returns the date n days after d. Negative n goes backwards.
func (d Date) AddDays(n int) Date { return DateOf(d.time().AddDate(0, 0, n)) }

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool { return d.time().Before(other.time()) }

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool { return other.Before(d) }
