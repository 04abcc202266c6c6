package model

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	c, err := ParseClock("09:30")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Minutes() != 9*60+30 {
		t.Fatalf("expected 570 got %d", c.Minutes())
	}
	if c.String() != "09:30" {
		t.Fatalf("round trip got %s", c.String())
	}
}

func TestParseClockRejectsOutOfRange(t *testing.T) {
	for _, s := range []string{"24:00", "12:60", "-1:00", "noon"} {
		if _, err := ParseClock(s); err == nil {
			t.Errorf("expected error for %q", s)
		}
	}
}

func TestClockAddMinutesCaps(t *testing.T) {
	c := MustClock("23:30")
	if got := c.AddMinutes(60); got.String() != "23:59" {
		t.Fatalf("expected cap at 23:59, got %s", got)
	}
	if got := MustClock("00:10").AddMinutes(-30); got.String() != "00:00" {
		t.Fatalf("expected floor at 00:00, got %s", got)
	}
}

func TestClockBefore(t *testing.T) {
	if !MustClock("08:00").Before(MustClock("08:01")) {
		t.Fatalf("08:00 should be before 08:01")
	}
	if MustClock("08:00").Before(MustClock("08:00")) {
		t.Fatalf("Before must be strict")
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-08-31")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.String() != "2026-08-31" {
		t.Fatalf("round trip got %s", d)
	}
	if d.Weekday() != time.Monday {
		t.Fatalf("expected Monday got %s", d.Weekday())
	}
	if _, err := ParseDate("31/08/2026"); err == nil {
		t.Fatalf("expected error for wrong layout")
	}
}

func TestDateAddDaysCrossesMonth(t *testing.T) {
	d := MustDate("2026-08-31").AddDays(1)
	if d.String() != "2026-09-01" {
		t.Fatalf("expected 2026-09-01 got %s", d)
	}
	if !MustDate("2026-08-31").Before(d) || !d.After(MustDate("2026-08-31")) {
		t.Fatalf("ordering broken")
	}
}

func TestDateOfUsesLocalDate(t *testing.T) {
	loc := time.FixedZone("plus12", 12*3600)
	ts := time.Date(2026, 8, 31, 23, 0, 0, 0, loc)
	if got := DateOf(ts); got.String() != "2026-08-31" {
		t.Fatalf("expected local civil date, got %s", got)
	}
}
