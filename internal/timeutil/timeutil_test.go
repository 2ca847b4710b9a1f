package timeutil

import (
	"testing"
	"time"
)

func TestDayBounds(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	anchor := time.Date(2026, 2, 10, 14, 30, 0, 0, loc)
	start, end := DayBounds(anchor)
	if got, want := start.Format(time.RFC3339), "2026-02-10T00:00:00+02:00"; got != want {
		t.Fatalf("start=%s want=%s", got, want)
	}
	if got, want := end.Format(time.RFC3339), "2026-02-10T23:59:59+02:00"; got != want {
		t.Fatalf("end=%s want=%s", got, want)
	}
}

func TestClampToDay(t *testing.T) {
	loc := time.UTC
	start, end := DayBounds(time.Date(2026, 2, 10, 0, 0, 0, 0, loc))
	before := time.Date(2026, 2, 9, 22, 0, 0, 0, loc)
	after := time.Date(2026, 2, 11, 1, 0, 0, 0, loc)
	inside := time.Date(2026, 2, 10, 9, 30, 0, 0, loc)
	if got := ClampToDay(before, start, end); !got.Equal(start) {
		t.Fatalf("clamp before: got %s", got)
	}
	if got := ClampToDay(after, start, end); !got.Equal(end) {
		t.Fatalf("clamp after: got %s", got)
	}
	if got := ClampToDay(inside, start, end); !got.Equal(inside) {
		t.Fatalf("clamp inside: got %s", got)
	}
}

func TestOverlapsDayMidnightBoundary(t *testing.T) {
	loc := time.UTC
	start := time.Date(2026, 2, 10, 20, 0, 0, 0, loc)
	end := time.Date(2026, 2, 11, 0, 0, 0, 0, loc) // ends exactly at midnight
	if !OverlapsDay(start, end, time.Date(2026, 2, 10, 12, 0, 0, 0, loc)) {
		t.Fatalf("event should occur on its own day")
	}
	if OverlapsDay(start, end, time.Date(2026, 2, 11, 12, 0, 0, 0, loc)) {
		t.Fatalf("event ending at midnight must not occur on the next day")
	}
}

func TestDaysBetween(t *testing.T) {
	loc := time.UTC
	a := time.Date(2026, 2, 10, 23, 0, 0, 0, loc)
	b := time.Date(2026, 2, 13, 1, 0, 0, 0, loc)
	if got := DaysBetween(a, b); got != 3 {
		t.Fatalf("DaysBetween=%d want=3", got)
	}
	if got := DaysBetween(b, a); got != -3 {
		t.Fatalf("reverse DaysBetween=%d want=-3", got)
	}
	if got := DaysBetween(a, a); got != 0 {
		t.Fatalf("same day DaysBetween=%d want=0", got)
	}
}

func TestWeekStart(t *testing.T) {
	loc := time.UTC
	anchor := time.Date(2026, 2, 11, 9, 0, 0, 0, loc) // Wednesday
	if got, want := WeekStart(anchor, time.Monday).Format("2006-01-02"), "2026-02-09"; got != want {
		t.Fatalf("monday start=%s want=%s", got, want)
	}
	if got, want := WeekStart(anchor, time.Sunday).Format("2006-01-02"), "2026-02-08"; got != want {
		t.Fatalf("sunday start=%s want=%s", got, want)
	}
}

func TestMonthGrid(t *testing.T) {
	loc := time.UTC
	// February 2026 starts on a Sunday; Monday-start grid needs a leading row
	// from January and 5 rows total.
	weeks := MonthGrid(time.Date(2026, 2, 15, 0, 0, 0, 0, loc), time.Monday)
	if len(weeks) != 5 {
		t.Fatalf("expected 5 week rows, got %d", len(weeks))
	}
	if got, want := weeks[0].Format("2006-01-02"), "2026-01-26"; got != want {
		t.Fatalf("first row=%s want=%s", got, want)
	}
	if got, want := weeks[4].Format("2006-01-02"), "2026-02-23"; got != want {
		t.Fatalf("last row=%s want=%s", got, want)
	}
	for _, w := range weeks {
		if w.Weekday() != time.Monday {
			t.Fatalf("week row %s does not start on Monday", w)
		}
	}
}

func TestMinutesIntoDayAndFraction(t *testing.T) {
	loc := time.UTC
	at := time.Date(2026, 2, 10, 10, 30, 0, 0, loc)
	if got := MinutesIntoDay(at); got != 630 {
		t.Fatalf("MinutesIntoDay=%v want=630", got)
	}
	if got, want := DayFraction(at), 630.0/1440.0; got != want {
		t.Fatalf("DayFraction=%v want=%v", got, want)
	}
}
