// Package timeutil provides the local wall-clock day/week/month arithmetic
// shared by the layout engine. All functions are pure and never mutate input.
package timeutil

import (
	"math"
	"time"
)

// DayStart returns local midnight at the beginning of the day containing t.
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayEnd returns the last second of the day containing t.
func DayEnd(t time.Time) time.Time {
	return DayStart(t).AddDate(0, 0, 1).Add(-time.Second)
}

// DayBounds returns both boundaries of the day containing t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := DayStart(t)
	return start, start.AddDate(0, 0, 1).Add(-time.Second)
}

// ClampToDay returns t limited to [start, end].
func ClampToDay(t, start, end time.Time) time.Time {
	if t.Before(start) {
		return start
	}
	if t.After(end) {
		return end
	}
	return t
}

// OverlapsDay reports whether [start, end) touches the day containing day.
// Half-open semantics: an event ending exactly at midnight does not occur
// on the following day.
func OverlapsDay(start, end, day time.Time) bool {
	ds, de := DayBounds(day)
	return start.Before(de) && end.After(ds)
}

// Overlaps reports whether two intervals intersect: aStart < bEnd && bStart < aEnd.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// DurationMinutes returns the difference between two instants in minutes.
func DurationMinutes(start, end time.Time) float64 {
	return end.Sub(start).Minutes()
}

// DurationHours returns the difference between two instants in hours.
func DurationHours(start, end time.Time) float64 {
	return end.Sub(start).Hours()
}

// MinutesIntoDay returns the wall-clock minutes elapsed since the day's midnight.
func MinutesIntoDay(t time.Time) float64 {
	return float64(t.Hour())*60 + float64(t.Minute())
}

// DayFraction returns the position of t within its day as a 0..1 fraction.
func DayFraction(t time.Time) float64 {
	return MinutesIntoDay(t) / (24 * 60)
}

// DaysBetween counts calendar days from the day containing from to the day
// containing to. Negative when to precedes from. Rounding absorbs DST jumps.
func DaysBetween(from, to time.Time) int {
	f := DayStart(from)
	t := DayStart(to)
	return int(math.Round(t.Sub(f).Hours() / 24))
}

// WeekStart returns the start of the week containing anchor, where weeks
// begin on weekStart.
func WeekStart(anchor time.Time, weekStart time.Weekday) time.Time {
	start := DayStart(anchor)
	delta := (int(start.Weekday()) - int(weekStart) + 7) % 7
	return start.AddDate(0, 0, -delta)
}

// WeekBounds returns the first and last second of the week containing anchor.
func WeekBounds(anchor time.Time, weekStart time.Weekday) (time.Time, time.Time) {
	start := WeekStart(anchor, weekStart)
	return start, start.AddDate(0, 0, 7).Add(-time.Second)
}

// MonthBounds returns the first and last second of the month containing anchor.
func MonthBounds(anchor time.Time) (time.Time, time.Time) {
	y, m, _ := anchor.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, anchor.Location())
	return start, start.AddDate(0, 1, 0).Add(-time.Second)
}

// MonthGrid returns the start of every week row covering the month that
// contains anchor. The first row starts on the weekStart at or before the
// first of the month; rows continue while they still touch the month.
func MonthGrid(anchor time.Time, weekStart time.Weekday) []time.Time {
	monthStart, monthEnd := MonthBounds(anchor)
	row := WeekStart(monthStart, weekStart)
	var weeks []time.Time
	for !row.After(monthEnd) {
		weeks = append(weeks, row)
		row = row.AddDate(0, 0, 7)
	}
	return weeks
}
