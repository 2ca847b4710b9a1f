// Package timeparse turns CLI date selectors into concrete instants.
package timeparse

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var absoluteLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDateTime resolves a selector relative to now: today, tomorrow,
// yesterday, +Nd/-Nd, +Nw/-Nw, or an absolute timestamp.
func ParseDateTime(input string, now time.Time, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time")
	}

	switch s {
	case "today":
		y, m, d := now.In(loc).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
	case "tomorrow":
		v, _ := ParseDateTime("today", now, loc)
		return v.AddDate(0, 0, 1), nil
	case "yesterday":
		v, _ := ParseDateTime("today", now, loc)
		return v.AddDate(0, 0, -1), nil
	}

	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		sign := 1
		if strings.HasPrefix(s, "-") {
			sign = -1
		}
		raw := strings.TrimPrefix(strings.TrimPrefix(s, "+"), "-")
		unit := 0
		switch {
		case strings.HasSuffix(raw, "d"):
			unit = 1
		case strings.HasSuffix(raw, "w"):
			unit = 7
		}
		if unit > 0 {
			n, err := strconv.Atoi(raw[:len(raw)-1])
			if err != nil {
				return time.Time{}, fmt.Errorf("invalid relative selector: %s", input)
			}
			v, _ := ParseDateTime("today", now, loc)
			return v.AddDate(0, 0, sign*n*unit), nil
		}
	}

	for _, layout := range absoluteLayouts {
		if ts, err := time.ParseInLocation(layout, input, loc); err == nil {
			return ts, nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported datetime format: %s", input)
}

// ParseMonth resolves a YYYY-MM selector, falling back to ParseDateTime for
// day-level selectors ("today", "2026-02-15", "+7d").
func ParseMonth(input string, now time.Time, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		s = "today"
	}
	if ts, err := time.ParseInLocation("2006-01", s, loc); err == nil {
		return ts, nil
	}
	return ParseDateTime(s, now, loc)
}
