package layout

import (
	"sort"
	"time"

	"github.com/agis/callay/internal/contract"
	"github.com/agis/callay/internal/timeutil"
)

// PresenceSegment is one contiguous run of days in which a property has at
// least one event. A property present on non-contiguous days yields several
// segments sharing the same row.
type PresenceSegment struct {
	GroupKey string `json:"group_key"`
	Label    string `json:"label"`
	StartDay int    `json:"start_day"`
	EndDay   int    `json:"end_day"`
	Color    string `json:"color"`
	Row      int    `json:"row"`
}

// PresenceBar is the week view's property bar. Rows are claimed in
// first-seen order, independently of the month view's sorted rows. While
// collapsed only CollapsedRows rows are painted; the rest feed the overall
// and per-day overflow counts.
type PresenceBar struct {
	Segments      []PresenceSegment `json:"segments,omitempty"`
	Rows          int               `json:"rows"`
	CollapsedRows int               `json:"collapsed_rows"`
	Overflow      int               `json:"overflow"`
	DayOverflow   [7]int            `json:"day_overflow"`
}

// Presence computes the presence bar for the 7-day window starting at
// weekStart. Unassigned events and events without a group key are skipped.
func Presence(events []contract.Event, weekStart time.Time, cfg Config) PresenceBar {
	cfg = cfg.normalized()
	weekStart = timeutil.DayStart(weekStart)

	type group struct {
		key   string
		label string
		color string
		days  map[int]struct{}
	}
	var order []string
	groups := map[string]*group{}

	for _, ev := range events {
		if ev.Category == contract.CategoryUnassigned || ev.GroupKey == "" {
			continue
		}
		touched := touchedDays(ev, weekStart)
		if len(touched) == 0 {
			continue
		}
		g, ok := groups[ev.GroupKey]
		if !ok {
			label := ev.GroupKey
			if name, has := ev.StringAttrValue("property_name"); has {
				label = name
			}
			g = &group{key: ev.GroupKey, label: label, color: cfg.color(ev.Category), days: map[int]struct{}{}}
			groups[ev.GroupKey] = g
			order = append(order, ev.GroupKey)
		}
		for _, d := range touched {
			g.days[d] = struct{}{}
		}
	}

	bar := PresenceBar{CollapsedRows: cfg.PresenceRows}
	for row, key := range order {
		g := groups[key]
		days := make([]int, 0, len(g.days))
		for d := range g.days {
			days = append(days, d)
		}
		sort.Ints(days)
		for _, run := range consecutiveRuns(days) {
			bar.Segments = append(bar.Segments, PresenceSegment{
				GroupKey: g.key,
				Label:    g.label,
				StartDay: run[0],
				EndDay:   run[1],
				Color:    g.color,
				Row:      row,
			})
		}
	}
	bar.Rows = len(order)

	for _, seg := range bar.Segments {
		if seg.Row < bar.CollapsedRows {
			continue
		}
		bar.Overflow++
		for d := seg.StartDay; d <= seg.EndDay; d++ {
			bar.DayOverflow[d]++
		}
	}
	return bar
}

// touchedDays returns the week day indices (0..6) the event overlaps,
// clamped to the week bounds.
func touchedDays(ev contract.Event, weekStart time.Time) []int {
	var out []int
	for d := 0; d < 7; d++ {
		day := weekStart.AddDate(0, 0, d)
		if timeutil.OverlapsDay(ev.Start, ev.End, day) {
			out = append(out, d)
		}
	}
	return out
}

// consecutiveRuns splits a sorted day-index set into maximal [first, last]
// runs of consecutive values.
func consecutiveRuns(days []int) [][2]int {
	var runs [][2]int
	for i := 0; i < len(days); {
		j := i
		for j+1 < len(days) && days[j+1] == days[j]+1 {
			j++
		}
		runs = append(runs, [2]int{days[i], days[j]})
		i = j + 1
	}
	return runs
}
