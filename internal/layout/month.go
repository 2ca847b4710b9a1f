package layout

import (
	"sort"
	"time"

	"github.com/agis/callay/internal/contract"
	"github.com/agis/callay/internal/timeutil"
)

// EventPosition is one horizontal segment of an event within a single week
// row of the month grid. Multi-week events produce one position per week.
type EventPosition struct {
	Event            contract.Event `json:"event"`
	Left             float64        `json:"left_px"`
	Width            float64        `json:"width_px"`
	Row              int            `json:"row"`
	WeekIndex        int            `json:"week_index"`
	Visible          bool           `json:"visible"`
	FirstWeekSegment bool           `json:"first_week_segment"`
	LastWeekSegment  bool           `json:"last_week_segment"`
}

// CellRef addresses one calendar cell: week row and day-of-week index.
type CellRef struct {
	Week int `json:"week"`
	Day  int `json:"day"`
}

// CellOverflow is the serialized form of one overflow map entry.
type CellOverflow struct {
	CellRef
	Count int `json:"count"`
}

// MonthLayout is the full month-view output: one position per event per
// intersected week, rows assigned globally, plus per-cell overflow.
type MonthLayout struct {
	WeekStarts []time.Time     `json:"week_starts"`
	Positions  []EventPosition `json:"positions"`
	Overflow   []CellOverflow  `json:"overflow,omitempty"`
}

// MultiDayPosition computes the horizontal slice of ev inside the week row
// starting at weekStart. The boolean is false when the event's day range
// does not intersect the week. Row assignment happens later; the returned
// position has Row 0 and Visible true.
func MultiDayPosition(ev contract.Event, weekStart time.Time, weekIndex int, cellWidth float64) (EventPosition, bool) {
	if cellWidth <= 0 {
		cellWidth = defaultCellWidth
	}
	weekStart = timeutil.DayStart(weekStart)

	startDayOff := timeutil.DaysBetween(weekStart, ev.Start)
	endDayOff := timeutil.DaysBetween(weekStart, ev.End)
	if endDayOff < 0 || startDayOff > 6 {
		return EventPosition{}, false
	}

	startsInWeek := startDayOff >= 0 && startDayOff <= 6
	endsInWeek := endDayOff >= 0 && endDayOff <= 6

	var left, width float64
	switch {
	case startsInWeek && endsInWeek:
		left = (float64(startDayOff) + timeutil.DayFraction(ev.Start)) * cellWidth
		right := (float64(endDayOff) + timeutil.DayFraction(ev.End)) * cellWidth
		width = right - left
	case startsInWeek:
		left = (float64(startDayOff) + timeutil.DayFraction(ev.Start)) * cellWidth
		width = 7*cellWidth - left
	case endsInWeek:
		left = 0
		width = (float64(endDayOff) + timeutil.DayFraction(ev.End)) * cellWidth
	default:
		// Spans across the entire week.
		left = 0
		width = 7 * cellWidth
	}
	if width < MinEventWidth {
		width = MinEventWidth
	}

	return EventPosition{
		Event:            ev,
		Left:             left,
		Width:            width,
		WeekIndex:        weekIndex,
		Visible:          true,
		FirstWeekSegment: startsInWeek,
		LastWeekSegment:  endsInWeek,
	}, true
}

// AssignGlobalRows gives every group key one row, identical in every week.
// Keys are collected across all weeks and sorted lexicographically, so the
// assignment is reproducible regardless of event order. Positions without a
// group key stay on row 0.
func AssignGlobalRows(positions []EventPosition, maxVisibleRows int) []EventPosition {
	if maxVisibleRows <= 0 {
		maxVisibleRows = DefaultConfig().MaxVisibleRows
	}
	seen := map[string]struct{}{}
	for _, p := range positions {
		if p.Event.GroupKey == "" {
			continue
		}
		seen[p.Event.GroupKey] = struct{}{}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make(map[string]int, len(keys))
	for i, k := range keys {
		rows[k] = i
	}

	out := make([]EventPosition, len(positions))
	for i, p := range positions {
		row := 0
		if p.Event.GroupKey != "" {
			row = rows[p.Event.GroupKey]
		}
		p.Row = row
		p.Visible = row < maxVisibleRows
		out[i] = p
	}
	return out
}

// OverflowByDay counts, for each calendar cell, the distinct group keys whose
// events overlap that day at minute resolution, and reports how many exceed
// the visible-row limit. Cells with no overflow are omitted.
func OverflowByDay(positions []EventPosition, weekStarts []time.Time, maxVisibleRows int) map[CellRef]int {
	if maxVisibleRows <= 0 {
		maxVisibleRows = DefaultConfig().MaxVisibleRows
	}
	out := map[CellRef]int{}
	for w, ws := range weekStarts {
		ws = timeutil.DayStart(ws)
		for d := 0; d < 7; d++ {
			day := ws.AddDate(0, 0, d)
			keys := map[string]struct{}{}
			for _, p := range positions {
				if p.WeekIndex != w || p.Event.GroupKey == "" {
					continue
				}
				if timeutil.OverlapsDay(p.Event.Start, p.Event.End, day) {
					keys[p.Event.GroupKey] = struct{}{}
				}
			}
			if n := len(keys) - maxVisibleRows; n > 0 {
				out[CellRef{Week: w, Day: d}] = n
			}
		}
	}
	return out
}

// Month lays out events over the month grid containing anchor.
func Month(events []contract.Event, anchor time.Time, cfg Config) MonthLayout {
	cfg = cfg.normalized()
	weeks := timeutil.MonthGrid(anchor, cfg.WeekStart)

	var positions []EventPosition
	for w, ws := range weeks {
		for _, ev := range events {
			if pos, ok := MultiDayPosition(ev, ws, w, cfg.CellWidth); ok {
				positions = append(positions, pos)
			}
		}
	}
	positions = AssignGlobalRows(positions, cfg.MaxVisibleRows)
	overflow := OverflowByDay(positions, weeks, cfg.MaxVisibleRows)

	cells := make([]CellOverflow, 0, len(overflow))
	for ref, n := range overflow {
		cells = append(cells, CellOverflow{CellRef: ref, Count: n})
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Week != cells[j].Week {
			return cells[i].Week < cells[j].Week
		}
		return cells[i].Day < cells[j].Day
	})

	return MonthLayout{WeekStarts: weeks, Positions: positions, Overflow: cells}
}
