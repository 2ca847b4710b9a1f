package layout

import (
	"sort"
	"time"

	"github.com/agis/callay/internal/contract"
	"github.com/agis/callay/internal/timeutil"
)

// DayLayout is the single-day view output. Overflow is derived from peak
// concurrency rather than cluster membership: the day view keeps at most
// two events visible side by side at any instant.
type DayLayout struct {
	Day            time.Time         `json:"day"`
	Events         []PositionedEvent `json:"events"`
	Clusters       []ClusterInfo     `json:"clusters,omitempty"`
	MaxConcurrency int               `json:"max_concurrency"`
	Overflow       int               `json:"overflow"`
}

// MaxConcurrency sweeps the start/end instants of the given events and
// returns the highest number of simultaneously running intervals. When a
// start and an end coincide the end is processed first, closing an interval
// before the next one opens.
func MaxConcurrency(events []contract.Event) int {
	type point struct {
		at    time.Time
		delta int
	}
	points := make([]point, 0, 2*len(events))
	for _, ev := range events {
		points = append(points, point{at: ev.Start, delta: +1}, point{at: ev.End, delta: -1})
	}
	sort.Slice(points, func(i, j int) bool {
		if !points[i].at.Equal(points[j].at) {
			return points[i].at.Before(points[j].at)
		}
		return points[i].delta < points[j].delta
	})

	current, peak := 0, 0
	for _, p := range points {
		current += p.delta
		if current > peak {
			peak = current
		}
	}
	return peak
}

// Day lays out the single day containing anchor.
func Day(events []contract.Event, anchor time.Time, cfg Config) DayLayout {
	cfg = cfg.normalized()
	day := timeutil.DayStart(anchor)

	var todays []contract.Event
	for _, ev := range events {
		if timeutil.OverlapsDay(ev.Start, ev.End, day) {
			todays = append(todays, ev)
		}
	}

	col := layoutDayColumn(todays, day, cfg)
	peak := MaxConcurrency(todays)
	overflow := peak - cfg.MaxEventsPerSlot
	if overflow < 0 {
		overflow = 0
	}
	return DayLayout{
		Day:            day,
		Events:         col.Events,
		Clusters:       col.Clusters,
		MaxConcurrency: peak,
		Overflow:       overflow,
	}
}
