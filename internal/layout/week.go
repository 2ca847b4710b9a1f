package layout

import (
	"sort"
	"time"

	"github.com/agis/callay/internal/contract"
	"github.com/agis/callay/internal/timeutil"
)

// VerticalPosition places an event within a single day column.
type VerticalPosition struct {
	Top    float64 `json:"top_px"`
	Height float64 `json:"height_px"`
}

// PositionedEvent is an event with its vertical geometry and slot placement
// inside an overlap cluster.
type PositionedEvent struct {
	Event    contract.Event   `json:"event"`
	Position VerticalPosition `json:"position"`
	Cluster  int              `json:"cluster"`
	Slot     int              `json:"slot"`
	LeftPct  float64          `json:"left_pct"`
	WidthPct float64          `json:"width_pct"`
}

// ClusterInfo summarizes one overlap cluster of a day column.
type ClusterInfo struct {
	Index    int `json:"index"`
	Size     int `json:"size"`
	Overflow int `json:"overflow"`
}

// DayColumn is the laid-out content of one day in the week view.
type DayColumn struct {
	Day      time.Time         `json:"day"`
	Events   []PositionedEvent `json:"events"`
	Clusters []ClusterInfo     `json:"clusters,omitempty"`
	Overflow int               `json:"overflow"`
}

// WeekLayout is the full week-view output: seven day columns plus the
// property presence bar.
type WeekLayout struct {
	WeekStart time.Time    `json:"week_start"`
	Days      [7]DayColumn `json:"days"`
	Presence  PresenceBar  `json:"presence"`
}

// Side-by-side widths for a capped two-slot overlay: the first event keeps
// almost the full column, the second sits on the right half.
const (
	slotFullWidthPct  = 98.0
	slotHalfWidthPct  = 48.0
	slotHalfOffsetPct = 50.0
)

// Vertical computes the clamped pixel position of ev within the day
// containing day. The event itself is never mutated; only the rendered
// interval is clamped. Top+Height never exceeds the day's pixel height.
func Vertical(ev contract.Event, day time.Time, cfg Config) VerticalPosition {
	cfg = cfg.normalized()
	ds, de := timeutil.DayBounds(day)
	start := timeutil.ClampToDay(ev.Start, ds, de)
	end := timeutil.ClampToDay(ev.End, ds, de)

	top := timeutil.MinutesIntoDay(start) / 60 * cfg.HourHeight
	height := timeutil.DurationHours(start, end) * cfg.HourHeight
	if height < cfg.MinEventHeight {
		height = cfg.MinEventHeight
	}
	if total := 24 * cfg.HourHeight; top+height > total {
		height = total - top
	}
	if height < 0 {
		height = 0
	}
	return VerticalPosition{Top: top, Height: height}
}

// ClusterOverlapping partitions a day's events into overlap clusters.
// Events are sorted by start time; each unprocessed event seeds a cluster
// that greedily absorbs every later event overlapping any member gathered
// so far. Three events overlapping only pairwise in a chain therefore land
// in a single cluster. This over-merging is intentional and must be kept:
// overflow badges are computed against it.
func ClusterOverlapping(events []contract.Event) [][]contract.Event {
	sorted := make([]contract.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Start.Equal(sorted[j].Start) {
			return sorted[i].Start.Before(sorted[j].Start)
		}
		return sorted[i].ID < sorted[j].ID
	})

	var clusters [][]contract.Event
	used := make([]bool, len(sorted))
	for i := range sorted {
		if used[i] {
			continue
		}
		used[i] = true
		cluster := []contract.Event{sorted[i]}
		for j := i + 1; j < len(sorted); j++ {
			if used[j] {
				continue
			}
			for _, member := range cluster {
				if timeutil.Overlaps(member.Start, member.End, sorted[j].Start, sorted[j].End) {
					used[j] = true
					cluster = append(cluster, sorted[j])
					break
				}
			}
		}
		clusters = append(clusters, cluster)
	}
	return clusters
}

// layoutDayColumn positions one day's events into capped side-by-side slots.
func layoutDayColumn(events []contract.Event, day time.Time, cfg Config) DayColumn {
	cfg = cfg.normalized()
	col := DayColumn{Day: timeutil.DayStart(day)}

	clusters := ClusterOverlapping(events)
	for ci, cluster := range clusters {
		rendered := len(cluster)
		if rendered > cfg.MaxEventsPerSlot {
			rendered = cfg.MaxEventsPerSlot
		}
		for slot := 0; slot < rendered; slot++ {
			pe := PositionedEvent{
				Event:    cluster[slot],
				Position: Vertical(cluster[slot], day, cfg),
				Cluster:  ci,
				Slot:     slot,
				LeftPct:  0,
				WidthPct: slotFullWidthPct,
			}
			if slot > 0 {
				pe.LeftPct = slotHalfOffsetPct
				pe.WidthPct = slotHalfWidthPct
			}
			col.Events = append(col.Events, pe)
		}
		overflow := len(cluster) - rendered
		col.Clusters = append(col.Clusters, ClusterInfo{Index: ci, Size: len(cluster), Overflow: overflow})
		col.Overflow += overflow
	}
	return col
}

// Week lays out the week containing anchor: each day column gets the events
// touching it (clamped for rendering), and the presence bar is derived from
// the same event set.
func Week(events []contract.Event, anchor time.Time, cfg Config) WeekLayout {
	cfg = cfg.normalized()
	ws := timeutil.WeekStart(anchor, cfg.WeekStart)
	out := WeekLayout{WeekStart: ws}
	for d := 0; d < 7; d++ {
		day := ws.AddDate(0, 0, d)
		var todays []contract.Event
		for _, ev := range events {
			if timeutil.OverlapsDay(ev.Start, ev.End, day) {
				todays = append(todays, ev)
			}
		}
		out.Days[d] = layoutDayColumn(todays, day, cfg)
	}
	out.Presence = Presence(events, ws, cfg)
	return out
}
