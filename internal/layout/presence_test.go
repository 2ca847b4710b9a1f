package layout

import (
	"testing"
	"time"

	"github.com/agis/callay/internal/contract"
)

func TestPresenceSplitsNonContiguousDays(t *testing.T) {
	loc := time.UTC
	cfg := DefaultConfig()
	ws := time.Date(2026, 2, 9, 0, 0, 0, 0, loc) // Monday
	day := func(d, h int) time.Time { return ws.AddDate(0, 0, d).Add(time.Duration(h) * time.Hour) }

	// entity-7 present on days 0..2 and 5..6.
	evs := []contract.Event{
		mkEvent("a", "entity-7", day(0, 10), day(2, 14)),
		mkEvent("b", "entity-7", day(5, 9), day(6, 18)),
	}
	bar := Presence(evs, ws, cfg)
	if len(bar.Segments) != 2 {
		t.Fatalf("segments = %d, want 2", len(bar.Segments))
	}
	first, second := bar.Segments[0], bar.Segments[1]
	if first.StartDay != 0 || first.EndDay != 2 {
		t.Fatalf("first run = [%d,%d], want [0,2]", first.StartDay, first.EndDay)
	}
	if second.StartDay != 5 || second.EndDay != 6 {
		t.Fatalf("second run = [%d,%d], want [5,6]", second.StartDay, second.EndDay)
	}
	if first.Row != second.Row {
		t.Fatalf("segments of one key must share a row: %d vs %d", first.Row, second.Row)
	}
}

func TestPresenceRowsFirstSeenOrder(t *testing.T) {
	loc := time.UTC
	cfg := DefaultConfig()
	ws := time.Date(2026, 2, 9, 0, 0, 0, 0, loc)
	day := func(d, h int) time.Time { return ws.AddDate(0, 0, d).Add(time.Duration(h) * time.Hour) }

	// entity-9 appears first in the input and must claim row 0 even though
	// entity-2 sorts before it lexicographically.
	evs := []contract.Event{
		mkEvent("a", "entity-9", day(0, 9), day(0, 10)),
		mkEvent("b", "entity-2", day(1, 9), day(1, 10)),
	}
	bar := Presence(evs, ws, cfg)
	rows := map[string]int{}
	for _, seg := range bar.Segments {
		rows[seg.GroupKey] = seg.Row
	}
	if rows["entity-9"] != 0 || rows["entity-2"] != 1 {
		t.Fatalf("rows = %v, want entity-9:0 entity-2:1", rows)
	}
	if bar.Rows != 2 {
		t.Fatalf("total rows = %d, want 2", bar.Rows)
	}
}

func TestPresenceSkipsUnassignedAndUngrouped(t *testing.T) {
	loc := time.UTC
	cfg := DefaultConfig()
	ws := time.Date(2026, 2, 9, 0, 0, 0, 0, loc)
	day := func(d, h int) time.Time { return ws.AddDate(0, 0, d).Add(time.Duration(h) * time.Hour) }

	unassigned := mkEvent("u", "entity-3", day(0, 9), day(0, 10))
	unassigned.Category = contract.CategoryUnassigned
	ungrouped := mkEvent("g", "", day(1, 9), day(1, 10))
	kept := mkEvent("k", "entity-5", day(2, 9), day(2, 10))

	bar := Presence([]contract.Event{unassigned, ungrouped, kept}, ws, cfg)
	if len(bar.Segments) != 1 || bar.Segments[0].GroupKey != "entity-5" {
		t.Fatalf("segments = %+v, want only entity-5", bar.Segments)
	}
}

func TestPresenceOverflowCollapsed(t *testing.T) {
	loc := time.UTC
	cfg := DefaultConfig() // collapsed rows = 2
	ws := time.Date(2026, 2, 9, 0, 0, 0, 0, loc)
	day := func(d, h int) time.Time { return ws.AddDate(0, 0, d).Add(time.Duration(h) * time.Hour) }

	evs := []contract.Event{
		mkEvent("a", "entity-1", day(0, 9), day(1, 10)),
		mkEvent("b", "entity-2", day(0, 9), day(0, 10)),
		mkEvent("c", "entity-3", day(0, 9), day(2, 10)),
		mkEvent("d", "entity-4", day(1, 9), day(1, 10)),
	}
	bar := Presence(evs, ws, cfg)
	if bar.Overflow != 2 {
		t.Fatalf("overflow = %d, want 2 hidden segments", bar.Overflow)
	}
	// entity-3 (row 2) covers days 0..2, entity-4 (row 3) covers day 1.
	wantDay := [7]int{1, 2, 1, 0, 0, 0, 0}
	if bar.DayOverflow != wantDay {
		t.Fatalf("day overflow = %v, want %v", bar.DayOverflow, wantDay)
	}
}

func TestPresenceLabelFromPropertyName(t *testing.T) {
	loc := time.UTC
	cfg := DefaultConfig()
	ws := time.Date(2026, 2, 9, 0, 0, 0, 0, loc)
	ev := mkEvent("a", "entity-8", ws.Add(9*time.Hour), ws.Add(10*time.Hour))
	ev.Attributes = map[string]contract.Attr{
		"property_name": contract.StringAttr("Seaside Flat"),
	}
	bar := Presence([]contract.Event{ev}, ws, cfg)
	if len(bar.Segments) != 1 || bar.Segments[0].Label != "Seaside Flat" {
		t.Fatalf("segments = %+v, want label from property_name", bar.Segments)
	}
}

func TestPresenceClampsToWeek(t *testing.T) {
	loc := time.UTC
	cfg := DefaultConfig()
	ws := time.Date(2026, 2, 9, 0, 0, 0, 0, loc)
	ev := mkEvent("a", "entity-1",
		time.Date(2026, 2, 5, 10, 0, 0, 0, loc),  // before the week
		time.Date(2026, 2, 20, 10, 0, 0, 0, loc)) // after the week
	bar := Presence([]contract.Event{ev}, ws, cfg)
	if len(bar.Segments) != 1 {
		t.Fatalf("segments = %d, want 1", len(bar.Segments))
	}
	if seg := bar.Segments[0]; seg.StartDay != 0 || seg.EndDay != 6 {
		t.Fatalf("segment = [%d,%d], want clamped [0,6]", seg.StartDay, seg.EndDay)
	}
}
