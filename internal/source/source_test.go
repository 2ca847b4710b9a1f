package source

import (
	"testing"
	"time"

	"github.com/agis/callay/internal/contract"
)

func TestValidateDropsInvertedIntervals(t *testing.T) {
	loc := time.UTC
	good := contract.Event{
		ID: "ok", GroupKey: "entity-1",
		Start: time.Date(2026, 2, 10, 9, 0, 0, 0, loc),
		End:   time.Date(2026, 2, 10, 10, 0, 0, 0, loc),
	}
	degenerate := contract.Event{
		ID: "zero", GroupKey: "entity-2",
		Start: time.Date(2026, 2, 10, 9, 0, 0, 0, loc),
		End:   time.Date(2026, 2, 10, 9, 0, 0, 0, loc),
	}
	inverted := contract.Event{
		ID: "backwards", GroupKey: "entity-3",
		Start: time.Date(2026, 2, 10, 10, 0, 0, 0, loc),
		End:   time.Date(2026, 2, 10, 9, 0, 0, 0, loc),
	}
	out, warnings := Validate([]contract.Event{good, degenerate, inverted})
	if len(out) != 1 || out[0].ID != "ok" {
		t.Fatalf("validated events = %+v, want only ok", out)
	}
	if len(warnings) != 2 {
		t.Fatalf("warnings = %v, want 2", warnings)
	}
}

func TestValidateFillsMissingID(t *testing.T) {
	loc := time.UTC
	ev := contract.Event{
		GroupKey: "entity-1",
		Start:    time.Date(2026, 2, 10, 9, 0, 0, 0, loc),
		End:      time.Date(2026, 2, 10, 10, 0, 0, 0, loc),
	}
	out, _ := Validate([]contract.Event{ev})
	if len(out) != 1 || out[0].ID == "" {
		t.Fatalf("expected a generated id, got %+v", out)
	}
}

func TestValidateParsesGroupKeys(t *testing.T) {
	loc := time.UTC
	mk := func(key string) contract.Event {
		return contract.Event{
			ID: key, GroupKey: key,
			Start: time.Date(2026, 2, 10, 9, 0, 0, 0, loc),
			End:   time.Date(2026, 2, 10, 10, 0, 0, 0, loc),
		}
	}
	out, warnings := Validate([]contract.Event{mk("property-12"), mk("garbage")})
	if len(out) != 2 {
		t.Fatalf("both events must survive, got %d", len(out))
	}
	if !out[0].Key.Valid() || out[0].Key.ID != 12 {
		t.Fatalf("parsed key = %+v", out[0].Key)
	}
	if out[1].Key.Valid() {
		t.Fatalf("garbage key must be invalid, got %+v", out[1].Key)
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want 1 for the unrecognized key", warnings)
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"events.ics", FormatICS},
		{"events.ical", FormatICS},
		{"fixtures.yaml", FormatYAML},
		{"fixtures.yml", FormatYAML},
		{"bookings.db", FormatSQLite},
		{"Calendar.sqlitedb", FormatSQLite},
	}
	for _, tc := range tests {
		got, err := DetectFormat(tc.path)
		if err != nil || got != tc.want {
			t.Fatalf("DetectFormat(%q) = %v, %v; want %v", tc.path, got, err, tc.want)
		}
	}
	if _, err := DetectFormat("events.txt"); err == nil {
		t.Fatalf("expected error for unknown extension")
	}
}
