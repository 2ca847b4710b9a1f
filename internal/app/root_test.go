package app

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testBookingsYAML = `events:
  - id: bk-100
    group_key: entity-7
    title: Harbor View
    category: booking
    start: 2026-02-09T14:00
    end: 2026-02-12T11:00
  - id: cl-100
    group_key: property-7
    title: Turnover clean
    category: cleaning
    start: 2026-02-12T11:00
    end: 2026-02-12T13:00
    attributes:
      property_name: Harbor View
`

func writeBookings(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bookings.yaml")
	if err := os.WriteFile(path, []byte(testBookingsYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", "")
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func decodeEnvelope(t *testing.T, raw string) map[string]any {
	t.Helper()
	var env map[string]any
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		t.Fatalf("invalid envelope JSON: %v\n%s", err, raw)
	}
	return env
}

func TestMonthCommandJSON(t *testing.T) {
	input := writeBookings(t)
	stdout, _, err := runCommand(t, "month", "--month", "2026-02", "--input", input, "--json")
	if err != nil {
		t.Fatalf("month command error: %v", err)
	}
	env := decodeEnvelope(t, stdout)
	if got, want := env["command"], "month"; got != want {
		t.Fatalf("command=%v want=%v", got, want)
	}
	meta, _ := env["meta"].(map[string]any)
	if meta == nil {
		t.Fatalf("missing meta in envelope")
	}
	if got, want := meta["month"], "2026-02"; got != want {
		t.Fatalf("meta.month=%v want=%v", got, want)
	}
	if got := meta["events"].(float64); got != 2 {
		t.Fatalf("meta.events=%v want=2", got)
	}
	data, _ := env["data"].(map[string]any)
	if data == nil {
		t.Fatalf("missing data in envelope")
	}
	positions, _ := data["positions"].([]any)
	if len(positions) == 0 {
		t.Fatalf("expected positions in month layout")
	}
}

func TestWeekCommandJSON(t *testing.T) {
	input := writeBookings(t)
	stdout, _, err := runCommand(t, "week", "--of", "2026-02-11", "--input", input, "--json")
	if err != nil {
		t.Fatalf("week command error: %v", err)
	}
	env := decodeEnvelope(t, stdout)
	meta, _ := env["meta"].(map[string]any)
	if got, want := meta["from"], "2026-02-09"; got != want {
		t.Fatalf("meta.from=%v want=%v", got, want)
	}
	if got, want := meta["week_start"], "Monday"; got != want {
		t.Fatalf("meta.week_start=%v want=%v", got, want)
	}
}

func TestDayCommandJSON(t *testing.T) {
	input := writeBookings(t)
	stdout, _, err := runCommand(t, "day", "--day", "2026-02-12", "--input", input, "--json")
	if err != nil {
		t.Fatalf("day command error: %v", err)
	}
	env := decodeEnvelope(t, stdout)
	meta, _ := env["meta"].(map[string]any)
	if got, want := meta["day"], "2026-02-12"; got != want {
		t.Fatalf("meta.day=%v want=%v", got, want)
	}
}

func TestPresenceCommandJSON(t *testing.T) {
	input := writeBookings(t)
	stdout, _, err := runCommand(t, "presence", "--of", "2026-02-11", "--input", input, "--json")
	if err != nil {
		t.Fatalf("presence command error: %v", err)
	}
	env := decodeEnvelope(t, stdout)
	data, _ := env["data"].(map[string]any)
	segments, _ := data["segments"].([]any)
	if len(segments) == 0 {
		t.Fatalf("expected presence segments")
	}
}

func TestEventsListJSON(t *testing.T) {
	input := writeBookings(t)
	stdout, _, err := runCommand(t, "events", "list",
		"--from", "2026-02-09", "--to", "2026-02-15",
		"--category", "cleaning", "--input", input, "--json")
	if err != nil {
		t.Fatalf("events list error: %v", err)
	}
	env := decodeEnvelope(t, stdout)
	meta, _ := env["meta"].(map[string]any)
	if got := meta["count"].(float64); got != 1 {
		t.Fatalf("meta.count=%v want=1", got)
	}
}

func TestMissingInputFails(t *testing.T) {
	_, stderr, err := runCommand(t, "month", "--month", "2026-02", "--json")
	if err == nil {
		t.Fatalf("expected error without --input")
	}
	if ExitCode(err) != exitUsage {
		t.Fatalf("exit=%d want=%d", ExitCode(err), exitUsage)
	}
	env := decodeEnvelope(t, stderr)
	if _, ok := env["error"]; !ok {
		t.Fatalf("expected error envelope on stderr: %s", stderr)
	}
}

func TestConflictingOutputModes(t *testing.T) {
	input := writeBookings(t)
	_, _, err := runCommand(t, "month", "--input", input, "--json", "--plain")
	if err == nil {
		t.Fatalf("expected error for conflicting output modes")
	}
	if ExitCode(err) != exitUsage {
		t.Fatalf("exit=%d want=%d", ExitCode(err), exitUsage)
	}
}

func TestParseWeekStart(t *testing.T) {
	wd, err := parseWeekStart("monday")
	if err != nil || wd != time.Monday {
		t.Fatalf("expected monday, got %v err=%v", wd, err)
	}
	wd, err = parseWeekStart("sun")
	if err != nil || wd != time.Sunday {
		t.Fatalf("expected sunday, got %v err=%v", wd, err)
	}
	if _, err := parseWeekStart("fri"); err == nil {
		t.Fatalf("expected error for invalid week start")
	}
}

func TestBuildWindowExpandsMidnightEnd(t *testing.T) {
	w, err := buildWindow("2026-02-09", "2026-02-15", time.UTC)
	if err != nil {
		t.Fatalf("buildWindow error: %v", err)
	}
	if got, want := w.To.Format(time.RFC3339), "2026-02-16T00:00:00Z"; got != want {
		t.Fatalf("to=%s want=%s", got, want)
	}
}

func TestWantsStructuredErrorOutput(t *testing.T) {
	if !wantsStructuredErrorOutput([]string{"month", "--json"}) {
		t.Fatalf("expected true for --json")
	}
	if wantsStructuredErrorOutput([]string{"month", "--", "--json"}) {
		t.Fatalf("expected false after --")
	}
	if wantsStructuredErrorOutput([]string{"month", "--plain"}) {
		t.Fatalf("expected false for --plain")
	}
}
