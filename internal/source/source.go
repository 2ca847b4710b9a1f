// Package source loads and validates booking events from ICS feeds, YAML
// fixtures and sqlite stores. The layout engine assumes pre-validated input;
// this package is the validation boundary in front of it.
package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agis/callay/internal/contract"
	"github.com/agis/callay/internal/groupkey"
)

type Format string

const (
	FormatAuto   Format = "auto"
	FormatICS    Format = "ics"
	FormatYAML   Format = "yaml"
	FormatSQLite Format = "sqlite"
)

// Window is the time range layout will be asked for. Recurring events are
// expanded into occurrences inside it.
type Window struct {
	From time.Time
	To   time.Time
}

// DetectFormat infers the input format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ics", ".ical":
		return FormatICS, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".db", ".sqlite", ".sqlitedb":
		return FormatSQLite, nil
	default:
		return FormatAuto, fmt.Errorf("cannot infer input format from %q", path)
	}
}

// Load reads events from path in the given format (FormatAuto infers it),
// expands recurrences within window, and validates the result. The returned
// warnings describe dropped or repaired events.
func Load(ctx context.Context, path string, format Format, window Window) ([]contract.Event, []string, error) {
	if format == "" || format == FormatAuto {
		f, err := DetectFormat(path)
		if err != nil {
			return nil, nil, err
		}
		format = f
	}

	var (
		events []contract.Event
		err    error
	)
	switch format {
	case FormatICS:
		events, err = LoadICS(path, window)
	case FormatYAML:
		events, err = LoadYAML(path)
	case FormatSQLite:
		events, err = LoadSQLite(ctx, path, window)
	default:
		return nil, nil, fmt.Errorf("unknown input format: %s", format)
	}
	if err != nil {
		return nil, nil, err
	}

	valid, warnings := Validate(events)
	return valid, warnings, nil
}

// Validate enforces the engine's input invariants: start < end, a non-empty
// id (filled with a uuid when missing), and a group key parsed exactly once.
// Invalid events are dropped with a warning instead of failing the load.
func Validate(events []contract.Event) ([]contract.Event, []string) {
	out := make([]contract.Event, 0, len(events))
	var warnings []string
	for _, ev := range events {
		if !ev.Start.Before(ev.End) {
			warnings = append(warnings, fmt.Sprintf("dropped event %q: start is not before end", eventRef(ev)))
			continue
		}
		if strings.TrimSpace(ev.ID) == "" {
			ev.ID = uuid.NewString()
		}
		if ev.Category == "" {
			ev.Category = contract.CategoryUnassigned
		}
		ev.Key = groupkey.Parse(ev.GroupKey)
		if ev.GroupKey != "" && !ev.Key.Valid() {
			warnings = append(warnings, fmt.Sprintf("event %q: unrecognized group key %q, treated as ungrouped for row continuity", ev.ID, ev.GroupKey))
		}
		out = append(out, ev)
	}
	return out, warnings
}

func eventRef(ev contract.Event) string {
	if ev.ID != "" {
		return ev.ID
	}
	if ev.Title != "" {
		return ev.Title
	}
	return "(unnamed)"
}
