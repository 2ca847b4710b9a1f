package source

import (
	"fmt"
	"os"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/agis/callay/internal/contract"
)

// groupKeyProperty is the non-standard VEVENT property carrying the booking
// group identifier. LOCATION is the fallback used by feeds that encode the
// property key there.
const groupKeyProperty = "X-GROUP-KEY"

// icsEvent is a VEVENT before recurrence expansion.
type icsEvent struct {
	contract.Event

	rawRRule string
	exDates  []time.Time
}

// LoadICS parses an ICS file and expands recurring events into concrete
// occurrences within window.
func LoadICS(path string, window Window) ([]contract.Event, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cal, err := ical.ParseCalendar(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var parsed []icsEvent
	for _, ve := range cal.Events() {
		ev, err := parseVEvent(ve)
		if err != nil {
			// Skip the malformed VEVENT, keep the rest of the feed.
			continue
		}
		parsed = append(parsed, ev)
	}
	return expandOccurrences(parsed, window), nil
}

func parseVEvent(ve *ical.VEvent) (icsEvent, error) {
	var out icsEvent

	uid := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uid == nil || uid.Value == "" {
		return out, fmt.Errorf("missing UID")
	}
	out.ID = uid.Value

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Title = p.Value
	}
	if p := ve.GetProperty(groupKeyProperty); p != nil {
		out.GroupKey = p.Value
	} else if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		out.GroupKey = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyCategories); p != nil {
		out.Category = contract.ParseCategory(p.Value)
	} else {
		out.Category = contract.CategoryUnassigned
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil && p.Value != "" {
		out.Attributes = map[string]contract.Attr{
			"description": contract.StringAttr(p.Value),
		}
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return out, fmt.Errorf("event %s: %w", out.ID, err)
	}
	end, err := ve.GetEndAt()
	if err != nil {
		return out, fmt.Errorf("event %s: %w", out.ID, err)
	}
	out.Start = start
	out.End = end

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.rawRRule = p.Value
	}
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			if t, err := parseICSTime(strings.TrimSpace(part)); err == nil {
				out.exDates = append(out.exDates, t)
			}
		}
	}
	return out, nil
}

// parseICSTime handles the basic DATE, DATE-TIME and UTC forms used by
// EXDATE values.
func parseICSTime(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, fmt.Errorf("empty time value")
	}
	if strings.HasSuffix(v, "Z") {
		return time.Parse("20060102T150405Z", v)
	}
	if strings.Contains(v, "T") {
		return time.ParseInLocation("20060102T150405", v, time.Local)
	}
	return time.ParseInLocation("20060102", v, time.Local)
}
