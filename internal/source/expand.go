package source

import (
	"time"

	"github.com/teambition/rrule-go"

	"github.com/agis/callay/internal/contract"
	"github.com/agis/callay/internal/timeutil"
)

// maxOccurrencesPerEvent caps expansion so a runaway RRULE cannot flood the
// layout pass.
const maxOccurrencesPerEvent = 1000

// expandOccurrences turns parsed ICS events into concrete occurrences within
// window. Non-recurring events pass through when they intersect the window;
// RRULE events are expanded with EXDATE exceptions applied. Occurrence ids
// are suffixed with the instance start so each stays unique.
func expandOccurrences(events []icsEvent, window Window) []contract.Event {
	from, to := window.From, window.To
	unbounded := from.IsZero() && to.IsZero()

	var out []contract.Event
	for _, ev := range events {
		if ev.rawRRule == "" {
			if unbounded || timeutil.Overlaps(ev.Start, ev.End, from, to) {
				out = append(out, ev.Event)
			}
			continue
		}

		r, err := rrule.StrToRRule(ev.rawRRule)
		if err != nil {
			// Unparseable rule: keep the base occurrence, drop the recurrence.
			if unbounded || timeutil.Overlaps(ev.Start, ev.End, from, to) {
				out = append(out, ev.Event)
			}
			continue
		}
		r.DTStart(ev.Start)

		var set rrule.Set
		set.RRule(r)
		for _, ex := range ev.exDates {
			set.ExDate(ex.In(ev.Start.Location()))
		}

		rangeStart, rangeEnd := from, to
		if unbounded {
			rangeStart = ev.Start
			rangeEnd = ev.Start.AddDate(1, 0, 0)
		}
		starts := set.Between(rangeStart.In(ev.Start.Location()), rangeEnd.In(ev.Start.Location()), true)
		if len(starts) > maxOccurrencesPerEvent {
			starts = starts[:maxOccurrencesPerEvent]
		}

		duration := ev.End.Sub(ev.Start)
		for _, start := range starts {
			occ := ev.Event
			occ.Start = start
			occ.End = start.Add(duration)
			occ.ID = ev.ID + "@" + start.Format(time.RFC3339)
			out = append(out, occ)
		}
	}
	return out
}
