package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/agis/callay/internal/contract"
	"github.com/agis/callay/internal/output"
	"github.com/agis/callay/internal/source"
	"github.com/agis/callay/internal/timeparse"
	"github.com/agis/callay/internal/timeutil"
)

func newEventsCmd(opts *globalOptions) *cobra.Command {
	events := &cobra.Command{Use: "events", Short: "Event resources"}

	var listFrom, listTo, listCategory, listGroup string
	var listLimit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List events from the configured source",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, _, ro, err := buildContext(cmd, opts, "events.list")
			if err != nil {
				return err
			}
			loc := resolveLocation(ro.TZ)
			window, err := buildWindow(listFrom, listTo, loc)
			if err != nil {
				return failWithHint(p, contract.ErrInvalidUsage, err, "Use --from and --to with RFC3339, YYYY-MM-DD, or relative values", exitUsage)
			}
			items, warnings, err := loadEvents(context.Background(), p, ro, window)
			if err != nil {
				return err
			}
			items = filterWindow(items, window)
			items = filterEvents(items, listCategory, listGroup)
			if listLimit > 0 && len(items) > listLimit {
				items = items[:listLimit]
			}
			rows := make([]eventRow, 0, len(items))
			for _, e := range items {
				rows = append(rows, newEventRow(e, p))
			}
			return p.Success(rows, map[string]any{"count": len(rows)}, warnings)
		},
	}
	list.Flags().StringVar(&listFrom, "from", "today", "Range start")
	list.Flags().StringVar(&listTo, "to", "+7d", "Range end")
	list.Flags().StringVar(&listCategory, "category", "", "Filter by category")
	list.Flags().StringVar(&listGroup, "group", "", "Filter by group key")
	list.Flags().IntVar(&listLimit, "limit", 0, "Limit results")

	var sumFrom, sumTo string
	summary := &cobra.Command{
		Use:   "summary",
		Short: "Per-day event counts over a range",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, _, ro, err := buildContext(cmd, opts, "events.summary")
			if err != nil {
				return err
			}
			loc := resolveLocation(ro.TZ)
			window, err := buildWindow(sumFrom, sumTo, loc)
			if err != nil {
				return failWithHint(p, contract.ErrInvalidUsage, err, "Use --from and --to with RFC3339, YYYY-MM-DD, or relative values", exitUsage)
			}
			items, warnings, err := loadEvents(context.Background(), p, ro, window)
			if err != nil {
				return err
			}
			rows := summarizeEventsByDay(items, window.From, window.To.Add(-time.Second), loc)
			return p.Success(rows, map[string]any{"count": len(rows), "summary": true}, warnings)
		},
	}
	summary.Flags().StringVar(&sumFrom, "from", "today", "Range start")
	summary.Flags().StringVar(&sumTo, "to", "+7d", "Range end")

	events.AddCommand(list)
	events.AddCommand(summary)
	return events
}

type eventRow struct {
	ID       string `json:"id"`
	GroupKey string `json:"group_key,omitempty"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Length   string `json:"length"`
}

func newEventRow(e contract.Event, p output.Printer) eventRow {
	return eventRow{
		ID:       e.ID,
		GroupKey: e.GroupKey,
		Title:    e.Title,
		Category: string(e.Category),
		Start:    p.Stamp(e.Start),
		End:      p.Stamp(e.End),
		Length:   output.Span(e.Start, e.End),
	}
}

func filterWindow(items []contract.Event, w source.Window) []contract.Event {
	out := make([]contract.Event, 0, len(items))
	for _, e := range items {
		if timeutil.Overlaps(e.Start, e.End, w.From, w.To) {
			out = append(out, e)
		}
	}
	return out
}

func filterEvents(items []contract.Event, category, group string) []contract.Event {
	category = strings.ToLower(strings.TrimSpace(category))
	group = strings.TrimSpace(group)
	if category == "" && group == "" {
		return items
	}
	out := make([]contract.Event, 0, len(items))
	for _, e := range items {
		if category != "" && string(e.Category) != category {
			continue
		}
		if group != "" && e.GroupKey != group {
			continue
		}
		out = append(out, e)
	}
	return out
}

type daySummary struct {
	Date     string `json:"date"`
	Total    int    `json:"total"`
	MultiDay int    `json:"multi_day"`
	Timed    int    `json:"timed"`
}

func summarizeEventsByDay(events []contract.Event, from, to time.Time, loc *time.Location) []daySummary {
	if to.Before(from) {
		return nil
	}
	buckets := map[string]*daySummary{}
	for _, e := range events {
		day := e.Start.In(loc).Format("2006-01-02")
		row, ok := buckets[day]
		if !ok {
			row = &daySummary{Date: day}
			buckets[day] = row
		}
		row.Total++
		if timeutil.DaysBetween(e.Start.In(loc), e.End.In(loc)) > 0 {
			row.MultiDay++
		} else {
			row.Timed++
		}
	}

	start := timeutil.DayStart(from.In(loc))
	end := timeutil.DayStart(to.In(loc))
	rows := make([]daySummary, 0, int(end.Sub(start)/(24*time.Hour))+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		if row, ok := buckets[key]; ok {
			rows = append(rows, *row)
			continue
		}
		rows = append(rows, daySummary{Date: key})
	}
	return rows
}

func buildWindow(fromS, toS string, loc *time.Location) (source.Window, error) {
	from, err := timeparse.ParseDateTime(fromS, time.Now().In(loc), loc)
	if err != nil {
		return source.Window{}, fmt.Errorf("invalid --from: %w", err)
	}
	to, err := timeparse.ParseDateTime(toS, time.Now().In(loc), loc)
	if err != nil {
		return source.Window{}, fmt.Errorf("invalid --to: %w", err)
	}
	if to.Before(from) {
		return source.Window{}, fmt.Errorf("--to must not be earlier than --from")
	}
	if to.Hour() == 0 && to.Minute() == 0 && to.Second() == 0 {
		to = to.AddDate(0, 0, 1)
	}
	return source.Window{From: from, To: to}, nil
}

func failWithHint(p output.Printer, code contract.ErrorCode, err error, hint string, exit int) error {
	_ = p.Error(code, err.Error(), hint)
	return WrapPrinted(exit, err)
}
