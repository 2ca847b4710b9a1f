package app

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/agis/callay/internal/contract"
	"github.com/agis/callay/internal/layout"
	"github.com/agis/callay/internal/source"
	"github.com/agis/callay/internal/timeparse"
	"github.com/agis/callay/internal/timeutil"
)

func newMonthCmd(opts *globalOptions) *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "month",
		Short: "Compute the month grid layout: spans, rows, and overflow counts",
		RunE: func(c *cobra.Command, _ []string) error {
			p, cfg, ro, err := buildContext(c, opts, "month")
			if err != nil {
				return err
			}
			loc := resolveLocation(ro.TZ)
			anchor, err := timeparse.ParseMonth(month, time.Now().In(loc), loc)
			if err != nil {
				_ = p.Error(contract.ErrInvalidUsage, err.Error(), "Use --month as YYYY-MM, YYYY-MM-DD, or relative day syntax")
				return Wrap(exitUsage, err)
			}
			grid := timeutil.MonthGrid(anchor, cfg.WeekStart)
			window := source.Window{From: grid[0], To: grid[len(grid)-1].AddDate(0, 0, 7)}
			events, warnings, err := loadEvents(context.Background(), p, ro, window)
			if err != nil {
				return err
			}
			result := layout.Month(events, anchor, cfg)
			meta := map[string]any{
				"view":   "month",
				"month":  anchor.Format("2006-01"),
				"weeks":  len(result.WeekStarts),
				"events": len(events),
			}
			return p.Success(result, meta, warnings)
		},
	}
	cmd.Flags().StringVar(&month, "month", "today", "Month selector: YYYY-MM, YYYY-MM-DD, today, +Nd")
	return cmd
}

func newWeekCmd(opts *globalOptions) *cobra.Command {
	var of string
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Compute the week timeline layout with overlap clusters and presence bar",
		RunE: func(c *cobra.Command, _ []string) error {
			p, cfg, ro, err := buildContext(c, opts, "week")
			if err != nil {
				return err
			}
			loc := resolveLocation(ro.TZ)
			anchor, err := anchorDate(of, loc)
			if err != nil {
				_ = p.Error(contract.ErrInvalidUsage, err.Error(), "Use --of as today, tomorrow, +Nd, or YYYY-MM-DD")
				return Wrap(exitUsage, err)
			}
			start, end := timeutil.WeekBounds(anchor, cfg.WeekStart)
			events, warnings, err := loadEvents(context.Background(), p, ro, gridWindow(start, end))
			if err != nil {
				return err
			}
			result := layout.Week(events, anchor, cfg)
			meta := map[string]any{
				"view":       "week",
				"from":       start.Format("2006-01-02"),
				"to":         end.Format("2006-01-02"),
				"week_start": cfg.WeekStart.String(),
				"events":     len(events),
			}
			return p.Success(result, meta, warnings)
		},
	}
	cmd.Flags().StringVar(&of, "of", "today", "Date selector within target week")
	return cmd
}

func newDayCmd(opts *globalOptions) *cobra.Command {
	var day string
	cmd := &cobra.Command{
		Use:   "day",
		Short: "Compute the single-day timeline layout with concurrency stats",
		RunE: func(c *cobra.Command, _ []string) error {
			p, cfg, ro, err := buildContext(c, opts, "day")
			if err != nil {
				return err
			}
			loc := resolveLocation(ro.TZ)
			anchor, err := anchorDate(day, loc)
			if err != nil {
				_ = p.Error(contract.ErrInvalidUsage, err.Error(), "Use --day as today, tomorrow, +Nd, or YYYY-MM-DD")
				return Wrap(exitUsage, err)
			}
			start, end := timeutil.DayBounds(anchor)
			events, warnings, err := loadEvents(context.Background(), p, ro, gridWindow(start, end))
			if err != nil {
				return err
			}
			result := layout.Day(events, anchor, cfg)
			meta := map[string]any{
				"view":            "day",
				"day":             start.Format("2006-01-02"),
				"events":          len(result.Events),
				"max_concurrency": result.MaxConcurrency,
			}
			return p.Success(result, meta, warnings)
		},
	}
	cmd.Flags().StringVar(&day, "day", "today", "Day selector")
	return cmd
}

func newPresenceCmd(opts *globalOptions) *cobra.Command {
	var of string
	var expanded bool
	cmd := &cobra.Command{
		Use:   "presence",
		Short: "Compute the weekly presence bar segments",
		RunE: func(c *cobra.Command, _ []string) error {
			p, cfg, ro, err := buildContext(c, opts, "presence")
			if err != nil {
				return err
			}
			loc := resolveLocation(ro.TZ)
			anchor, err := anchorDate(of, loc)
			if err != nil {
				_ = p.Error(contract.ErrInvalidUsage, err.Error(), "Use --of as today, tomorrow, +Nd, or YYYY-MM-DD")
				return Wrap(exitUsage, err)
			}
			start, end := timeutil.WeekBounds(anchor, cfg.WeekStart)
			events, warnings, err := loadEvents(context.Background(), p, ro, gridWindow(start, end))
			if err != nil {
				return err
			}
			result := layout.Presence(events, start, cfg)
			visible := result.Rows
			if !expanded && visible > result.CollapsedRows {
				visible = result.CollapsedRows
			}
			meta := map[string]any{
				"view":         "presence",
				"from":         start.Format("2006-01-02"),
				"to":           end.Format("2006-01-02"),
				"rows":         result.Rows,
				"visible_rows": visible,
				"expanded":     expanded,
			}
			return p.Success(result, meta, warnings)
		},
	}
	cmd.Flags().StringVar(&of, "of", "today", "Date selector within target week")
	cmd.Flags().BoolVar(&expanded, "expanded", false, "Report all rows instead of the collapsed view")
	return cmd
}
