package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/agis/callay/internal/contract"
	"github.com/agis/callay/internal/layout"
	"github.com/agis/callay/internal/output"
	"github.com/agis/callay/internal/source"
	"github.com/agis/callay/internal/timeparse"
	"github.com/agis/callay/internal/timeutil"
)

type globalOptions struct {
	JSON             bool
	JSONL            bool
	Plain            bool
	Fields           string
	Quiet            bool
	Verbose          bool
	Profile          string
	Config           string
	Input            string
	Format           string
	TZ               string
	WeekStart        string
	DateFormat       string
	MaxVisibleRows   int
	MaxEventsPerSlot int
	HourHeight       float64
	CellWidth        float64
	PresenceRows     int
	SchemaVersion    string
}

func Execute() int {
	cmd := NewRootCommand()
	err := cmd.Execute()
	if err != nil {
		renderTopLevelError(cmd, err)
	}
	return ExitCode(err)
}

func NewRootCommand() *cobra.Command {
	opts := &globalOptions{
		Profile:       "default",
		WeekStart:     "monday",
		SchemaVersion: contract.SchemaVersion,
	}

	root := &cobra.Command{
		Use:           "callay",
		Short:         "Compute calendar layout geometry for booking schedules",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       BuildVersionString(),
	}
	root.SetVersionTemplate("callay {{.Version}}\n")

	root.PersistentFlags().BoolVar(&opts.JSON, "json", false, "Output structured JSON")
	root.PersistentFlags().BoolVar(&opts.JSONL, "jsonl", false, "Output newline-delimited JSON")
	root.PersistentFlags().BoolVar(&opts.Plain, "plain", false, "Output stable plain text")
	root.PersistentFlags().StringVar(&opts.Fields, "fields", "", "Projected fields, comma-separated")
	root.PersistentFlags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Reduce success output")
	root.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Verbose diagnostics")
	root.PersistentFlags().StringVar(&opts.Profile, "profile", "default", "Config profile")
	root.PersistentFlags().StringVar(&opts.Config, "config", "", "Config file path")
	root.PersistentFlags().StringVarP(&opts.Input, "input", "i", "", "Event source path (.ics, .yaml, or .db)")
	root.PersistentFlags().StringVar(&opts.Format, "format", "auto", "Source format: auto|ics|yaml|sqlite")
	root.PersistentFlags().StringVar(&opts.TZ, "tz", "", "IANA timezone for layout computation")
	root.PersistentFlags().StringVar(&opts.WeekStart, "week-start", "monday", "First day of the week: monday|sunday")
	root.PersistentFlags().StringVar(&opts.DateFormat, "date-format", "", "strftime pattern for plain output timestamps")
	root.PersistentFlags().IntVar(&opts.MaxVisibleRows, "max-visible-rows", 0, "Visible event rows per month cell")
	root.PersistentFlags().IntVar(&opts.MaxEventsPerSlot, "max-events-per-slot", 0, "Side-by-side events per overlap cluster")
	root.PersistentFlags().Float64Var(&opts.HourHeight, "hour-height", 0, "Pixel height of one hour in week and day views")
	root.PersistentFlags().Float64Var(&opts.CellWidth, "cell-width", 0, "Pixel width of one month day cell")
	root.PersistentFlags().IntVar(&opts.PresenceRows, "presence-rows", 0, "Presence bar rows shown when collapsed")
	root.PersistentFlags().StringVar(&opts.SchemaVersion, "schema-version", contract.SchemaVersion, "Output schema version")

	root.AddCommand(newMonthCmd(opts))
	root.AddCommand(newWeekCmd(opts))
	root.AddCommand(newDayCmd(opts))
	root.AddCommand(newPresenceCmd(opts))
	root.AddCommand(newEventsCmd(opts))
	root.AddCommand(newConfigCmd(opts))
	root.AddCommand(newVersionCmd())
	root.AddCommand(newCompletionCmd(root))

	return root
}

// buildContext resolves config/env/flags into final options and constructs
// the printer and layout config for a command invocation.
func buildContext(cmd *cobra.Command, opts *globalOptions, command string) (output.Printer, layout.Config, *globalOptions, error) {
	resolved, err := resolveGlobalOptions(cmd, opts)
	if err != nil {
		return output.Printer{}, layout.Config{}, nil, Wrap(exitUsage, err)
	}
	if conflictCount(resolved.JSON, resolved.JSONL, resolved.Plain) > 1 {
		return output.Printer{}, layout.Config{}, nil, Wrap(exitUsage, errors.New("--json, --jsonl, and --plain are mutually exclusive"))
	}
	mode := output.ModeAuto
	if resolved.JSON {
		mode = output.ModeJSON
	} else if resolved.JSONL {
		mode = output.ModeJSONL
	} else if resolved.Plain {
		mode = output.ModePlain
	}

	printer := output.Printer{
		Mode:          mode,
		Command:       command,
		Fields:        splitCSV(resolved.Fields),
		Quiet:         resolved.Quiet,
		SchemaVersion: resolved.SchemaVersion,
		DateFormat:    resolved.DateFormat,
		Out:           cmd.OutOrStdout(),
		Err:           cmd.ErrOrStderr(),
	}

	weekStart, err := parseWeekStart(resolved.WeekStart)
	if err != nil {
		_ = printer.Error(contract.ErrInvalidUsage, err.Error(), "Use --week-start monday or --week-start sunday")
		return printer, layout.Config{}, nil, WrapPrinted(exitUsage, err)
	}
	cfg := layout.Config{
		WeekStart:        weekStart,
		CellWidth:        resolved.CellWidth,
		MaxVisibleRows:   resolved.MaxVisibleRows,
		HourHeight:       resolved.HourHeight,
		MaxEventsPerSlot: resolved.MaxEventsPerSlot,
		PresenceRows:     resolved.PresenceRows,
	}

	if resolved.Verbose {
		_, _ = fmt.Fprintf(printer.Err, "callay: command=%s input=%s format=%s mode=%s tz=%s profile=%s\n",
			command, resolved.Input, resolved.Format, mode, resolved.TZ, resolved.Profile)
	}
	return printer, cfg, resolved, nil
}

// loadEvents reads the configured source and validates the result. Validation
// warnings are surfaced through the success envelope by the caller.
func loadEvents(ctx context.Context, printer output.Printer, ro *globalOptions, window source.Window) ([]contract.Event, []string, error) {
	if strings.TrimSpace(ro.Input) == "" {
		err := errors.New("no event source: pass --input or set input in config")
		_ = printer.Error(contract.ErrInvalidUsage, err.Error(), "Example: callay month --input bookings.yaml")
		return nil, nil, WrapPrinted(exitUsage, err)
	}
	format, err := parseFormat(ro.Format)
	if err != nil {
		_ = printer.Error(contract.ErrInvalidUsage, err.Error(), "Use --format auto, ics, yaml, or sqlite")
		return nil, nil, WrapPrinted(exitUsage, err)
	}
	events, warnings, err := source.Load(ctx, ro.Input, format, window)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			_ = printer.Error(contract.ErrNotFound, err.Error(), "Check the --input path")
			return nil, nil, WrapPrinted(exitGeneric, err)
		}
		_ = printer.Error(contract.ErrSourceUnavailable, err.Error(), "Verify the source file is readable and well-formed")
		return nil, nil, WrapPrinted(exitSource, err)
	}
	if ro.Verbose {
		_, _ = fmt.Fprintf(printer.Err, "callay: loaded %d events from %s\n", len(events), ro.Input)
		for _, w := range warnings {
			_, _ = fmt.Fprintf(printer.Err, "callay: warning: %s\n", w)
		}
	}
	return events, warnings, nil
}

func parseFormat(v string) (source.Format, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "auto":
		return source.FormatAuto, nil
	case "ics", "ical":
		return source.FormatICS, nil
	case "yaml", "yml":
		return source.FormatYAML, nil
	case "sqlite", "db":
		return source.FormatSQLite, nil
	default:
		return source.FormatAuto, fmt.Errorf("unknown format: %s", v)
	}
}

func renderTopLevelError(cmd *cobra.Command, err error) {
	var appErr AppError
	if errors.As(err, &appErr) && appErr.Printed {
		return
	}
	if wantsStructuredErrorOutput(os.Args[1:]) {
		printer := output.Printer{
			Mode:          output.ModeJSON,
			SchemaVersion: contract.SchemaVersion,
			Err:           cmd.ErrOrStderr(),
		}
		_ = printer.Error(errorCodeForExit(ExitCode(err)), err.Error(), "")
		return
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "error: %s\n", err.Error())
}

func wantsStructuredErrorOutput(args []string) bool {
	for _, arg := range args {
		switch {
		case arg == "--":
			return false
		case arg == "--json", arg == "--jsonl":
			return true
		case strings.HasPrefix(arg, "--json="), strings.HasPrefix(arg, "--jsonl="):
			return true
		}
	}
	return false
}

func errorCodeForExit(code int) contract.ErrorCode {
	switch code {
	case exitUsage:
		return contract.ErrInvalidUsage
	case exitSource:
		return contract.ErrSourceUnavailable
	default:
		return contract.ErrGeneric
	}
}

func resolveLocation(tz string) *time.Location {
	if strings.TrimSpace(tz) != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.Local
}

func parseWeekStart(v string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "monday", "mon":
		return time.Monday, nil
	case "sunday", "sun":
		return time.Sunday, nil
	default:
		return time.Monday, fmt.Errorf("invalid --week-start: %s", v)
	}
}

// gridWindow converts an inclusive [start, end] span into the half-open load
// window the sources filter on.
func gridWindow(start, end time.Time) source.Window {
	return source.Window{From: start, To: end.Add(time.Second)}
}

func anchorDate(v string, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(v)
	if s == "" {
		s = "today"
	}
	t, err := timeparse.ParseDateTime(s, time.Now().In(loc), loc)
	if err != nil {
		return time.Time{}, err
	}
	return timeutil.DayStart(t), nil
}

func conflictCount(vals ...bool) int {
	total := 0
	for _, v := range vals {
		if v {
			total++
		}
	}
	return total
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		v := strings.TrimSpace(p)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
