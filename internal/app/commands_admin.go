package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agis/callay/internal/output"
)

type configResult struct {
	Profile          string  `json:"profile"`
	Config           string  `json:"config,omitempty"`
	Input            string  `json:"input,omitempty"`
	Format           string  `json:"format"`
	TZ               string  `json:"tz,omitempty"`
	WeekStart        string  `json:"week_start"`
	OutputMode       string  `json:"output_mode"`
	DateFormat       string  `json:"date_format,omitempty"`
	MaxVisibleRows   int     `json:"max_visible_rows,omitempty"`
	MaxEventsPerSlot int     `json:"max_events_per_slot,omitempty"`
	HourHeight       float64 `json:"hour_height,omitempty"`
	CellWidth        float64 `json:"cell_width,omitempty"`
	PresenceRows     int     `json:"presence_rows,omitempty"`
	SchemaVersion    string  `json:"schema_version"`
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "callay %s\n", BuildVersionString())
		},
	}
}

func newConfigCmd(opts *globalOptions) *cobra.Command {
	config := &cobra.Command{Use: "config", Short: "Configuration resources"}
	show := &cobra.Command{
		Use:   "show",
		Short: "Show the resolved runtime configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, _, ro, err := buildContext(cmd, opts, "config.show")
			if err != nil {
				return err
			}
			res := configResult{
				Profile:          ro.Profile,
				Config:           ro.Config,
				Input:            ro.Input,
				Format:           ro.Format,
				TZ:               ro.TZ,
				WeekStart:        ro.WeekStart,
				OutputMode:       string(p.EffectiveSuccessMode()),
				DateFormat:       ro.DateFormat,
				MaxVisibleRows:   ro.MaxVisibleRows,
				MaxEventsPerSlot: ro.MaxEventsPerSlot,
				HourHeight:       ro.HourHeight,
				CellWidth:        ro.CellWidth,
				PresenceRows:     ro.PresenceRows,
				SchemaVersion:    ro.SchemaVersion,
			}
			if p.EffectiveSuccessMode() == output.ModePlain {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "profile=%s input=%s format=%s week_start=%s output_mode=%s\n",
					res.Profile, res.Input, res.Format, res.WeekStart, res.OutputMode)
				return nil
			}
			return p.Success(res, map[string]any{"profile": res.Profile}, nil)
		},
	}
	config.AddCommand(show)
	return config
}

func newCompletionCmd(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "completion <bash|zsh|fish|powershell>",
		Short: "Generate shell completion scripts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := strings.ToLower(args[0])
			switch shell {
			case "bash":
				return root.GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return root.GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return root.GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return root.GenPowerShellCompletion(cmd.OutOrStdout())
			default:
				return Wrap(exitUsage, fmt.Errorf("unsupported shell: %s", shell))
			}
		},
	}
}
