package app

import (
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

type layoutFileConfig struct {
	MaxVisibleRows   int     `toml:"max_visible_rows"`
	MaxEventsPerSlot int     `toml:"max_events_per_slot"`
	HourHeight       float64 `toml:"hour_height"`
	CellWidth        float64 `toml:"cell_width"`
	PresenceRows     int     `toml:"presence_rows"`
}

type fileConfig struct {
	Input      string                `toml:"input"`
	Format     string                `toml:"format"`
	TZ         string                `toml:"tz"`
	WeekStart  string                `toml:"week_start"`
	Output     string                `toml:"output"`
	Fields     string                `toml:"fields"`
	DateFormat string                `toml:"date_format"`
	Profile    string                `toml:"profile"`
	Layout     layoutFileConfig      `toml:"layout"`
	Profiles   map[string]fileConfig `toml:"profiles"`
}

// resolveGlobalOptions merges, in increasing precedence: user config file,
// project .callay.toml, an explicit --config file, CALLAY_* env vars, flags.
func resolveGlobalOptions(cmd *cobra.Command, defaults *globalOptions) (*globalOptions, error) {
	resolved := *defaults

	profile := firstNonEmpty(env("CALLAY_PROFILE"), defaults.Profile)
	if flagValueChanged(cmd, "profile") {
		profile = defaults.Profile
	}
	if profile == "" {
		profile = "default"
	}
	resolved.Profile = profile

	userPath := defaultUserConfigPath()
	projectPath := ".callay.toml"
	configPath := firstNonEmpty(env("CALLAY_CONFIG"), userPath)
	if flagValueChanged(cmd, "config") {
		configPath = defaults.Config
	}

	if cfg, ok := readConfigFile(userPath); ok {
		applyFileConfig(&resolved, cfg, profile)
	}
	if cfg, ok := readConfigFile(projectPath); ok {
		applyFileConfig(&resolved, cfg, profile)
	}
	if configPath != "" && configPath != userPath && configPath != projectPath {
		if cfg, ok := readConfigFile(configPath); ok {
			applyFileConfig(&resolved, cfg, profile)
		}
	}

	applyEnv(&resolved)
	applyFlags(cmd, &resolved, defaults)

	if resolved.Config == "" {
		resolved.Config = configPath
	}
	return &resolved, nil
}

func applyFileConfig(dst *globalOptions, cfg fileConfig, profile string) {
	if p, ok := cfg.Profiles[profile]; ok {
		cfg = mergeFileConfig(cfg, p)
	}
	if cfg.Input != "" {
		dst.Input = cfg.Input
	}
	if cfg.Format != "" {
		dst.Format = cfg.Format
	}
	if cfg.TZ != "" {
		dst.TZ = cfg.TZ
	}
	if cfg.WeekStart != "" {
		dst.WeekStart = cfg.WeekStart
	}
	if cfg.Fields != "" {
		dst.Fields = cfg.Fields
	}
	if cfg.DateFormat != "" {
		dst.DateFormat = cfg.DateFormat
	}
	if cfg.Layout.MaxVisibleRows > 0 {
		dst.MaxVisibleRows = cfg.Layout.MaxVisibleRows
	}
	if cfg.Layout.MaxEventsPerSlot > 0 {
		dst.MaxEventsPerSlot = cfg.Layout.MaxEventsPerSlot
	}
	if cfg.Layout.HourHeight > 0 {
		dst.HourHeight = cfg.Layout.HourHeight
	}
	if cfg.Layout.CellWidth > 0 {
		dst.CellWidth = cfg.Layout.CellWidth
	}
	if cfg.Layout.PresenceRows > 0 {
		dst.PresenceRows = cfg.Layout.PresenceRows
	}
	if cfg.Output != "" {
		switch strings.ToLower(cfg.Output) {
		case "json":
			dst.JSON, dst.JSONL, dst.Plain = true, false, false
		case "jsonl":
			dst.JSON, dst.JSONL, dst.Plain = false, true, false
		case "plain":
			dst.JSON, dst.JSONL, dst.Plain = false, false, true
		}
	}
}

func mergeFileConfig(base, overlay fileConfig) fileConfig {
	if overlay.Input != "" {
		base.Input = overlay.Input
	}
	if overlay.Format != "" {
		base.Format = overlay.Format
	}
	if overlay.TZ != "" {
		base.TZ = overlay.TZ
	}
	if overlay.WeekStart != "" {
		base.WeekStart = overlay.WeekStart
	}
	if overlay.Output != "" {
		base.Output = overlay.Output
	}
	if overlay.Fields != "" {
		base.Fields = overlay.Fields
	}
	if overlay.DateFormat != "" {
		base.DateFormat = overlay.DateFormat
	}
	if overlay.Profile != "" {
		base.Profile = overlay.Profile
	}
	if overlay.Layout.MaxVisibleRows > 0 {
		base.Layout.MaxVisibleRows = overlay.Layout.MaxVisibleRows
	}
	if overlay.Layout.MaxEventsPerSlot > 0 {
		base.Layout.MaxEventsPerSlot = overlay.Layout.MaxEventsPerSlot
	}
	if overlay.Layout.HourHeight > 0 {
		base.Layout.HourHeight = overlay.Layout.HourHeight
	}
	if overlay.Layout.CellWidth > 0 {
		base.Layout.CellWidth = overlay.Layout.CellWidth
	}
	if overlay.Layout.PresenceRows > 0 {
		base.Layout.PresenceRows = overlay.Layout.PresenceRows
	}
	return base
}

func applyEnv(dst *globalOptions) {
	if v := env("CALLAY_INPUT"); v != "" {
		dst.Input = v
	}
	if v := env("CALLAY_FORMAT"); v != "" {
		dst.Format = v
	}
	if v := env("CALLAY_TIMEZONE"); v != "" {
		dst.TZ = v
	}
	if v := env("CALLAY_WEEK_START"); v != "" {
		dst.WeekStart = v
	}
	if v := env("CALLAY_FIELDS"); v != "" {
		dst.Fields = v
	}
	if v := env("CALLAY_DATE_FORMAT"); v != "" {
		dst.DateFormat = v
	}
	if v := env("CALLAY_OUTPUT"); v != "" {
		switch strings.ToLower(v) {
		case "json":
			dst.JSON, dst.JSONL, dst.Plain = true, false, false
		case "jsonl":
			dst.JSON, dst.JSONL, dst.Plain = false, true, false
		case "plain":
			dst.JSON, dst.JSONL, dst.Plain = false, false, true
		}
	}
}

func applyFlags(cmd *cobra.Command, dst, fromFlags *globalOptions) {
	copyIfChanged(cmd, "json", func() { dst.JSON = fromFlags.JSON })
	copyIfChanged(cmd, "jsonl", func() { dst.JSONL = fromFlags.JSONL })
	copyIfChanged(cmd, "plain", func() { dst.Plain = fromFlags.Plain })
	copyIfChanged(cmd, "fields", func() { dst.Fields = fromFlags.Fields })
	copyIfChanged(cmd, "quiet", func() { dst.Quiet = fromFlags.Quiet })
	copyIfChanged(cmd, "verbose", func() { dst.Verbose = fromFlags.Verbose })
	copyIfChanged(cmd, "profile", func() { dst.Profile = fromFlags.Profile })
	copyIfChanged(cmd, "config", func() { dst.Config = fromFlags.Config })
	copyIfChanged(cmd, "input", func() { dst.Input = fromFlags.Input })
	copyIfChanged(cmd, "format", func() { dst.Format = fromFlags.Format })
	copyIfChanged(cmd, "tz", func() { dst.TZ = fromFlags.TZ })
	copyIfChanged(cmd, "week-start", func() { dst.WeekStart = fromFlags.WeekStart })
	copyIfChanged(cmd, "date-format", func() { dst.DateFormat = fromFlags.DateFormat })
	copyIfChanged(cmd, "max-visible-rows", func() { dst.MaxVisibleRows = fromFlags.MaxVisibleRows })
	copyIfChanged(cmd, "max-events-per-slot", func() { dst.MaxEventsPerSlot = fromFlags.MaxEventsPerSlot })
	copyIfChanged(cmd, "hour-height", func() { dst.HourHeight = fromFlags.HourHeight })
	copyIfChanged(cmd, "cell-width", func() { dst.CellWidth = fromFlags.CellWidth })
	copyIfChanged(cmd, "presence-rows", func() { dst.PresenceRows = fromFlags.PresenceRows })
	copyIfChanged(cmd, "schema-version", func() { dst.SchemaVersion = fromFlags.SchemaVersion })

	// If exactly one output mode flag is explicitly set, it overrides env/config output mode.
	modeSet := 0
	if flagValueChanged(cmd, "json") && fromFlags.JSON {
		modeSet++
	}
	if flagValueChanged(cmd, "jsonl") && fromFlags.JSONL {
		modeSet++
	}
	if flagValueChanged(cmd, "plain") && fromFlags.Plain {
		modeSet++
	}
	if modeSet == 1 {
		if flagValueChanged(cmd, "json") && fromFlags.JSON {
			dst.JSON, dst.JSONL, dst.Plain = true, false, false
		}
		if flagValueChanged(cmd, "jsonl") && fromFlags.JSONL {
			dst.JSON, dst.JSONL, dst.Plain = false, true, false
		}
		if flagValueChanged(cmd, "plain") && fromFlags.Plain {
			dst.JSON, dst.JSONL, dst.Plain = false, false, true
		}
	}
}

func copyIfChanged(cmd *cobra.Command, name string, fn func()) {
	if flagValueChanged(cmd, name) {
		fn()
	}
}

func flagValueChanged(cmd *cobra.Command, name string) bool {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		return true
	}
	if f := cmd.InheritedFlags().Lookup(name); f != nil && f.Changed {
		return true
	}
	return false
}

func readConfigFile(path string) (fileConfig, bool) {
	if strings.TrimSpace(path) == "" {
		return fileConfig{}, false
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, false
	}
	var cfg fileConfig
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return fileConfig{}, false
	}
	return cfg, true
}

func defaultUserConfigPath() string {
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, "callay", "config.toml")
	}
	home := strings.TrimSpace(os.Getenv("HOME"))
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".config", "callay", "config.toml")
}

func env(k string) string { return strings.TrimSpace(os.Getenv(k)) }

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
