// Package layout converts time-interval events into pixel-positioned,
// row-assigned structures for month, week and day calendar views. Every
// function is pure: the same events and config always produce the same
// output, and inputs are never mutated.
package layout

import (
	"time"

	"github.com/agis/callay/internal/contract"
)

// Config carries every layout knob explicitly. There is no ambient state;
// callers build one Config per relayout and pass it into each entry point.
type Config struct {
	WeekStart        time.Weekday
	CellWidth        float64 // month cell width in pixels
	MaxVisibleRows   int     // month rows painted before "+N" overflow
	HourHeight       float64 // week/day pixels per hour
	MinEventHeight   float64 // week/day height floor
	MaxEventsPerSlot int     // week/day events rendered per overlap cluster
	PresenceRows     int     // presence bar rows shown while collapsed
	Palette          map[contract.Category]string
}

const (
	// MinEventWidth is the horizontal floor for month positions, keeping
	// zero-duration and rounding-degenerate spans visible.
	MinEventWidth = 2.0

	defaultCellWidth      = 120.0
	defaultHourHeight     = 80.0
	defaultMinEventHeight = 20.0
)

func DefaultConfig() Config {
	return Config{
		WeekStart:        time.Monday,
		CellWidth:        defaultCellWidth,
		MaxVisibleRows:   3,
		HourHeight:       defaultHourHeight,
		MinEventHeight:   defaultMinEventHeight,
		MaxEventsPerSlot: 2,
		PresenceRows:     2,
		Palette:          DefaultPalette(),
	}
}

func DefaultPalette() map[contract.Category]string {
	return map[contract.Category]string{
		contract.CategoryBooking:     "blue",
		contract.CategoryCleaning:    "teal",
		contract.CategoryMaintenance: "orange",
		contract.CategoryInspection:  "purple",
		contract.CategoryUnassigned:  "gray",
		contract.CategoryOther:       "slate",
	}
}

// normalized fills zero fields with defaults so degenerate configs stay total.
func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.CellWidth <= 0 {
		c.CellWidth = d.CellWidth
	}
	if c.MaxVisibleRows <= 0 {
		c.MaxVisibleRows = d.MaxVisibleRows
	}
	if c.HourHeight <= 0 {
		c.HourHeight = d.HourHeight
	}
	if c.MinEventHeight <= 0 {
		c.MinEventHeight = d.MinEventHeight
	}
	if c.MaxEventsPerSlot <= 0 {
		c.MaxEventsPerSlot = d.MaxEventsPerSlot
	}
	if c.PresenceRows <= 0 {
		c.PresenceRows = d.PresenceRows
	}
	if c.Palette == nil {
		c.Palette = d.Palette
	}
	return c
}

func (c Config) color(cat contract.Category) string {
	if v, ok := c.Palette[cat]; ok {
		return v
	}
	return c.Palette[contract.CategoryOther]
}
