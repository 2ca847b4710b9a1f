package contract

import (
	"strings"
	"time"

	"github.com/agis/callay/internal/groupkey"
)

const SchemaVersion = "v1"

type ErrorCode string

const (
	ErrGeneric           ErrorCode = "GENERIC_FAILURE"
	ErrInvalidUsage      ErrorCode = "INVALID_USAGE"
	ErrNotFound          ErrorCode = "NOT_FOUND"
	ErrSourceUnavailable ErrorCode = "SOURCE_UNAVAILABLE"
)

type ErrorEnvelope struct {
	SchemaVersion string         `json:"schema_version"`
	Error         ErrorBody      `json:"error"`
	Meta          map[string]any `json:"meta,omitempty"`
}

type ErrorBody struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Hint    string    `json:"hint,omitempty"`
}

type SuccessEnvelope struct {
	SchemaVersion string         `json:"schema_version"`
	Command       string         `json:"command"`
	GeneratedAt   time.Time      `json:"generated_at"`
	Data          any            `json:"data"`
	Meta          map[string]any `json:"meta"`
	Warnings      []string       `json:"warnings"`
}

// Category classifies a booking-calendar event. Unknown inputs map to
// CategoryOther; CategoryUnassigned is reserved for events without a
// property and is excluded from the presence bar.
type Category string

const (
	CategoryBooking     Category = "booking"
	CategoryCleaning    Category = "cleaning"
	CategoryMaintenance Category = "maintenance"
	CategoryInspection  Category = "inspection"
	CategoryUnassigned  Category = "unassigned"
	CategoryOther       Category = "other"
)

func ParseCategory(s string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryBooking:
		return CategoryBooking
	case CategoryCleaning:
		return CategoryCleaning
	case CategoryMaintenance:
		return CategoryMaintenance
	case CategoryInspection:
		return CategoryInspection
	case CategoryUnassigned, "":
		return CategoryUnassigned
	default:
		return CategoryOther
	}
}

// AttrKind tags the variant held by an Attr.
type AttrKind string

const (
	AttrString AttrKind = "string"
	AttrInt    AttrKind = "int"
	AttrFloat  AttrKind = "float"
	AttrBool   AttrKind = "bool"
)

// Attr is a closed scalar variant used for open event attributes.
type Attr struct {
	Kind  AttrKind `json:"kind"`
	Str   string   `json:"str,omitempty"`
	Int   int64    `json:"int,omitempty"`
	Float float64  `json:"float,omitempty"`
	Bool  bool     `json:"bool,omitempty"`
}

func StringAttr(v string) Attr { return Attr{Kind: AttrString, Str: v} }
func IntAttr(v int64) Attr     { return Attr{Kind: AttrInt, Int: v} }
func FloatAttr(v float64) Attr { return Attr{Kind: AttrFloat, Float: v} }
func BoolAttr(v bool) Attr     { return Attr{Kind: AttrBool, Bool: v} }

// Event is a validated calendar event as consumed by the layout engine.
// Invariant: Start < End. Key is parsed once at ingestion from GroupKey.
type Event struct {
	ID         string          `json:"id"`
	GroupKey   string          `json:"group_key"`
	Key        groupkey.Key    `json:"key"`
	Title      string          `json:"title"`
	Start      time.Time       `json:"start"`
	End        time.Time       `json:"end"`
	Category   Category        `json:"category"`
	Attributes map[string]Attr `json:"attributes,omitempty"`
}

// StringAttrValue returns the named string attribute, if present.
func (e Event) StringAttrValue(name string) (string, bool) {
	a, ok := e.Attributes[name]
	if !ok || a.Kind != AttrString {
		return "", false
	}
	return a.Str, true
}
