package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ncruces/go-strftime"

	"github.com/agis/callay/internal/contract"
)

type Mode string

const (
	ModeAuto  Mode = "auto"
	ModeJSON  Mode = "json"
	ModeJSONL Mode = "jsonl"
	ModePlain Mode = "plain"
)

// Printer writes command results as envelopes (json/jsonl) or as flat
// tab-separated rows (plain). DateFormat is a strftime pattern applied to
// time fields in plain output.
type Printer struct {
	Mode          Mode
	Command       string
	Fields        []string
	Quiet         bool
	SchemaVersion string
	DateFormat    string
	Out           io.Writer
	Err           io.Writer
}

func (p Printer) Success(data any, meta map[string]any, warnings []string) error {
	switch p.Mode {
	case ModeJSON:
		env := contract.SuccessEnvelope{
			SchemaVersion: p.schemaVersion(),
			Command:       p.Command,
			GeneratedAt:   time.Now().UTC(),
			Data:          data,
			Meta:          meta,
			Warnings:      warnings,
		}
		enc := json.NewEncoder(p.out())
		enc.SetIndent("", "  ")
		return enc.Encode(env)
	case ModeJSONL:
		v := reflect.ValueOf(data)
		if v.IsValid() && v.Kind() == reflect.Slice {
			enc := json.NewEncoder(p.out())
			for i := 0; i < v.Len(); i++ {
				if err := enc.Encode(v.Index(i).Interface()); err != nil {
					return err
				}
			}
			return nil
		}
		return json.NewEncoder(p.out()).Encode(data)
	default:
		return p.printPlain(data)
	}
}

func (p Printer) Error(code contract.ErrorCode, message, hint string) error {
	if p.Mode == ModeJSON || p.Mode == ModeJSONL {
		env := contract.ErrorEnvelope{
			SchemaVersion: p.schemaVersion(),
			Error:         contract.ErrorBody{Code: code, Message: message, Hint: hint},
		}
		enc := json.NewEncoder(p.err())
		enc.SetIndent("", "  ")
		return enc.Encode(env)
	}
	if hint != "" {
		_, _ = fmt.Fprintf(p.err(), "error: %s\nhint: %s\n", message, hint)
		return nil
	}
	_, _ = fmt.Fprintf(p.err(), "error: %s\n", message)
	return nil
}

// Stamp renders t with the configured strftime pattern, defaulting to RFC3339.
func (p Printer) Stamp(t time.Time) string {
	if p.DateFormat == "" {
		return t.Format(time.RFC3339)
	}
	return strftime.Format(p.DateFormat, t)
}

// Span renders an interval's length for humans, e.g. "2 hours".
func Span(start, end time.Time) string {
	minutes := int64(end.Sub(start).Minutes())
	if minutes < 60 {
		return fmt.Sprintf("%s minutes", humanize.Comma(minutes))
	}
	hours := minutes / 60
	if minutes%60 == 0 {
		return fmt.Sprintf("%s hours", humanize.Comma(hours))
	}
	return fmt.Sprintf("%s hours %d minutes", humanize.Comma(hours), minutes%60)
}

// EffectiveSuccessMode reports the mode Success will actually render in.
// Auto resolves to plain output.
func (p Printer) EffectiveSuccessMode() Mode {
	switch p.Mode {
	case ModeJSON, ModeJSONL, ModePlain:
		return p.Mode
	default:
		return ModePlain
	}
}

func (p Printer) schemaVersion() string {
	if p.SchemaVersion == "" {
		return contract.SchemaVersion
	}
	return p.SchemaVersion
}

func (p Printer) out() io.Writer {
	if p.Out != nil {
		return p.Out
	}
	return os.Stdout
}

func (p Printer) err() io.Writer {
	if p.Err != nil {
		return p.Err
	}
	return os.Stderr
}

func (p Printer) printPlain(data any) error {
	v := reflect.ValueOf(data)
	if !v.IsValid() || (v.Kind() == reflect.Slice && v.Len() == 0) {
		if !p.Quiet {
			_, _ = fmt.Fprintln(p.out(), "no results")
		}
		return nil
	}
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			if _, err := fmt.Fprintln(p.out(), p.flatten(v.Index(i).Interface())); err != nil {
				return err
			}
		}
		return nil
	}
	_, err := fmt.Fprintln(p.out(), p.flatten(data))
	return err
}

func (p Printer) flatten(v any) string {
	if len(p.Fields) == 0 {
		b, _ := json.Marshal(v)
		return string(b)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		b, _ := json.Marshal(v)
		return string(b)
	}
	parts := make([]string, 0, len(p.Fields))
	for _, f := range p.Fields {
		fv := rv.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, strings.ReplaceAll(f, "_", "")) || strings.EqualFold(name, f)
		})
		if !fv.IsValid() {
			parts = append(parts, "")
			continue
		}
		if ts, ok := fv.Interface().(time.Time); ok {
			parts = append(parts, p.Stamp(ts))
			continue
		}
		parts = append(parts, fmt.Sprint(fv.Interface()))
	}
	return strings.Join(parts, "\t")
}
