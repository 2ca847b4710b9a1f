package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/agis/callay/internal/contract"
)

func TestSchemaVersionDefault(t *testing.T) {
	p := Printer{}
	if p.schemaVersion() != contract.SchemaVersion {
		t.Fatalf("expected default schema version %q", contract.SchemaVersion)
	}
}

func TestFlattenWithFields(t *testing.T) {
	p := Printer{Fields: []string{"id", "title"}}
	e := contract.Event{
		ID:    "abc",
		Title: "Harbor stay",
		Start: time.Date(2026, 2, 16, 10, 0, 0, 0, time.UTC),
	}
	if got := p.flatten(e); got != "abc\tHarbor stay" {
		t.Fatalf("unexpected flatten result: %q", got)
	}
}

func TestFlattenTimeUsesDateFormat(t *testing.T) {
	p := Printer{Fields: []string{"start"}, DateFormat: "%Y/%m/%d"}
	e := contract.Event{Start: time.Date(2026, 2, 16, 10, 0, 0, 0, time.UTC)}
	if got := p.flatten(e); got != "2026/02/16" {
		t.Fatalf("stamped time = %q, want 2026/02/16", got)
	}
}

func TestSuccessJSONEnvelope(t *testing.T) {
	var buf bytes.Buffer
	p := Printer{Mode: ModeJSON, Command: "month", Out: &buf}
	if err := p.Success([]string{"x"}, map[string]any{"count": 1}, nil); err != nil {
		t.Fatalf("Success: %v", err)
	}
	var env contract.SuccessEnvelope
	if err := json.Unmarshal(buf.Bytes(), &env); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	if env.Command != "month" || env.SchemaVersion != contract.SchemaVersion {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestErrorEnvelopeToErrStream(t *testing.T) {
	var out, errBuf bytes.Buffer
	p := Printer{Mode: ModeJSON, Out: &out, Err: &errBuf}
	if err := p.Error(contract.ErrInvalidUsage, "bad flag", "use --help"); err != nil {
		t.Fatalf("Error: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("error envelope leaked to stdout: %s", out.String())
	}
	if !strings.Contains(errBuf.String(), "INVALID_USAGE") {
		t.Fatalf("missing code in %s", errBuf.String())
	}
}

func TestPlainEmptySlice(t *testing.T) {
	var buf bytes.Buffer
	p := Printer{Mode: ModePlain, Out: &buf}
	if err := p.Success([]contract.Event{}, nil, nil); err != nil {
		t.Fatalf("Success: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "no results" {
		t.Fatalf("plain empty output = %q", got)
	}
}

func TestSpan(t *testing.T) {
	base := time.Date(2026, 2, 16, 10, 0, 0, 0, time.UTC)
	cases := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Minute, "30 minutes"},
		{2 * time.Hour, "2 hours"},
		{90 * time.Minute, "1 hours 30 minutes"},
	}
	for _, tc := range cases {
		if got := Span(base, base.Add(tc.d)); got != tc.want {
			t.Fatalf("Span(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}
