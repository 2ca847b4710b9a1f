package source

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/agis/callay/internal/contract"
)

type yamlFile struct {
	Events []yamlEvent `yaml:"events"`
}

type yamlEvent struct {
	ID         string         `yaml:"id"`
	GroupKey   string         `yaml:"group_key"`
	Title      string         `yaml:"title"`
	Start      string         `yaml:"start"`
	End        string         `yaml:"end"`
	Category   string         `yaml:"category"`
	Attributes map[string]any `yaml:"attributes"`
}

var yamlTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// LoadYAML reads an event fixture file. Timestamps without a zone are taken
// in local time.
func LoadYAML(path string) ([]contract.Event, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f yamlFile
	if err := yaml.Unmarshal(body, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	out := make([]contract.Event, 0, len(f.Events))
	for i, ye := range f.Events {
		start, err := parseYAMLTime(ye.Start)
		if err != nil {
			return nil, fmt.Errorf("event %d: invalid start: %w", i, err)
		}
		end, err := parseYAMLTime(ye.End)
		if err != nil {
			return nil, fmt.Errorf("event %d: invalid end: %w", i, err)
		}
		out = append(out, contract.Event{
			ID:         ye.ID,
			GroupKey:   ye.GroupKey,
			Title:      ye.Title,
			Start:      start,
			End:        end,
			Category:   contract.ParseCategory(ye.Category),
			Attributes: convertAttrs(ye.Attributes),
		})
	}
	return out, nil
}

func parseYAMLTime(s string) (time.Time, error) {
	for _, layout := range yamlTimeLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp: %q", s)
}

// convertAttrs narrows YAML's open values into the closed Attr variants.
// Unsupported value types are skipped.
func convertAttrs(in map[string]any) map[string]contract.Attr {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]contract.Attr, len(in))
	for k, v := range in {
		switch val := v.(type) {
		case string:
			out[k] = contract.StringAttr(val)
		case int:
			out[k] = contract.IntAttr(int64(val))
		case int64:
			out[k] = contract.IntAttr(val)
		case float64:
			out[k] = contract.FloatAttr(val)
		case bool:
			out[k] = contract.BoolAttr(val)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
