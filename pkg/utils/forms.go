package utils

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Layouts accepted for date-time form inputs, most specific first.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDateTime reads a datetime-local input in the server's zone.
// Blank input yields nil.
func ParseDateTime(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q", raw)
}

// FormatDateTime renders t for a datetime-local input.
func FormatDateTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(time.Local).Format("2006-01-02T15:04")
}

// OptionalString trims raw and returns nil when nothing is left.
func OptionalString(raw string) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	return &raw
}

func OptionalFloat(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := cast.ToFloat64E(strings.ReplaceAll(raw, ",", "."))
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("invalid number %q", raw)
	}
	return &v, nil
}

func OptionalInt64(raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := cast.ToInt64E(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", raw)
	}
	return &v, nil
}

func OptionalInt(raw string) (*int, error) {
	v, err := OptionalInt64(raw)
	if err != nil || v == nil {
		return nil, err
	}
	i := int(*v)
	return &i, nil
}

// ParseID reads a positive identifier from a path or form value.
func ParseID(raw string) (int64, error) {
	id, err := cast.ToInt64E(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid identifier %q", raw)
	}
	return id, nil
}

// ParseIDs reads a list of identifiers, skipping blanks and duplicates.
func ParseIDs(raw []string) ([]int64, error) {
	seen := make(map[int64]bool, len(raw))
	out := make([]int64, 0, len(raw))
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			id, err := ParseID(part)
			if err != nil {
				return nil, err
			}
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out, nil
}
