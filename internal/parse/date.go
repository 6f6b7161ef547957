package parse

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnrecognizedDate is returned when a value matches none of the accepted layouts.
var ErrUnrecognizedDate = errors.New("unrecognized date")

// Layouts without a zone are interpreted in the caller's location.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Date parses a user-supplied timestamp. RFC3339 values keep their offset;
// date-only and datetime-local values (as sent by HTML inputs) are read in loc.
func Date(raw string, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty value: %w", ErrUnrecognizedDate)
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}

	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q: %w", raw, ErrUnrecognizedDate)
}

// OptionalDate parses a possibly empty value. Nil or blank input yields nil.
func OptionalDate(raw *string, loc *time.Location) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	t, err := Date(*raw, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
