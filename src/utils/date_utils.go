package utils

import (
	"strings"
	"time"
)

// ISODay is the wire format for calendar days.
const ISODay = "2006-01-02"

const secondsPerDay = 86400

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	ISODay,
	"2006/01/02",
}

// ParseTimestamp parses the ISO-like timestamps the directory emits.
// It returns nil for anything else.
func ParseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// DayDelta is the absolute difference between a and b in days, rounded to
// the nearest whole day.
func DayDelta(a, b time.Time) int {
	secs := a.Unix() - b.Unix()
	if secs < 0 {
		secs = -secs
	}
	return int((secs + secondsPerDay/2) / secondsPerDay)
}
