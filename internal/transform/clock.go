package transform

import (
	"strings"
	"time"
	"unicode"

	"rentdash/internal/models"
)

// Placeholder rendered for missing or unparseable values.
const (
	PlaceholderDash = "-"
	PlaceholderNA   = "N/A"
)

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses an upstream timestamp defensively. The second return
// value reports whether the input was usable.
func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ClockString renders a timestamp as "15:04", or "-" when absent.
func ClockString(t time.Time, ok bool) string {
	if !ok {
		return PlaceholderDash
	}
	return t.Format("15:04")
}

// DateString renders a timestamp as "02 Jan 2006", or "-" when absent.
func DateString(t time.Time, ok bool) string {
	if !ok {
		return PlaceholderDash
	}
	return t.Format("02 Jan 2006")
}

// DurationHours computes end minus start in hours. Either endpoint missing,
// or a negative window, yields 0.
func DurationHours(start, end time.Time, startOK, endOK bool) float64 {
	if !startOK || !endOK {
		return 0
	}
	hours := end.Sub(start).Hours()
	if hours < 0 {
		return 0
	}
	return hours
}

// Status capitalizes a free-text upstream status; empty input becomes
// "Unknown".
func Status(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.StatusUnknown
	}
	lower := strings.ToLower(raw)
	runes := []rune(lower)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// fallback returns the first non-empty string, or def when all are empty.
func fallback(def string, values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return def
}
