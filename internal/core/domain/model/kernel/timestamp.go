package kernel

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
)

const (
	// TimestampLayout is the canonical second-precision layout of stored timestamps.
	TimestampLayout = "2006-01-02 15:04:05"

	// MinuteLayout is used for driver note prefixes and payout identifiers.
	MinuteLayout = "2006-01-02 15:04"

	// DateLayout is the calendar date layout of scan dates and verification dates.
	DateLayout = "2006-01-02"
)

// ErrTimestampIsInvalid is returned when a value matches none of the accepted layouts.
var ErrTimestampIsInvalid = errors.New("timestamp is invalid")

// acceptedLayouts is the bounded set tried, in order, by ParseTimestamp.
var acceptedLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	TimestampLayout,
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	MinuteLayout,
	DateLayout,
}

// ParseTimestamp parses val with the accepted layouts, interpreting zone-less values in loc.
//
// A trailing alphabetic word (a zone abbreviation such as "UTC" or "CET") is dropped
// when the value has more than two whitespace-separated parts. Values carrying an
// explicit offset keep it.
//
// Returns:
//   - the parsed time
//   - an error wrapping ErrTimestampIsInvalid when no layout matches
//
// Example:
//
//	at, err := kernel.ParseTimestamp("2024-05-01 09:30:00 UTC", time.UTC)
//	if errors.Is(err, kernel.ErrTimestampIsInvalid) {
//	    // fall back to the scan time
//	}
func ParseTimestamp(val string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	val = strings.TrimSpace(val)
	parts := strings.Fields(val)
	if len(parts) > 2 && isAlpha(parts[len(parts)-1]) {
		val = strings.Join(parts[:len(parts)-1], " ")
	}

	for _, layout := range acceptedLayouts {
		if t, err := time.ParseInLocation(layout, val, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrTimestampIsInvalid, val)
}

// FormatTimestamp renders t with TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// FormatDate renders the calendar date of t.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD calendar date in loc.
func ParseDate(val string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(val), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", ErrTimestampIsInvalid, val)
	}
	return t, nil
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
