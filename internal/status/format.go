package status

import (
	"time"

	"github.com/dustin/go-humanize"
)

// DefaultTimestampLayout approximates the en-US browser default locale string.
const (
	DefaultTimestampLayout = "1/2/2006, 3:04:05 PM"
	DefaultTimeLayout      = "3:04:05 PM"
)

// serverLayouts are the timestamp shapes the Aveum server emits, tried in order.
var serverLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
}

// Formatter renders timestamps for display. The zero value uses the default
// layouts in the local time zone.
type Formatter struct {
	TimestampLayout string
	TimeLayout      string
	Location        *time.Location
}

func (f Formatter) location() *time.Location {
	if f.Location != nil {
		return f.Location
	}
	return time.Local
}

func (f Formatter) timestampLayout() string {
	if f.TimestampLayout != "" {
		return f.TimestampLayout
	}
	return DefaultTimestampLayout
}

// DateTime formats a server timestamp. Empty input and "Never" come back as
// "Never"; input that matches no known server layout is returned unchanged.
func (f Formatter) DateTime(s string) string {
	if s == "" || s == Never {
		return Never
	}
	t, ok := f.ParseServerTime(s)
	if !ok {
		return s
	}
	return t.In(f.location()).Format(f.timestampLayout())
}

// ParseServerTime parses a timestamp the way the server writes it. Naive
// timestamps are read in the formatter's location.
func (f Formatter) ParseServerTime(s string) (time.Time, bool) {
	for _, layout := range serverLayouts {
		if t, err := time.ParseInLocation(layout, s, f.location()); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDisplay reverses DateTime for a formatted string.
func (f Formatter) ParseDisplay(s string) (time.Time, error) {
	return time.ParseInLocation(f.timestampLayout(), s, f.location())
}

// Time formats a time of day.
func (f Formatter) Time(t time.Time) string {
	layout := f.TimeLayout
	if layout == "" {
		layout = DefaultTimeLayout
	}
	return t.In(f.location()).Format(layout)
}

// FormatNumber groups the integer part in threes: 1234567.5 → "1,234,567.5".
// Absent values are decoded as 0 and render as "0".
func FormatNumber(v float64) string {
	return humanize.Commaf(v)
}

// FormatDateTime formats with the default Formatter.
func FormatDateTime(s string) string {
	return Formatter{}.DateTime(s)
}
