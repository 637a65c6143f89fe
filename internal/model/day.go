package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage format of a Day.
const DateLayout = "2006-01-02"

// Day is a calendar date with no time of day or zone attached.
// The zero value is "no date". Days are comparable with ==.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar date of t in t's own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

// Today returns the current local calendar date.
func Today() Day {
	return DayOf(time.Now())
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD: %w", s, err)
	}
	return DayOf(t), nil
}

// MustParseDay is ParseDay for literals known to be valid.
func MustParseDay(s string) Day {
	d, err := ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Time returns midnight UTC of the day.
func (d Day) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// IsZero reports whether d is the zero Day.
func (d Day) IsZero() bool {
	return d == Day{}
}

// AddDays returns the day n days after d (n may be negative).
func (d Day) AddDays(n int) Day {
	return DayOf(d.Time().AddDate(0, 0, n))
}

// AddMonths moves by whole months, clamping the day to the target month's
// length so that Jan 31 + 1 month is Feb 28/29 rather than early March.
func (d Day) AddMonths(n int) Day {
	first := time.Date(d.Year, d.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	day := d.Day
	if day > last {
		day = last
	}
	return Day{Year: first.Year(), Month: first.Month(), Day: day}
}

// Before reports whether d is strictly earlier than o.
func (d Day) Before(o Day) bool {
	return d.Time().Before(o.Time())
}

// Weekday returns the day of the week.
func (d Day) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// FirstOfMonth returns the first day of d's month.
func (d Day) FirstOfMonth() Day {
	return Day{Year: d.Year, Month: d.Month, Day: 1}
}

// SameMonth reports whether d and o fall in the same month of the same year.
func (d Day) SameMonth(o Day) bool {
	return d.Year == o.Year && d.Month == o.Month
}

// String formats the day as YYYY-MM-DD.
func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(DateLayout)
}

// Format formats the day with a time layout, e.g. "Jan 2".
func (d Day) Format(layout string) string {
	return d.Time().Format(layout)
}

// MarshalJSON encodes the day as a "YYYY-MM-DD" string.
func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string. Timestamps with a time part
// (as some stores return for date columns) are truncated to their date.
func (d *Day) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decoding date: %w", err)
	}
	if s == "" {
		*d = Day{}
		return nil
	}
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
