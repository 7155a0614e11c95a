package util

import (
	"time"
)

const DateLayout = "2006-01-02"

// FormatZonedDate renders t in loc. A nil loc means UTC and an empty layout means DateLayout.
func FormatZonedDate(t time.Time, loc *time.Location, layout string) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	if layout == "" {
		layout = DateLayout
	}
	return t.In(loc).Format(layout)
}

// ParseDate parses a yyyy-MM-dd date at midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateLayout, value, loc)
}

// DayBounds returns the first and last instant of the day holding t in loc.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)

	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1).Add(time.Nanosecond * -1)

	return start, end
}
