package domain

import "time"

// DateLayout is the calendar-day format used everywhere a date crosses a
// boundary (API params, sqlite TEXT columns).
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD day into a UTC-midnight time.Time.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// Day truncates t to a UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysInclusive counts whole calendar days in [start, end], both endpoints
// included. A single-day range counts as 1. Integer day arithmetic, so DST
// and sub-day drift cannot change the count.
func DaysInclusive(start, end time.Time) int {
	s, e := Day(start), Day(end)
	return int(e.Sub(s).Hours()/24) + 1
}

// Overlaps reports whether the inclusive day ranges [s1,e1] and [s2,e2]
// share at least one calendar day.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return !Day(s1).After(Day(e2)) && !Day(s2).After(Day(e1))
}
