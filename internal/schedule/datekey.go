package schedule

import (
	"fmt"
	"time"
)

// DateKeyLayout is the canonical YYYY-MM-DD day identifier.
const DateKeyLayout = "2006-01-02"

// ToDateKey formats the calendar day of t, read in t's own location.
// Time of day is ignored, so every instant of the same local day maps to
// the same key.
func ToDateKey(t time.Time) string {
	y, m, d := t.Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, int(m), d)
}

// ParseDateKey turns a key back into midnight of that day in loc.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateKeyLayout, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	return t, nil
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}

// AddDays moves t by n calendar days and normalizes to midnight.
func AddDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, t.Location())
}

// DaysBetween counts calendar days from a to b (negative when b precedes a).
// Both dates are read in their own locations; the count is independent of
// DST transitions.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// SameDay reports whether a and b share a calendar day.
func SameDay(a, b time.Time) bool {
	return ToDateKey(a) == ToDateKey(b)
}
