// Package timeutil holds the date/time helpers shared by the matcher and the
// reservation engine. Playtomic reports timestamps as timezone-naive UTC, so
// everything time-of-day related goes through ToZone before being compared
// against the user's schedule.
package timeutil

import "time"

// StartOfDay returns 00:00:00.000000 of t's calendar date, in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59.999999 of t's calendar date, in t's location.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999000, t.Location())
}

// ToLocal reinterprets a timezone-naive timestamp as UTC and converts it to
// the system's local timezone.
func ToLocal(t time.Time) time.Time {
	return ToZone(t, time.Local)
}

// ToZone reinterprets t's wall clock as UTC (no shift) and converts the
// resulting instant to loc, shifting the wall clock accordingly. loc carries
// full IANA rules, so the conversion is DST-aware.
func ToZone(t time.Time, loc *time.Location) time.Time {
	asUTC := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	return asUTC.In(loc)
}

// WeekStart returns the start of the Monday-based calendar week containing t.
func WeekStart(t time.Time) time.Time {
	d := StartOfDay(t)
	return d.AddDate(0, 0, -mondayIndex(d.Weekday()))
}

// WithinCurrentWeek reports whether t falls inside the Monday-based calendar
// week containing now.
func WithinCurrentWeek(t, now time.Time) bool {
	start := WeekStart(now)
	return !t.Before(start) && t.Before(start.AddDate(0, 0, 7))
}

// DaysUntilNextMonday returns the number of days from t's date to the first
// Monday strictly after it (7 when t itself is a Monday).
func DaysUntilNextMonday(t time.Time) int {
	return 7 - mondayIndex(t.Weekday())
}

func mondayIndex(w time.Weekday) int {
	return (int(w) + 6) % 7
}
