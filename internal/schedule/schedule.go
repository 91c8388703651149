// Package schedule parses the user's recurring booking preference: which
// weekdays, which start times and which duration to look for.
package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidSchedule is wrapped by every parse failure in this package.
// Schedule input is user-provided and fatal at startup; callers must not
// retry it.
var ErrInvalidSchedule = errors.New("invalid schedule")

// allowed court durations, in hours, matching the venue's bookable increments.
var allowedDurations = map[string]float64{
	"1":   60,
	"1.5": 90,
	"2":   120,
}

// Schedule is the normalized, immutable form of the user's preferences.
// Hours is kept raw because time targets are date-relative: they are
// re-parsed against each candidate slot's date (the schedule is a recurring
// pattern, not a fixed set of timestamps).
type Schedule struct {
	Weekdays        []time.Weekday
	Hours           string
	DurationMinutes float64
}

// New builds a Schedule from the raw preference strings: days like "2,3"
// (1-based, Monday first), hours like "20:00,21:30" and a duration in hours
// ("1", "1.5" or "2").
func New(days, hours, durationHours string) (*Schedule, error) {
	weekdays, err := ParseWeekdays(days)
	if err != nil {
		return nil, err
	}

	// Parse once against a probe date so malformed hour tokens fail at
	// startup rather than mid-scan.
	if _, err := ParseTimeTargets(hours, time.Now()); err != nil {
		return nil, err
	}

	minutes, ok := allowedDurations[strings.TrimSpace(durationHours)]
	if !ok {
		return nil, fmt.Errorf("%w: duration must be one of 1, 1.5 or 2 hours, got %q", ErrInvalidSchedule, durationHours)
	}

	return &Schedule{
		Weekdays:        weekdays,
		Hours:           hours,
		DurationMinutes: minutes,
	}, nil
}

// MatchesWeekday reports whether w is one of the schedule's target weekdays.
func (s *Schedule) MatchesWeekday(w time.Weekday) bool {
	for _, d := range s.Weekdays {
		if d == w {
			return true
		}
	}
	return false
}

// ParseWeekdays parses a comma-separated list of 1-based day numbers
// (1=Monday .. 7=Sunday) into weekdays, e.g. "2,3" for Tuesday and Wednesday.
func ParseWeekdays(raw string) ([]time.Weekday, error) {
	var out []time.Weekday
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("%w: day %q is not a number", ErrInvalidSchedule, tok)
		}
		if n < 1 || n > 7 {
			return nil, fmt.Errorf("%w: day %d out of range 1-7", ErrInvalidSchedule, n)
		}
		// 1..6 line up with time.Monday..time.Saturday; 7 wraps to Sunday.
		out = append(out, time.Weekday(n%7))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no days provided", ErrInvalidSchedule)
	}
	return out, nil
}

// ParseTimeTargets parses a comma-separated list of "HH:MM" or "HH:MM:SS"
// tokens and combines each with base's calendar date, in base's location.
func ParseTimeTargets(raw string, base time.Time) ([]time.Time, error) {
	var out []time.Time
	for _, tok := range strings.Split(raw, ",") {
		t, err := parseTimeOfDay(tok, base)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no hours provided", ErrInvalidSchedule)
	}
	return out, nil
}

func parseTimeOfDay(tok string, base time.Time) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(tok), ":")
	if len(parts) < 2 {
		return time.Time{}, fmt.Errorf("%w: time %q must be HH:MM or HH:MM:SS", ErrInvalidSchedule, tok)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad hour in %q", ErrInvalidSchedule, tok)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad minute in %q", ErrInvalidSchedule, tok)
	}
	second := 0
	if len(parts) > 2 {
		second, err = strconv.Atoi(parts[2])
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: bad second in %q", ErrInvalidSchedule, tok)
		}
	}

	return time.Date(base.Year(), base.Month(), base.Day(), hour, minute, second, 0, base.Location()), nil
}
