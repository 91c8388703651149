package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/example/padel-scheduler/internal/logging"
	"github.com/example/padel-scheduler/internal/playtomic"
	"github.com/example/padel-scheduler/internal/schedule"
	"github.com/example/padel-scheduler/internal/timeutil"
)

// slotDate joins an availability entry's date with a slot's clock time.
const slotDate = "2006-01-02 15:04:05"

// ResolvedSlot is a bookable slot whose start has been resolved to a
// timezone-aware local instant.
type ResolvedSlot struct {
	ResourceID      string
	Start           time.Time
	DurationMinutes float64
}

type availabilityFetcher interface {
	FetchAvailability(ctx context.Context, venueID string, start, end time.Time) ([]playtomic.AvailabilityEntry, error)
}

// Matcher walks a venue's availability one day at a time and reports the
// slots that match the schedule's duration and start times. Weekday
// preference is deliberately not applied here: that is user-preference logic
// and belongs to the engine, right before booking.
type Matcher struct {
	Fetch availabilityFetcher
	Sched *schedule.Schedule
	Log   *logging.Logger

	// Loc and Now are overridable for tests; they default to the system
	// zone and clock.
	Loc *time.Location
	Now func() time.Time
}

// Scan queries availability day by day from anchor until the hard 7-day
// lookahead ceiling and invokes fn for every matching slot as it is found.
// fn returning an error stops the scan.
func (m *Matcher) Scan(ctx context.Context, venueID string, anchor time.Time, fn func(ResolvedSlot) error) error {
	loc := m.Loc
	if loc == nil {
		loc = time.Local
	}
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}

	start := timeutil.StartOfDay(anchor)
	end := timeutil.EndOfDay(anchor)
	limit := now().Add(7 * 24 * time.Hour)

	for start.Before(limit) {
		m.Log.Info("looking for courts", "venue_id", venueID, "date", start.Format("2006-01-02"))

		entries, err := m.Fetch.FetchAvailability(ctx, venueID, start, end)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if err := m.matchEntry(entry, loc, fn); err != nil {
				return err
			}
		}

		start = start.AddDate(0, 0, 1)
		end = end.AddDate(0, 0, 1)
	}
	return nil
}

func (m *Matcher) matchEntry(entry playtomic.AvailabilityEntry, loc *time.Location, fn func(ResolvedSlot) error) error {
	for _, slot := range entry.Slots {
		// Duration must match exactly; no tolerance.
		if slot.Duration != m.Sched.DurationMinutes {
			continue
		}

		naive, err := time.Parse(slotDate, entry.StartDate+" "+slot.StartTime)
		if err != nil {
			return fmt.Errorf("availability entry %s: %w", entry.ResourceID, err)
		}
		start := timeutil.ToZone(naive, loc)

		// Time targets are date-relative: re-parse them against the
		// resolved slot's own date.
		targets, err := schedule.ParseTimeTargets(m.Sched.Hours, start)
		if err != nil {
			return err
		}
		if !containsInstant(targets, start) {
			continue
		}

		m.Log.Info("found a matching court",
			"resource_id", entry.ResourceID,
			"start", start.Format("2006 Jan 02 - 03:04 PM"),
		)
		if err := fn(ResolvedSlot{
			ResourceID:      entry.ResourceID,
			Start:           start,
			DurationMinutes: slot.Duration,
		}); err != nil {
			return err
		}
	}
	return nil
}

func containsInstant(targets []time.Time, t time.Time) bool {
	for _, target := range targets {
		if target.Equal(t) {
			return true
		}
	}
	return false
}
