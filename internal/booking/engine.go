package booking

import (
	"context"
	"errors"
	"time"

	"github.com/example/padel-scheduler/internal/logging"
	"github.com/example/padel-scheduler/internal/playtomic"
	"github.com/example/padel-scheduler/internal/schedule"
	"github.com/example/padel-scheduler/internal/timeutil"
)

// ErrNoPayAtClub is reported when a venue's payment intent does not offer the
// pay-at-club method. The tool only books courts that can be paid on site.
var ErrNoPayAtClub = errors.New("no \"Pay at the club\" payment method available")

const payAtClubName = "Pay at the club"

// Venue is a bookable club.
type Venue struct {
	ID   string
	Name string
}

// Client is the slice of the Playtomic API the engine consumes.
type Client interface {
	UserID() string
	FetchAvailability(ctx context.Context, venueID string, start, end time.Time) ([]playtomic.AvailabilityEntry, error)
	RecentMatches(ctx context.Context, limit int, sort string) ([]playtomic.MatchRecord, error)
	CreatePaymentIntent(ctx context.Context, req playtomic.PaymentIntentRequest) (playtomic.PaymentIntent, error)
	UpdatePaymentIntent(ctx context.Context, intentID string, upd playtomic.PaymentIntentUpdate) (playtomic.PaymentIntent, error)
	ConfirmReservation(ctx context.Context, intentID string) (playtomic.Confirmation, error)
}

// Engine scans one venue at a time and books the first slot that matches the
// schedule, flipping State exactly once on success.
type Engine struct {
	Client Client
	Sched  *schedule.Schedule
	State  *State
	Log    *logging.Logger

	// WeeklyCap is the number of pending reservations tolerated in the
	// current week before the search skips to next Monday. Zero means the
	// default of 1.
	WeeklyCap int

	// Loc and Now are overridable for tests.
	Loc *time.Location
	Now func() time.Time
}

// ProcessVenue counts this week's pending reservations, picks the search
// anchor accordingly and scans availability, booking the first matching slot.
func (e *Engine) ProcessVenue(ctx context.Context, venue Venue) error {
	loc := e.Loc
	if loc == nil {
		loc = time.Local
	}
	nowFn := e.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	now := nowFn().In(loc)

	e.Log.Info("verifying courts", "venue", venue.Name)

	pending, err := e.pendingThisWeek(ctx, now, loc)
	if err != nil {
		return err
	}

	weeklyCap := e.WeeklyCap
	if weeklyCap < 1 {
		weeklyCap = 1
	}

	anchor := timeutil.StartOfDay(now)
	if pending >= weeklyCap {
		// This week already has its reservation; search from next Monday.
		anchor = anchor.AddDate(0, 0, timeutil.DaysUntilNextMonday(anchor))
	} else {
		// Grace window: never book slots closer than two days out.
		anchor = anchor.AddDate(0, 0, 2)
	}

	m := &Matcher{Fetch: e.Client, Sched: e.Sched, Log: e.Log, Loc: loc, Now: nowFn}
	return m.Scan(ctx, venue.ID, anchor, func(slot ResolvedSlot) error {
		// Re-checked per slot: an earlier slot in this same scan may have
		// just booked.
		if e.State.Confirmed() {
			return nil
		}
		if !e.Sched.MatchesWeekday(slot.Start.Weekday()) {
			return nil
		}
		e.reserve(ctx, venue.ID, slot)
		return nil
	})
}

// pendingThisWeek counts the caller's PENDING matches whose local start falls
// in the current Monday-based week.
func (e *Engine) pendingThisWeek(ctx context.Context, now time.Time, loc *time.Location) (int, error) {
	matches, err := e.Client.RecentMatches(ctx, 10, "start_date,desc")
	if err != nil {
		return 0, err
	}

	count := 0
	for _, m := range matches {
		if m.Status != playtomic.MatchStatusPending {
			continue
		}
		naive, err := time.Parse(playtomic.WireTime, m.StartDate)
		if err != nil {
			continue
		}
		if timeutil.WithinCurrentWeek(timeutil.ToZone(naive, loc), now) {
			count++
		}
	}
	return count, nil
}

// reserve runs the three-step booking transaction: create intent, select the
// pay-at-club method, confirm. Failures are logged and swallowed so the scan
// keeps going; State stays unconfirmed and a later cycle may retry.
func (e *Engine) reserve(ctx context.Context, venueID string, slot ResolvedSlot) {
	req := playtomic.BuildPaymentIntentRequest(e.Client.UserID(), venueID, slot.ResourceID, slot.Start, slot.DurationMinutes)

	intent, err := e.Client.CreatePaymentIntent(ctx, req)
	if err != nil {
		e.logFailure("create payment intent", err, req)
		return
	}

	method, ok := findPayAtClub(intent.AvailablePaymentMethods)
	if !ok {
		e.logFailure("select payment method", ErrNoPayAtClub, req)
		return
	}

	upd := playtomic.PaymentIntentUpdate{SelectedPaymentMethodID: method.ID}
	if _, err := e.Client.UpdatePaymentIntent(ctx, intent.ID, upd); err != nil {
		e.logFailure("update payment intent", err, upd)
		return
	}

	if _, err := e.Client.ConfirmReservation(ctx, intent.ID); err != nil {
		e.logFailure("confirm reservation", err, nil)
		return
	}

	if e.State.markConfirmed() {
		e.Log.Info("reservation confirmed", "start", slot.Start.Format("2006 Jan 02 - 03:04 PM"))
	}
}

func (e *Engine) logFailure(step string, err error, payload any) {
	args := []any{"step", step, "err", err}
	if payload != nil {
		args = append(args, "payload", payload)
	}
	if ae, ok := playtomic.AsAPIError(err); ok {
		args = append(args, "status_code", ae.StatusCode, "body", ae.Body)
	}
	e.Log.Error("booking attempt failed", args...)
}

func findPayAtClub(methods []playtomic.PaymentMethod) (playtomic.PaymentMethod, bool) {
	for _, m := range methods {
		if m.Name == payAtClubName {
			return m, true
		}
	}
	return playtomic.PaymentMethod{}, false
}
