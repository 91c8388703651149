package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/padel-scheduler/internal/logging"
	"github.com/example/padel-scheduler/internal/playtomic"
)

// mockClient implements Client with overridable behavior per call.
type mockClient struct {
	fetchFunc   func(ctx context.Context, venueID string, start, end time.Time) ([]playtomic.AvailabilityEntry, error)
	matchesFunc func(ctx context.Context, limit int, sort string) ([]playtomic.MatchRecord, error)
	createFunc  func(ctx context.Context, req playtomic.PaymentIntentRequest) (playtomic.PaymentIntent, error)
	updateFunc  func(ctx context.Context, intentID string, upd playtomic.PaymentIntentUpdate) (playtomic.PaymentIntent, error)
	confirmFunc func(ctx context.Context, intentID string) (playtomic.Confirmation, error)

	createCalls  int
	updateCalls  int
	confirmCalls int
}

func (m *mockClient) UserID() string { return "u-1" }

func (m *mockClient) FetchAvailability(ctx context.Context, venueID string, start, end time.Time) ([]playtomic.AvailabilityEntry, error) {
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, venueID, start, end)
	}
	return nil, nil
}

func (m *mockClient) RecentMatches(ctx context.Context, limit int, sort string) ([]playtomic.MatchRecord, error) {
	if m.matchesFunc != nil {
		return m.matchesFunc(ctx, limit, sort)
	}
	return nil, nil
}

func (m *mockClient) CreatePaymentIntent(ctx context.Context, req playtomic.PaymentIntentRequest) (playtomic.PaymentIntent, error) {
	m.createCalls++
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return payAtClubIntent(), nil
}

func (m *mockClient) UpdatePaymentIntent(ctx context.Context, intentID string, upd playtomic.PaymentIntentUpdate) (playtomic.PaymentIntent, error) {
	m.updateCalls++
	if m.updateFunc != nil {
		return m.updateFunc(ctx, intentID, upd)
	}
	return playtomic.PaymentIntent{ID: intentID}, nil
}

func (m *mockClient) ConfirmReservation(ctx context.Context, intentID string) (playtomic.Confirmation, error) {
	m.confirmCalls++
	if m.confirmFunc != nil {
		return m.confirmFunc(ctx, intentID)
	}
	return playtomic.Confirmation{ID: intentID, Status: "CONFIRMED"}, nil
}

func payAtClubIntent() playtomic.PaymentIntent {
	return playtomic.PaymentIntent{
		ID: "pi-1",
		AvailablePaymentMethods: []playtomic.PaymentMethod{
			{ID: "pm-card", Name: "Credit card"},
			{ID: "pm-club", Name: "Pay at the club"},
		},
	}
}

func newEngine(c Client, sched string, hours string, duration string, now time.Time, t *testing.T) *Engine {
	t.Helper()
	return &Engine{
		Client: c,
		Sched:  mustSchedule(t, sched, hours, duration),
		State:  NewState(),
		Log:    logging.Discard(),
		Loc:    madrid(t),
		Now:    func() time.Time { return now },
	}
}

func TestAnchorSelection(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2025, 6, 11, 10, 0, 0, 0, loc) // Wednesday

	tests := []struct {
		name    string
		matches []playtomic.MatchRecord
		want    time.Time
	}{
		{
			name:    "no pending matches anchors two days out",
			matches: nil,
			want:    time.Date(2025, 6, 13, 0, 0, 0, 0, loc),
		},
		{
			name: "pending match this week anchors next monday",
			matches: []playtomic.MatchRecord{
				// Thursday this week, 18:00 UTC = 20:00 local.
				{Status: "PENDING", StartDate: "2025-06-12T18:00:00"},
			},
			want: time.Date(2025, 6, 16, 0, 0, 0, 0, loc),
		},
		{
			name: "non-pending matches do not count",
			matches: []playtomic.MatchRecord{
				{Status: "PLAYED", StartDate: "2025-06-12T18:00:00"},
				{Status: "CANCELED", StartDate: "2025-06-13T18:00:00"},
			},
			want: time.Date(2025, 6, 13, 0, 0, 0, 0, loc),
		},
		{
			name: "pending match next week does not count",
			matches: []playtomic.MatchRecord{
				{Status: "PENDING", StartDate: "2025-06-17T18:00:00"},
			},
			want: time.Date(2025, 6, 13, 0, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var firstStart time.Time
			client := &mockClient{
				matchesFunc: func(ctx context.Context, limit int, sort string) ([]playtomic.MatchRecord, error) {
					if limit != 10 || sort != "start_date,desc" {
						t.Errorf("RecentMatches(%d, %q)", limit, sort)
					}
					return tt.matches, nil
				},
				fetchFunc: func(ctx context.Context, venueID string, start, end time.Time) ([]playtomic.AvailabilityEntry, error) {
					if firstStart.IsZero() {
						firstStart = start
					}
					return nil, nil
				},
			}

			e := newEngine(client, "2", "20:00", "1.5", now, t)
			if err := e.ProcessVenue(context.Background(), Venue{ID: "venue-9", Name: "Club"}); err != nil {
				t.Fatalf("ProcessVenue: %v", err)
			}
			if !firstStart.Equal(tt.want) {
				t.Errorf("first search window starts %v, want %v", firstStart, tt.want)
			}
		})
	}
}

func TestProcessVenueBooksFirstMatch(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/Madrid")
	now := time.Date(2025, 6, 8, 9, 0, 0, 0, loc) // Sunday; anchor lands on Tuesday

	client := &mockClient{
		fetchFunc: func(ctx context.Context, venueID string, start, end time.Time) ([]playtomic.AvailabilityEntry, error) {
			if start.Format("2006-01-02") != "2025-06-10" {
				return nil, nil
			}
			return []playtomic.AvailabilityEntry{{
				ResourceID: "court-1",
				StartDate:  "2025-06-10",
				Slots: []playtomic.Slot{
					{StartTime: "18:00:00", Duration: 60},
					{StartTime: "18:00:00", Duration: 90},
				},
			}}, nil
		},
	}

	e := newEngine(client, "2", "20:00", "1.5", now, t)
	if err := e.ProcessVenue(context.Background(), Venue{ID: "venue-9", Name: "Club"}); err != nil {
		t.Fatalf("ProcessVenue: %v", err)
	}

	if !e.State.Confirmed() {
		t.Fatal("reservation not confirmed")
	}
	if client.createCalls != 1 || client.updateCalls != 1 || client.confirmCalls != 1 {
		t.Errorf("calls = create %d, update %d, confirm %d; want 1 each",
			client.createCalls, client.updateCalls, client.confirmCalls)
	}

	// Identical second run books nothing: the state is terminal.
	if err := e.ProcessVenue(context.Background(), Venue{ID: "venue-9", Name: "Club"}); err != nil {
		t.Fatalf("second ProcessVenue: %v", err)
	}
	if client.createCalls != 1 {
		t.Errorf("createCalls after second run = %d, want still 1", client.createCalls)
	}
}

func TestProcessVenueSkipsWrongWeekday(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/Madrid")
	now := time.Date(2025, 6, 8, 9, 0, 0, 0, loc)

	client := &mockClient{
		fetchFunc: func(ctx context.Context, venueID string, start, end time.Time) ([]playtomic.AvailabilityEntry, error) {
			if start.Format("2006-01-02") != "2025-06-10" { // a Tuesday
				return nil, nil
			}
			return []playtomic.AvailabilityEntry{{
				ResourceID: "court-1",
				StartDate:  "2025-06-10",
				Slots:      []playtomic.Slot{{StartTime: "18:00:00", Duration: 90}},
			}}, nil
		},
	}

	// Schedule wants Wednesdays only.
	e := newEngine(client, "3", "20:00", "1.5", now, t)
	if err := e.ProcessVenue(context.Background(), Venue{ID: "venue-9", Name: "Club"}); err != nil {
		t.Fatalf("ProcessVenue: %v", err)
	}

	if e.State.Confirmed() {
		t.Error("booked a slot on an unwanted weekday")
	}
	if client.createCalls != 0 {
		t.Errorf("createCalls = %d, want 0", client.createCalls)
	}
}

func TestProcessVenueBooksAtMostOnce(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/Madrid")
	now := time.Date(2025, 6, 8, 9, 0, 0, 0, loc)

	// Two matching slots on the same Tuesday.
	client := &mockClient{
		fetchFunc: func(ctx context.Context, venueID string, start, end time.Time) ([]playtomic.AvailabilityEntry, error) {
			if start.Format("2006-01-02") != "2025-06-10" {
				return nil, nil
			}
			return []playtomic.AvailabilityEntry{
				{
					ResourceID: "court-1",
					StartDate:  "2025-06-10",
					Slots:      []playtomic.Slot{{StartTime: "18:00:00", Duration: 90}},
				},
				{
					ResourceID: "court-2",
					StartDate:  "2025-06-10",
					Slots:      []playtomic.Slot{{StartTime: "19:30:00", Duration: 90}},
				},
			}, nil
		},
	}

	e := newEngine(client, "2", "20:00,21:30", "1.5", now, t)
	if err := e.ProcessVenue(context.Background(), Venue{ID: "venue-9", Name: "Club"}); err != nil {
		t.Fatalf("ProcessVenue: %v", err)
	}

	if client.createCalls != 1 {
		t.Errorf("createCalls = %d, want 1 (at-most-once)", client.createCalls)
	}
}

func TestConfirmFailureLeavesStateUnconfirmed(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/Madrid")
	now := time.Date(2025, 6, 8, 9, 0, 0, 0, loc)

	client := &mockClient{
		fetchFunc: func(ctx context.Context, venueID string, start, end time.Time) ([]playtomic.AvailabilityEntry, error) {
			if start.Format("2006-01-02") != "2025-06-10" {
				return nil, nil
			}
			return []playtomic.AvailabilityEntry{{
				ResourceID: "court-1",
				StartDate:  "2025-06-10",
				Slots:      []playtomic.Slot{{StartTime: "18:00:00", Duration: 90}},
			}}, nil
		},
		confirmFunc: func(ctx context.Context, intentID string) (playtomic.Confirmation, error) {
			return playtomic.Confirmation{}, &playtomic.APIError{StatusCode: 500, Body: "internal error"}
		},
	}

	e := newEngine(client, "2", "20:00", "1.5", now, t)
	// The failure is logged and swallowed; no error escapes.
	if err := e.ProcessVenue(context.Background(), Venue{ID: "venue-9", Name: "Club"}); err != nil {
		t.Fatalf("ProcessVenue: %v", err)
	}
	if e.State.Confirmed() {
		t.Error("state confirmed despite failed confirmation")
	}
}

func TestMissingPayAtClubAbandonsAttempt(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/Madrid")
	now := time.Date(2025, 6, 8, 9, 0, 0, 0, loc)

	client := &mockClient{
		fetchFunc: func(ctx context.Context, venueID string, start, end time.Time) ([]playtomic.AvailabilityEntry, error) {
			if start.Format("2006-01-02") != "2025-06-10" {
				return nil, nil
			}
			return []playtomic.AvailabilityEntry{{
				ResourceID: "court-1",
				StartDate:  "2025-06-10",
				Slots:      []playtomic.Slot{{StartTime: "18:00:00", Duration: 90}},
			}}, nil
		},
		createFunc: func(ctx context.Context, req playtomic.PaymentIntentRequest) (playtomic.PaymentIntent, error) {
			return playtomic.PaymentIntent{
				ID:                      "pi-1",
				AvailablePaymentMethods: []playtomic.PaymentMethod{{ID: "pm-card", Name: "Credit card"}},
			}, nil
		},
	}

	e := newEngine(client, "2", "20:00", "1.5", now, t)
	if err := e.ProcessVenue(context.Background(), Venue{ID: "venue-9", Name: "Club"}); err != nil {
		t.Fatalf("ProcessVenue: %v", err)
	}

	if e.State.Confirmed() {
		t.Error("state confirmed without a pay-at-club method")
	}
	if client.updateCalls != 0 || client.confirmCalls != 0 {
		t.Errorf("update/confirm called %d/%d times, want 0/0", client.updateCalls, client.confirmCalls)
	}
}

func TestMatchHistoryErrorPropagates(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/Madrid")
	now := time.Date(2025, 6, 8, 9, 0, 0, 0, loc)

	client := &mockClient{
		matchesFunc: func(ctx context.Context, limit int, sort string) ([]playtomic.MatchRecord, error) {
			return nil, &playtomic.APIError{StatusCode: 503, Body: "unavailable"}
		},
	}

	e := newEngine(client, "2", "20:00", "1.5", now, t)
	err := e.ProcessVenue(context.Background(), Venue{ID: "venue-9", Name: "Club"})
	if err == nil {
		t.Fatal("ProcessVenue succeeded, want error")
	}
	var ae *playtomic.APIError
	if !errors.As(err, &ae) {
		t.Errorf("err = %v, want *APIError", err)
	}
}

func TestStateMarkConfirmedIsTerminal(t *testing.T) {
	s := NewState()
	if s.Confirmed() {
		t.Fatal("fresh state is confirmed")
	}
	if !s.markConfirmed() {
		t.Fatal("first markConfirmed lost the transition")
	}
	if s.markConfirmed() {
		t.Fatal("second markConfirmed won the transition")
	}
	if !s.Confirmed() {
		t.Fatal("state not confirmed after transition")
	}
}
