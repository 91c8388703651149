// Package poller drives the reservation engine on a fixed cadence until a
// booking is confirmed.
package poller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/example/padel-scheduler/internal/booking"
	"github.com/example/padel-scheduler/internal/logging"
)

// Poller runs one check cycle per interval: refresh the session, then scan
// every configured venue in order. Cycles are serialized; a slow cycle delays
// the next one rather than overlapping it.
type Poller struct {
	Engine *booking.Engine
	Venues []booking.Venue
	State  *booking.State
	Log    *logging.Logger

	// Login refreshes the API session at the start of each cycle.
	Login func(ctx context.Context) error

	// CheckEvery is how often Run looks at the confirmation flag between
	// cycles; defaults to one second.
	CheckEvery time.Duration

	mu sync.Mutex
}

// Run kicks off an immediate cycle, schedules one per interval and blocks
// until a reservation is confirmed or ctx is canceled.
func (p *Poller) Run(ctx context.Context, interval time.Duration) error {
	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", interval), func() { p.cycle(ctx) }); err != nil {
		return err
	}

	p.cycle(ctx)
	c.Start()
	defer c.Stop()

	check := p.CheckEvery
	if check <= 0 {
		check = time.Second
	}
	t := time.NewTicker(check)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if p.State.Confirmed() {
				return nil
			}
		}
	}
}

func (p *Poller) cycle(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.State.Confirmed() || ctx.Err() != nil {
		return
	}

	log := p.Log.With("cycle_id", uuid.NewString())

	if p.Login != nil {
		if err := p.Login(ctx); err != nil {
			log.Error("session refresh failed", "err", err)
			return
		}
	}

	for _, venue := range p.Venues {
		if p.State.Confirmed() {
			return
		}
		if err := p.Engine.ProcessVenue(ctx, venue); err != nil {
			// Transient service failures are retried implicitly on the
			// next cycle.
			log.Error("venue check failed", "venue", venue.Name, "err", err)
		}
	}
}
