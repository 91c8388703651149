package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/padel-scheduler/internal/booking"
	"github.com/example/padel-scheduler/internal/config"
	"github.com/example/padel-scheduler/internal/poller"
)

func newScheduleCmd() *cobra.Command {
	var minutes int

	c := &cobra.Command{
		Use:   "schedule",
		Short: "Check for available courts on a cadence until one is booked",
		RunE: func(cmd *cobra.Command, args []string) error {
			if minutes < 1 {
				return fmt.Errorf("--minutes must be >= 1")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := newLogger(cfg)

			sched, err := newSchedule(cfg, "", "", "")
			if err != nil {
				return err
			}
			venues, err := configuredVenues(cfg)
			if err != nil {
				return err
			}
			client, err := newClient(cfg)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			state := booking.NewState()
			p := &poller.Poller{
				Engine: &booking.Engine{Client: client, Sched: sched, State: state, Log: log},
				Venues: venues,
				State:  state,
				Log:    log,
				Login: func(ctx context.Context) error {
					_, err := client.Login(ctx)
					return err
				},
			}

			log.Info("starting scheduler", "interval_minutes", minutes)
			err = p.Run(ctx, time.Duration(minutes)*time.Minute)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			if err != nil {
				return err
			}
			log.Info("reservation confirmed, stopping")
			return nil
		},
	}

	c.Flags().IntVarP(&minutes, "minutes", "m", 10, "how often to check for available courts (in minutes)")
	return c
}
