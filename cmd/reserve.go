package cmd

import (
	"github.com/spf13/cobra"

	"github.com/example/padel-scheduler/internal/booking"
	"github.com/example/padel-scheduler/internal/config"
)

func newReserveCmd() *cobra.Command {
	var (
		days     string
		hours    string
		duration string
	)

	c := &cobra.Command{
		Use:   "reserve",
		Short: "Run a single availability check and book the first matching court",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := newLogger(cfg)

			sched, err := newSchedule(cfg, days, hours, duration)
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
			ctx := cmd.Context()
			if _, err := client.Login(ctx); err != nil {
				return err
			}

			state := booking.NewState()
			engine := &booking.Engine{Client: client, Sched: sched, State: state, Log: log}
			for _, venue := range venues {
				if state.Confirmed() {
					break
				}
				if err := engine.ProcessVenue(ctx, venue); err != nil {
					log.Error("venue check failed", "venue", venue.Name, "err", err)
				}
			}

			if !state.Confirmed() {
				log.Info("no matching court booked")
			}
			return nil
		},
	}

	c.Flags().StringVarP(&days, "days", "d", "", "days of the week, e.g. 2,3 for Tue and Wed")
	c.Flags().StringVarP(&hours, "hours", "t", "", "starting hours, e.g. 20:00,20:30")
	c.Flags().StringVarP(&duration, "duration", "u", "", "court duration in hours: 1, 1.5 or 2")
	return c
}
