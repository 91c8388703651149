package cmd

import (
	"fmt"

	"github.com/example/padel-scheduler/internal/booking"
	"github.com/example/padel-scheduler/internal/config"
	"github.com/example/padel-scheduler/internal/crypto"
	"github.com/example/padel-scheduler/internal/logging"
	"github.com/example/padel-scheduler/internal/playtomic"
	"github.com/example/padel-scheduler/internal/schedule"
)

func newLogger(cfg config.Config) *logging.Logger {
	return logging.New(logging.Config{Level: cfg.LogLevel})
}

// newClient unseals the stored password and builds an (unauthenticated)
// Playtomic client.
func newClient(cfg config.Config) (*playtomic.Client, error) {
	key, err := config.LoadKey()
	if err != nil {
		return nil, err
	}
	aead, err := crypto.New(key)
	if err != nil {
		return nil, fmt.Errorf("load sealing key: %w", err)
	}
	password, err := aead.DecryptString(cfg.Password)
	if err != nil {
		return nil, fmt.Errorf("unseal password: %w", err)
	}
	return playtomic.New(cfg.Email, password), nil
}

// newSchedule builds the run's schedule from flag overrides falling back to
// the stored preferences.
func newSchedule(cfg config.Config, days, hours, duration string) (*schedule.Schedule, error) {
	if days == "" {
		days = cfg.Days
	}
	if hours == "" {
		hours = cfg.Hours
	}
	if duration == "" {
		duration = cfg.Duration
	}
	if days == "" || hours == "" || duration == "" {
		return nil, errIncompleteConfig
	}
	return schedule.New(days, hours, duration)
}

func configuredVenues(cfg config.Config) ([]booking.Venue, error) {
	if len(cfg.Venues) == 0 {
		return nil, fmt.Errorf("%w (no venues configured)", errIncompleteConfig)
	}
	venues := make([]booking.Venue, 0, len(cfg.Venues))
	for _, v := range cfg.Venues {
		venues = append(venues, booking.Venue{ID: v.ID, Name: v.Name})
	}
	return venues, nil
}
