// Package config loads and persists the tool's configuration from
// ~/.padelsched/config.yaml (directory overridable via PADELSCHED_DIR), with
// PADELSCHED_* environment variables taking precedence over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// DirEnv overrides the configuration directory.
const DirEnv = "PADELSCHED_DIR"

const (
	fileName = "config.yaml"
	keyName  = "config.key"
)

// ErrNotInitialized is returned by Load when no config file exists yet.
var ErrNotInitialized = errors.New("configuration not initialized, run `padelsched init`")

type Venue struct {
	ID   string `mapstructure:"id" validate:"required"`
	Name string `mapstructure:"name"`
}

type Config struct {
	Email string `mapstructure:"email" validate:"required,email"`
	// Password is sealed with the key stored next to the config file.
	Password string `mapstructure:"password" validate:"required"`

	// Booking preferences; may be empty and supplied per-run via flags.
	Days     string `mapstructure:"days"`
	Hours    string `mapstructure:"hours"`
	Duration string `mapstructure:"duration" validate:"omitempty,oneof=1 1.5 2"`

	Venues []Venue `mapstructure:"venues" validate:"omitempty,dive"`

	LogLevel string `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// Dir returns the configuration directory, creating it if needed.
func Dir() (string, error) {
	dir := strings.TrimSpace(os.Getenv(DirEnv))
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".padelsched")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

// Path returns the config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Exists reports whether a config file has been written.
func Exists() (bool, error) {
	p, err := Path()
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// Load reads, env-merges and validates the configuration.
func Load() (Config, error) {
	dir, err := Dir()
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(dir, fileName))
	v.SetConfigType("yaml")
	v.SetEnvPrefix("PADELSCHED")
	v.AutomaticEnv()
	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, ErrNotInitialized
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg back to the config file.
func Save(cfg Config) error {
	dir, err := Dir()
	if err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("email", cfg.Email)
	v.Set("password", cfg.Password)
	v.Set("days", cfg.Days)
	v.Set("hours", cfg.Hours)
	v.Set("duration", cfg.Duration)
	v.Set("log_level", cfg.LogLevel)

	venues := make([]map[string]string, 0, len(cfg.Venues))
	for _, ven := range cfg.Venues {
		venues = append(venues, map[string]string{"id": ven.ID, "name": ven.Name})
	}
	v.Set("venues", venues)

	return v.WriteConfigAs(filepath.Join(dir, fileName))
}

// SaveKey stores the password sealing key, readable only by the owner.
func SaveKey(key []byte) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, keyName), key, 0o600)
}

// LoadKey reads the password sealing key.
func LoadKey() ([]byte, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	key, err := os.ReadFile(filepath.Join(dir, keyName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotInitialized
	}
	return key, err
}
