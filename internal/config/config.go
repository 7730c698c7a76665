package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken         string        `envconfig:"BOT_TOKEN" required:"true"`
	LogLevel         string        `envconfig:"LOG_LEVEL" default:"info"`  // debug|info|warn|error
	HTTPAddr         string        `envconfig:"HTTP_ADDR" default:":8080"` // healthz, metrics, deadlines
	ScanInterval     time.Duration `envconfig:"SCAN_INTERVAL" default:"60s"`
	DeliveryTimeout  time.Duration `envconfig:"DELIVERY_TIMEOUT" default:"10s"`
	DeliveryRPS      int           `envconfig:"DELIVERY_RPS" default:"25"`
	DBPath           string        `envconfig:"DB_PATH" default:"./data/journal.db"` // empty disables the delivery journal
	JournalRetention time.Duration `envconfig:"JOURNAL_RETENTION" default:"168h"`
}

// Load reads an optional .env file, then environment variables, into Config.
// Variables already set in the environment win over .env entries.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values the scheduler and notifier cannot run with.
func (c Config) Validate() error {
	if c.ScanInterval <= 0 {
		return fmt.Errorf("SCAN_INTERVAL must be positive, got %s", c.ScanInterval)
	}
	if c.DeliveryTimeout <= 0 {
		return fmt.Errorf("DELIVERY_TIMEOUT must be positive, got %s", c.DeliveryTimeout)
	}
	if c.DeliveryRPS <= 0 {
		return fmt.Errorf("DELIVERY_RPS must be positive, got %d", c.DeliveryRPS)
	}
	if c.JournalRetention < 0 {
		return fmt.Errorf("JOURNAL_RETENTION must not be negative, got %s", c.JournalRetention)
	}
	return nil
}
