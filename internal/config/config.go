// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
	// For future Turso support
	URL       string `yaml:"url,omitempty"`
	AuthToken string `yaml:"-"` // Loaded from environment
}

// BookingConfig holds the facility rules the booking engine enforces.
type BookingConfig struct {
	Timezone              string `yaml:"timezone"`
	MaxActiveReservations int    `yaml:"max_active_reservations"`
	EditDeadlineMinutes   int    `yaml:"edit_deadline_minutes"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
	QuotaAuditCron        string `yaml:"quota_audit_cron"`
	TxMaxRetries          int    `yaml:"tx_max_retries"`

	location *time.Location
}

// Location returns the facility timezone; UTC until Validate has run.
func (b BookingConfig) Location() *time.Location {
	if b.location == nil {
		return time.UTC
	}
	return b.location
}

func (b BookingConfig) EditDeadline() time.Duration {
	return time.Duration(b.EditDeadlineMinutes) * time.Minute
}

func (b BookingConfig) RequestTimeout() time.Duration {
	return time.Duration(b.RequestTimeoutSeconds) * time.Second
}

type RateLimitConfig struct {
	MutationsPerMinute int `yaml:"mutations_per_minute"`
	// TrustProxy reads the client address from X-Forwarded-For and X-Real-IP.
	TrustProxy bool `yaml:"trust_proxy"`
}

type Config struct {
	App struct {
		Name                   string `yaml:"name"`
		Environment            string `yaml:"environment"`
		Port                   int    `yaml:"port"`
		BaseURL                string `yaml:"base_url"`
		ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds"`
		PhoneRegion            string `yaml:"phone_region"`
		SecretKey              string `yaml:"-"` // Loaded from environment
		ClerkSecretKey         string `yaml:"-"` // Loaded from environment
	} `yaml:"app"`

	Database DatabaseConfig `yaml:"database"`

	Booking BookingConfig `yaml:"booking"`

	RateLimit RateLimitConfig `yaml:"ratelimit"`
}

// Default returns a development configuration backed by a local SQLite file.
func Default() *Config {
	var cfg Config
	cfg.App.Name = "padelbook"
	cfg.App.Environment = "development"
	cfg.App.Port = 8080
	cfg.App.ShutdownTimeoutSeconds = 30
	cfg.Database.Driver = "sqlite"
	cfg.Database.Filename = "data/padelbook.db"
	cfg.applyDefaults()
	return &cfg
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	cfg.applyDefaults()

	// Load sensitive values from environment
	cfg.App.SecretKey = os.Getenv("APP_SECRET_KEY")
	cfg.App.ClerkSecretKey = os.Getenv("CLERK_SECRET_KEY")
	cfg.Database.AuthToken = os.Getenv("DATABASE_AUTH_TOKEN")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.ShutdownTimeoutSeconds == 0 {
		c.App.ShutdownTimeoutSeconds = 30
	}
	if c.App.PhoneRegion == "" {
		c.App.PhoneRegion = "FR"
	}
	if c.Booking.Timezone == "" {
		c.Booking.Timezone = "UTC"
	}
	if c.Booking.MaxActiveReservations == 0 {
		c.Booking.MaxActiveReservations = 2
	}
	if c.Booking.EditDeadlineMinutes == 0 {
		c.Booking.EditDeadlineMinutes = 30
	}
	if c.Booking.RequestTimeoutSeconds == 0 {
		c.Booking.RequestTimeoutSeconds = 5
	}
	if c.Booking.QuotaAuditCron == "" {
		c.Booking.QuotaAuditCron = "0 * * * *"
	}
	if c.Booking.TxMaxRetries == 0 {
		c.Booking.TxMaxRetries = 3
	}
	if c.RateLimit.MutationsPerMinute == 0 {
		c.RateLimit.MutationsPerMinute = 20
	}
	if loc, err := time.LoadLocation(c.Booking.Timezone); err == nil {
		c.Booking.location = loc
	}
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for sqlite")
		}
	case "turso":
		if c.Database.URL == "" {
			return fmt.Errorf("database URL is required for turso")
		}
		if c.Database.AuthToken == "" {
			return fmt.Errorf("database auth token is required for turso")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	loc, err := time.LoadLocation(c.Booking.Timezone)
	if err != nil {
		return fmt.Errorf("invalid booking timezone %q: %w", c.Booking.Timezone, err)
	}
	c.Booking.location = loc

	if c.Booking.MaxActiveReservations < 1 {
		return fmt.Errorf("booking max_active_reservations must be at least 1")
	}
	if c.Booking.EditDeadlineMinutes < 0 {
		return fmt.Errorf("booking edit_deadline_minutes must be 0 or greater")
	}
	if c.Booking.RequestTimeoutSeconds < 1 {
		return fmt.Errorf("booking request_timeout_seconds must be at least 1")
	}
	if c.Booking.TxMaxRetries < 0 {
		return fmt.Errorf("booking tx_max_retries must be 0 or greater")
	}
	if _, err := cron.ParseStandard(c.Booking.QuotaAuditCron); err != nil {
		return fmt.Errorf("invalid booking quota_audit_cron %q: %w", c.Booking.QuotaAuditCron, err)
	}
	if c.RateLimit.MutationsPerMinute < 1 {
		return fmt.Errorf("ratelimit mutations_per_minute must be at least 1")
	}

	return nil
}
