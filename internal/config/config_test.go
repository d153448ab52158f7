package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: padelbook
  environment: test
  port: 9000
database:
  driver: sqlite
  filename: data/test.db
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Booking.MaxActiveReservations != 2 {
		t.Fatalf("max active: %d", cfg.Booking.MaxActiveReservations)
	}
	if cfg.Booking.EditDeadline() != 30*time.Minute {
		t.Fatalf("edit deadline: %s", cfg.Booking.EditDeadline())
	}
	if cfg.Booking.RequestTimeout() != 5*time.Second {
		t.Fatalf("request timeout: %s", cfg.Booking.RequestTimeout())
	}
	if cfg.Booking.Location() != time.UTC {
		t.Fatalf("location: %v", cfg.Booking.Location())
	}
	if cfg.Booking.QuotaAuditCron != "0 * * * *" {
		t.Fatalf("audit cron: %q", cfg.Booking.QuotaAuditCron)
	}
}

func TestLoadReadsSecretsFromEnvFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("CLERK_SECRET_KEY=sk_test_123\n"), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	path := filepath.Join(dir, "config.yaml")
	body := "app:\n  name: padelbook\n  port: 8080\ndatabase:\n  driver: sqlite\n  filename: x.db\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("CLERK_SECRET_KEY") })

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.ClerkSecretKey != "sk_test_123" {
		t.Fatalf("clerk key: %q", cfg.App.ClerkSecretKey)
	}
}

func TestValidateRejectsBadBookingSettings(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "unknown timezone",
			mutate:  func(c *Config) { c.Booking.Timezone = "Mars/Olympus" },
			wantErr: "timezone",
		},
		{
			name:    "bad cron",
			mutate:  func(c *Config) { c.Booking.QuotaAuditCron = "every hour" },
			wantErr: "quota_audit_cron",
		},
		{
			name:    "zero quota",
			mutate:  func(c *Config) { c.Booking.MaxActiveReservations = -1 },
			wantErr: "max_active_reservations",
		},
		{
			name:    "turso without token",
			mutate:  func(c *Config) { c.Database.Driver = "turso"; c.Database.URL = "libsql://x" },
			wantErr: "auth token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error: got %v want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateLoadsTimezone(t *testing.T) {
	cfg := Default()
	cfg.Booking.Timezone = "Europe/Paris"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.Booking.Location().String() != "Europe/Paris" {
		t.Fatalf("location: %v", cfg.Booking.Location())
	}
}

func TestExampleConfigLoads(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", "app.example.yaml"))
	if err != nil {
		t.Fatalf("load example: %v", err)
	}
	if cfg.Booking.Location().String() != "Europe/Paris" {
		t.Fatalf("location: %v", cfg.Booking.Location())
	}
	if cfg.RateLimit.TrustProxy {
		t.Fatalf("trust proxy should default to false")
	}
}
