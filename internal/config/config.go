// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath         string `env:"OBLOG_DB_PATH" envDefault:"./data/oblog.db"`
	SessionSecret  string `env:"OBLOG_SESSION_SECRET,required"`
	PasswordPepper string `env:"OBLOG_PASSWORD_PEPPER"` // Optional HMAC key mixed into password hashes
	ServerHost     string `env:"OBLOG_SERVER_HOST" envDefault:"localhost"`
	ServerPort     int    `env:"OBLOG_SERVER_PORT" envDefault:"8080"`
	Env            string `env:"OBLOG_ENV" envDefault:"development"`
	LogLevel       string `env:"OBLOG_LOG_LEVEL" envDefault:"info"`
	SiteName       string `env:"OBLOG_SITE_NAME" envDefault:"Oblog"`

	SessionLifetime time.Duration `env:"OBLOG_SESSION_LIFETIME" envDefault:"24h"`
	RequestTimeout  time.Duration `env:"OBLOG_REQUEST_TIMEOUT" envDefault:"30s"`

	// Login protection
	LoginRatePerSecond float64       `env:"OBLOG_LOGIN_RATE" envDefault:"0.5"` // Login attempts per second per IP
	LoginBurst         int           `env:"OBLOG_LOGIN_BURST" envDefault:"5"`
	LoginMaxFailures   int           `env:"OBLOG_LOGIN_MAX_FAILURES" envDefault:"5"` // Failures before an email is locked
	LoginLockout       time.Duration `env:"OBLOG_LOGIN_LOCKOUT" envDefault:"15m"`
	LoginWindow        time.Duration `env:"OBLOG_LOGIN_WINDOW" envDefault:"15m"` // Failures older than this are forgotten

	// Seeding configuration
	DoSeed bool `env:"OBLOG_DO_SEED" envDefault:"false"` // Insert sample posts into an empty database
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// MinSessionSecretLength is the minimum required length for the session secret.
// The CSRF and cookie keys are derived from it and need 32 bytes.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("OBLOG_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("OBLOG_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("OBLOG_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if cfg.PasswordPepper == "" && !cfg.IsDevelopment() {
		slog.Warn("OBLOG_PASSWORD_PEPPER is not set; password hashes are unkeyed")
	}

	if cfg.LoginMaxFailures < 1 {
		return nil, fmt.Errorf("OBLOG_LOGIN_MAX_FAILURES must be positive, got %d", cfg.LoginMaxFailures)
	}
	if cfg.LoginWindow <= 0 {
		return nil, fmt.Errorf("OBLOG_LOGIN_WINDOW must be positive, got %v", cfg.LoginWindow)
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
