// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, startup aborts.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime configuration for the search service.
type Config struct {
	Port        string `env:"PORT" envDefault:"8002"`
	DatabaseURL string `env:"DATABASE_URL,notEmpty"`
	RedisURL    string `env:"REDIS_URL,notEmpty"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM"`
	SMTPFromName string `env:"SMTP_FROM_NAME" envDefault:"Daily Job Search"`

	RunLockTTL time.Duration `env:"RUN_LOCK_TTL" envDefault:"10m"`
	RunTimeout time.Duration `env:"RUN_TIMEOUT" envDefault:"5m"`
}

// Load reads environment variables and returns a validated Config.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return c, nil
}
