// Package app wires configuration and constructs the application's
// collaborators.
package app

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration from the environment.
type Config struct {
	APIKey     string   `envconfig:"TELRAAM_API_KEY" required:"true"`
	SegmentIDs []string `envconfig:"TELRAAM_SEGMENT_IDS"`

	CacheDir   string `envconfig:"CACHE_DIR" default:"data"`
	PresetsDir string `envconfig:"PRESETS_DIR" default:"saved_periods"`

	Level  string `envconfig:"TELRAAM_LEVEL" default:"segments"`
	Format string `envconfig:"TELRAAM_FORMAT" default:"per-hour"`

	// Minimum interval between outbound API calls.
	MinInterval time.Duration `envconfig:"RATE_MIN_INTERVAL" default:"1s"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Env      string `envconfig:"APP_ENV" default:"development"`
}

// LoadConfig reads configuration from a .env file (when present) and the
// environment.
func LoadConfig() (*Config, error) {
	// Missing .env is fine; the environment may be set externally.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}
