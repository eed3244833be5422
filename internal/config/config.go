// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	TelegramBotToken  string `env:"TELEGRAM_BOT_TOKEN"`
	PandascoreToken   string `env:"PANDASCORE_TOKEN"`
	PandascoreBaseURL string `env:"PANDASCORE_BASE_URL" envDefault:"https://api.pandascore.co"`

	DatabasePath string `env:"DATABASE_PATH" envDefault:"./data/bot.db"`
	CacheDir     string `env:"CACHE_DIR" envDefault:"./cache"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`

	ListenAddr         string `env:"LISTEN_ADDR" envDefault:":8080"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"100"`

	RefreshInterval  time.Duration `env:"REFRESH_INTERVAL" envDefault:"10m"`
	DispatchInterval time.Duration `env:"DISPATCH_INTERVAL" envDefault:"60s"`

	NotifyWindowBefore time.Duration `env:"NOTIFY_WINDOW_BEFORE" envDefault:"5m"`
	NotifyWindowAfter  time.Duration `env:"NOTIFY_WINDOW_AFTER" envDefault:"5m"`
	UpcomingFetchLimit int           `env:"UPCOMING_FETCH_LIMIT" envDefault:"10"`
	MaxInFlightSends   int           `env:"MAX_IN_FLIGHT_SENDS" envDefault:"8"`
	NotifiedRetention  time.Duration `env:"NOTIFIED_RETENTION" envDefault:"168h"`
}

// Load reads configuration from a .env file (if present) and the
// environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.TelegramBotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if cfg.PandascoreToken == "" {
		return nil, fmt.Errorf("PANDASCORE_TOKEN is required")
	}
	return cfg, nil
}
