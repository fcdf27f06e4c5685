package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the host configuration, loaded from environment variables
type Config struct {
	// HTTP status API
	HTTPPort int `env:"HOST_HTTP_PORT" envDefault:"8080"`

	// Storage backend: "memory" or "redis"
	StorageType string `env:"HOST_STORAGE" envDefault:"memory"`
	RedisURL    string `env:"HOST_REDIS_URL"`

	// SaveNamespace scopes durable records to one save
	SaveNamespace string `env:"HOST_SAVE_NAMESPACE" envDefault:"default"`

	// Session
	SessionName     string `env:"HOST_SESSION_NAME" envDefault:"coop"`
	MaxPlayers      int    `env:"HOST_MAX_PLAYERS" envDefault:"4"`
	ForceNewSession bool   `env:"HOST_FORCE_NEW_SESSION"`

	// Liveness
	HealthInterval time.Duration `env:"HOST_HEALTH_INTERVAL" envDefault:"10s"`

	// Optional JSON status file, overwritten on every publish
	StatusFile string `env:"HOST_STATUS_FILE"`

	// Reported server version
	Version string `env:"HOST_VERSION" envDefault:"dev"`
}

// Load parses configuration from the environment
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
