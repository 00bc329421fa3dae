package redis

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds Redis connection and mirroring settings.
// Designed for environment-based configuration via struct tags.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`

	// MirrorChannel is the pub/sub channel name used by Mirror.
	MirrorChannel string `env:"REDIS_MIRROR_CHANNEL" envDefault:"observable:cell"`
}

// DefaultConfig returns sensible defaults for production use.
func DefaultConfig() Config {
	return Config{
		ConnectionURL:  "redis://localhost:6379/0",
		RetryAttempts:  3,
		RetryInterval:  5 * time.Second,
		ConnectTimeout: 30 * time.Second,
		MirrorChannel:  "observable:cell",
	}
}

// LoadConfig populates a Config from environment variables.
func LoadConfig() (Config, error) {
	return env.ParseAs[Config]()
}
