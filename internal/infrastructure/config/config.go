package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8600"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth         AuthConfig
	Subscription SubscriptionConfig
	Store        StoreConfig
	Redis        RedisConfig
	Mongo        MongoConfig
	Notify       NotifyConfig
}

// AuthConfig points at the platform auth service.
type AuthConfig struct {
	BaseURL string        `env:"AUTH_BASE_URL, default=https://api.fitpulse.app"`
	Timeout time.Duration `env:"AUTH_TIMEOUT,  default=10s"`
}

// SubscriptionConfig points at the platform subscription service.
type SubscriptionConfig struct {
	BaseURL string        `env:"SUBSCRIPTION_BASE_URL, default=https://api.fitpulse.app"`
	Timeout time.Duration `env:"SUBSCRIPTION_TIMEOUT,  default=10s"`
}

// StoreConfig selects the persisted session storage backend.
type StoreConfig struct {
	// Backend is one of: redis, mongo, memory.
	Backend string `env:"STORE_BACKEND, default=redis"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=fitpulse_session"`
}

type NotifyConfig struct {
	Buffer  int `env:"NOTIFY_BUFFER,  default=64"`
	History int `env:"NOTIFY_HISTORY, default=50"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
