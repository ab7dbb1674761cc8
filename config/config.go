package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Store backends
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Event backends
const (
	EventsNone  = "none"
	EventsRedis = "redis"
)

// Config captures runtime configuration loaded from the environment
type Config struct {
	AppEnv   string
	HTTPAddr string
	LogLevel string

	StoreBackend  string
	EventsBackend string
	RedisURL      string
	PostgresDSN   string

	// ReplayGuard rejects reused challenge nonces. Off unless enabled.
	ReplayGuard bool
	NonceTTL    time.Duration

	ShutdownTimeout time.Duration
}

// Load reads a .env file when present and then the environment
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:          getEnv("APP_ENV", "development"),
		HTTPAddr:        getEnv("HTTP_ADDR", ":9000"),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", "info")),
		StoreBackend:    strings.ToLower(getEnv("STORE_BACKEND", StoreMemory)),
		EventsBackend:   strings.ToLower(getEnv("EVENTS_BACKEND", EventsNone)),
		RedisURL:        os.Getenv("REDIS_URL"),
		PostgresDSN:     os.Getenv("POSTGRES_DSN"),
		NonceTTL:        10 * time.Minute,
		ShutdownTimeout: 10 * time.Second,
	}

	var err error
	if cfg.ReplayGuard, err = getEnvBool("REPLAY_GUARD", false); err != nil {
		return nil, err
	}
	if cfg.NonceTTL, err = getEnvDuration("NONCE_TTL", cfg.NonceTTL); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that every selected backend has what it needs
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreMemory:
	case StoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL must be set for the redis store")
		}
	case StorePostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN must be set for the postgres store")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	switch c.EventsBackend {
	case EventsNone:
	case EventsRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL must be set for redis events")
		}
	default:
		return fmt.Errorf("unknown EVENTS_BACKEND %q", c.EventsBackend)
	}

	if c.ReplayGuard && c.NonceTTL <= 0 {
		return fmt.Errorf("NONCE_TTL must be positive when REPLAY_GUARD is enabled")
	}

	return nil
}

// NeedsRedis reports whether any component talks to Redis
func (c *Config) NeedsRedis() bool {
	return c.StoreBackend == StoreRedis || c.EventsBackend == EventsRedis || (c.ReplayGuard && c.RedisURL != "")
}

// Warn logs settings that are valid but risky
func (c *Config) Warn(log *zap.Logger) {
	if !c.ReplayGuard {
		log.Warn("REPLAY_GUARD is disabled; a captured signature can be replayed to verify the same wallet again")
	}
	if c.ReplayGuard && c.RedisURL == "" {
		log.Warn("replay guard uses an in-memory nonce store; nonces are not shared across instances")
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
