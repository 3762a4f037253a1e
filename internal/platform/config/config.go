package config

import (
	"fmt"
	"log"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Rate limit stores.
const (
	RateLimitStoreMemory = "memory"
	RateLimitStoreRedis  = "redis"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool
	LogLevel     slog.Level

	// Bearer tokens are issued elsewhere; only verification settings live here.
	JWTSecret string
	JWTIssuer string

	StorageDriver  string
	MigrationsPath string
	SeedChartPath  string

	CORSOrigins     []string
	RateLimit       string
	RateLimitStore  string
	ExportRateLimit string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	EventsEnabled      bool
	WorkerConcurrency  int
	IntegritySweepCron string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("STORAGE_DRIVER", StoragePostgres)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("SEED_CHART_PATH", "")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("RATE_LIMIT_STORE", RateLimitStoreMemory)
	v.SetDefault("EXPORT_RATE_LIMIT", "10-M")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("EVENTS_ENABLED", false)
	v.SetDefault("WORKER_CONCURRENCY", 5)
	v.SetDefault("INTEGRITY_SWEEP_CRON", "")

	// Defaults are overridden by the .env file, which is overridden by actual environment variables.
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:        v.GetString("PGSQL_URL"),
		Port:               v.GetString("PORT"),
		IsProduction:       v.GetBool("IS_PRODUCTION"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		JWTIssuer:          v.GetString("JWT_ISSUER"),
		StorageDriver:      strings.ToLower(v.GetString("STORAGE_DRIVER")),
		MigrationsPath:     v.GetString("MIGRATIONS_PATH"),
		SeedChartPath:      v.GetString("SEED_CHART_PATH"),
		CORSOrigins:        splitList(v.GetString("CORS_ORIGINS")),
		RateLimit:          v.GetString("RATE_LIMIT"),
		RateLimitStore:     strings.ToLower(v.GetString("RATE_LIMIT_STORE")),
		ExportRateLimit:    v.GetString("EXPORT_RATE_LIMIT"),
		RedisAddr:          v.GetString("REDIS_ADDR"),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		RedisDB:            v.GetInt("REDIS_DB"),
		EventsEnabled:      v.GetBool("EVENTS_ENABLED"),
		WorkerConcurrency:  v.GetInt("WORKER_CONCURRENCY"),
		IntegritySweepCron: v.GetString("INTEGRITY_SWEEP_CRON"),
	}

	level, err := ParseLogLevel(v.GetString("LOG_LEVEL"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	switch cfg.StorageDriver {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORAGE_DRIVER is %s", StoragePostgres)
		}
	case StorageMemory:
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	switch cfg.RateLimitStore {
	case RateLimitStoreMemory, RateLimitStoreRedis:
	default:
		return nil, fmt.Errorf("unsupported RATE_LIMIT_STORE %q", cfg.RateLimitStore)
	}

	if cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	if cfg.WorkerConcurrency <= 0 {
		cfg.WorkerConcurrency = 5
	}

	return cfg, nil
}

// UsesRedis reports whether any configured component needs a Redis connection.
func (c *Config) UsesRedis() bool {
	return c.RateLimitStore == RateLimitStoreRedis || c.EventsEnabled
}

// ParseLogLevel converts debug, info, warn or error into a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
