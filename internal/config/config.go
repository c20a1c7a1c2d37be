package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	API     APIConfig
	Store   StoreConfig
	Redis   RedisConfig
	Submit  SubmitConfig
	Metrics MetricsConfig
	Logging LoggingConfig
}

type APIConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	RetryAttempts  int
}

// StoreConfig selects the durable local-state backend. "sqlite" keeps the
// reviewed-liver set and search history in an embedded database file;
// "redis" uses the shared Redis instance; "memory" keeps nothing across
// restarts.
type StoreConfig struct {
	Backend    string
	SQLitePath string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type SubmitConfig struct {
	RatePerMinute float64
	Burst         int
}

type MetricsConfig struct {
	Addr string
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		API: APIConfig{
			BaseURL:        getEnv("LIVER_API_BASE_URL", "https://liver-scraper-main.pwaserve8.workers.dev"),
			RequestTimeout: time.Duration(getEnvInt("LIVER_API_TIMEOUT_SECONDS", 15)) * time.Second,
			RetryAttempts:  getEnvInt("LIVER_API_RETRY_ATTEMPTS", 2),
		},
		Store: StoreConfig{
			Backend:    getEnv("STORE_BACKEND", "sqlite"),
			SQLitePath: getEnv("STORE_SQLITE_PATH", "data/liverapp.db"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Submit: SubmitConfig{
			RatePerMinute: getEnvFloat("REVIEW_SUBMIT_RATE_PER_MINUTE", 2),
			Burst:         getEnvInt("REVIEW_SUBMIT_BURST", 1),
		},
		Metrics: MetricsConfig{
			Addr: getEnv("METRICS_ADDR", ""),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("LIVER_API_BASE_URL is required")
	}
	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("LIVER_API_BASE_URL is not a valid absolute URL: %q", c.API.BaseURL)
	}
	switch c.Store.Backend {
	case "sqlite":
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("STORE_SQLITE_PATH is required for the sqlite backend")
		}
	case "redis", "memory":
	default:
		return fmt.Errorf("unknown STORE_BACKEND: %q", c.Store.Backend)
	}
	if c.Submit.RatePerMinute <= 0 {
		return fmt.Errorf("REVIEW_SUBMIT_RATE_PER_MINUTE must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
