package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration

	RedisAddr     string // empty selects the in-memory cache
	RedisPassword string
	RedisDB       int

	LogLevel  string
	LogFormat string // json|text

	RateLimitCapacity int
	RateLimitWindow   time.Duration
}

// Load reads a .env file if present, then the process environment.
// It reports whether a .env file was loaded.
func Load() (Config, bool, error) {
	loaded := godotenv.Load() == nil

	cfg := Config{
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
	}

	var err error
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, loaded, err
	}
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return Config{}, loaded, err
	}
	if cfg.RateLimitCapacity, err = getInt("RATE_LIMIT_CAPACITY", 5); err != nil {
		return Config{}, loaded, err
	}
	if cfg.RateLimitWindow, err = getDuration("RATE_LIMIT_WINDOW", time.Minute); err != nil {
		return Config{}, loaded, err
	}

	if cfg.RateLimitCapacity <= 0 {
		return Config{}, loaded, fmt.Errorf("RATE_LIMIT_CAPACITY must be positive, got %d", cfg.RateLimitCapacity)
	}
	if cfg.RateLimitWindow <= 0 {
		return Config{}, loaded, fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", cfg.RateLimitWindow)
	}

	return cfg, loaded, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q: %w", key, raw, err)
	}
	return v, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, raw, err)
	}
	return v, nil
}
