package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ListenAddr    string
	DataDir       string
	BaseURL       string
	SessionSecret string
	LogLevel      string
	TickInterval  time.Duration
}

func Load() *Config {
	return &Config{
		ListenAddr:    envOr("LISTEN_ADDR", ":8080"),
		DataDir:       envOr("DATA_DIR", "./data"),
		BaseURL:       envOr("BASE_URL", "http://localhost:8080"),
		SessionSecret: envOr("SESSION_SECRET", "change-me-in-production-32-bytes!"),
		LogLevel:      envOr("LOG_LEVEL", "info"),
		TickInterval:  time.Duration(envIntOr("TICK_INTERVAL_MS", 1000)) * time.Millisecond,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
