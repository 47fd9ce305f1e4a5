package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Conversion engine
	PandocPath        string
	PandocInputFormat string
	ConvertTimeout    time.Duration

	// Document limits
	MaxDocumentBytes int64
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		APIKey: os.Getenv("SRCMAP_API_KEY"),

		PandocPath:        envOr("PANDOC_PATH", "pandoc"),
		PandocInputFormat: envOr("PANDOC_INPUT_FORMAT", "markdown"),
		ConvertTimeout:    envDuration("CONVERT_TIMEOUT", 30*time.Second),

		MaxDocumentBytes: envInt64("MAX_DOCUMENT_BYTES", 10485760), // 10MB
	}

	if cfg.ConvertTimeout <= 0 {
		cfg.ConvertTimeout = 30 * time.Second
	}
	if cfg.MaxDocumentBytes <= 0 {
		cfg.MaxDocumentBytes = 10485760
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("SRCMAP_API_KEY is required")
	}
	if c.PandocPath == "" {
		return fmt.Errorf("PANDOC_PATH must not be empty")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
