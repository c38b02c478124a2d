package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config captures runtime configuration for the workforce intelligence API.
type Config struct {
	ListenAddr     string
	DumpDBPath     string
	LexiconPath    string
	AIProvider     string
	OpenAIAPIKey   string
	OpenAIModel    string
	BatchSize      int
	MaxConcurrency int
	MaxRetries     int
	AITimeout      time.Duration
	RequestTimeout time.Duration
}

// FromEnv creates a configuration instance sourced from environment variables.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ListenAddr:     getEnv("HYPO_LISTEN_ADDR", ":8080"),
		DumpDBPath:     getEnv("HYPO_DUMP_DB", "dumps.db"),
		LexiconPath:    getEnv("HYPO_LEXICON_PATH", ""),
		AIProvider:     getEnv("AI_PROVIDER", "heuristic"),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		BatchSize:      8,
		MaxConcurrency: 4,
		MaxRetries:     3,
		AITimeout:      30 * time.Second,
		RequestTimeout: 120 * time.Second,
	}

	if v := os.Getenv("HYPO_BATCH_SIZE"); v != "" {
		if _, err := fmt.Sscanf(v, "%d", &cfg.BatchSize); err != nil {
			return Config{}, fmt.Errorf("parse HYPO_BATCH_SIZE: %w", err)
		}
	}

	if v := os.Getenv("HYPO_MAX_CONCURRENCY"); v != "" {
		if _, err := fmt.Sscanf(v, "%d", &cfg.MaxConcurrency); err != nil {
			return Config{}, fmt.Errorf("parse HYPO_MAX_CONCURRENCY: %w", err)
		}
	}

	if v := os.Getenv("HYPO_MAX_RETRIES"); v != "" {
		if _, err := fmt.Sscanf(v, "%d", &cfg.MaxRetries); err != nil {
			return Config{}, fmt.Errorf("parse HYPO_MAX_RETRIES: %w", err)
		}
	}

	if v := os.Getenv("HYPO_AI_TIMEOUT_S"); v != "" {
		var seconds int
		if _, err := fmt.Sscanf(v, "%d", &seconds); err != nil {
			return Config{}, fmt.Errorf("parse HYPO_AI_TIMEOUT_S: %w", err)
		}
		cfg.AITimeout = time.Duration(seconds) * time.Second
	}

	if v := os.Getenv("HYPO_REQUEST_TIMEOUT_S"); v != "" {
		var seconds int
		if _, err := fmt.Sscanf(v, "%d", &seconds); err != nil {
			return Config{}, fmt.Errorf("parse HYPO_REQUEST_TIMEOUT_S: %w", err)
		}
		cfg.RequestTimeout = time.Duration(seconds) * time.Second
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
