package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds everything the companion reads from the environment.
type Config struct {
	// Completion endpoint (OpenAI-compatible chat completions).
	AIBaseURL string        `env:"AI_BASE_URL" envDefault:"https://api.deepseek.com/v1/chat/completions"`
	AIAPIKey  string        `env:"AI_API_KEY"`
	AIModel   string        `env:"AI_MODEL" envDefault:"deepseek-chat"`
	AITimeout time.Duration `env:"AI_TIMEOUT" envDefault:"60s"`

	// Orchestration pacing.
	TickInterval       time.Duration `env:"TICK_INTERVAL" envDefault:"9s"`
	MaxConsecutiveSelf int           `env:"MAX_CONSECUTIVE_REPLIES" envDefault:"3"`

	// Persistence and logs.
	DataDir     string `env:"DATA_DIR" envDefault:"data"`
	StoragePath string `env:"STORAGE_PATH" envDefault:"data/companion.json"`
	LogFile     string `env:"LOG_FILE" envDefault:"data/logs/companion.log"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

// New loads .env (when present) and parses the environment.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using system environment")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.MaxConsecutiveSelf < 1 {
		return nil, fmt.Errorf("MAX_CONSECUTIVE_REPLIES must be at least 1, got %d", cfg.MaxConsecutiveSelf)
	}
	if cfg.TickInterval < time.Second {
		return nil, fmt.Errorf("TICK_INTERVAL must be at least 1s, got %s", cfg.TickInterval)
	}
	return cfg, nil
}
