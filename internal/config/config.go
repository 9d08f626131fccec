package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr     string        `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath       string        `env:"DB_PATH" envDefault:"data/tictactoe.db"`
	LogLevel     slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir       string        `env:"SPA_DIR" envDefault:"../web/dist"`
	RedisURL     string        `env:"REDIS_URL"`
	FeedLimit    int           `env:"FEED_LIMIT" envDefault:"10"`
	FeedCacheTTL time.Duration `env:"FEED_CACHE_TTL" envDefault:"30s"`
	GameIdleTTL  time.Duration `env:"GAME_IDLE_TTL" envDefault:"1h"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.FeedLimit < 1 || cfg.FeedLimit > MaxFeedLimit {
		return nil, fmt.Errorf("FEED_LIMIT must be between 1 and %d, got %d", MaxFeedLimit, cfg.FeedLimit)
	}
	return &cfg, nil
}

// MaxFeedLimit caps every recent-matches page.
const MaxFeedLimit = 100
