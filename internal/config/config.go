package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	TMDBBearerToken string        `env:"TMDB_BEARER_TOKEN"`
	TMDBBaseURL     string        `env:"TMDB_BASE_URL" envDefault:"https://api.themoviedb.org/3"`
	DBPath          string        `env:"DB_PATH" envDefault:"filmrover.db"`
	ServerPort      string        `env:"SERVER_PORT" envDefault:"8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	RedisURL        string        `env:"REDIS_URL"`
	CronSecret      string        `env:"CRON_SECRET"`
	PublicURL       string        `env:"PUBLIC_URL" envDefault:"http://localhost:3000"`
	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"168h"`
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.TMDBBearerToken == "" {
		return nil, fmt.Errorf("TMDB_BEARER_TOKEN is required")
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Bool("redis", cfg.RedisURL != "").
		Dur("session_ttl", cfg.SessionTTL).
		Msg("configuration loaded")

	return &cfg, nil
}

var Module = fx.Provide(Load)
