package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresToken(t *testing.T) {
	t.Setenv("TMDB_BEARER_TOKEN", "")

	_, err := Load(zerolog.Nop())
	require.Error(t, err)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TMDB_BEARER_TOKEN", "token")
	t.Setenv("SESSION_TTL", "2h")

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "token", cfg.TMDBBearerToken)
	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDBBaseURL)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Empty(t, cfg.RedisURL)
}
