package service

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"filmrover/internal/api"
	"filmrover/internal/cache"
	"filmrover/internal/config"
	"filmrover/internal/database"
	"filmrover/internal/db"
	"filmrover/internal/domain"
	"filmrover/internal/repository"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// newTestMetadata serves TMDB from handler and caches in a throwaway redis.
func newTestMetadata(t *testing.T, handler http.HandlerFunc) *MetadataService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	client := api.NewTMDBClient(&config.Config{TMDBBaseURL: srv.URL, TMDBBearerToken: "test"}, zerolog.Nop())
	return NewMetadataService(client, cache.New(rdb, zerolog.Nop()), zerolog.Nop())
}

// tmdbRoutes maps request paths to canned JSON bodies; anything else is 404.
func tmdbRoutes(routes map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"status_message":"The resource you requested could not be found."}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
}

func setupRepos(t *testing.T) (*repository.GameRepository, *repository.ChallengeRepository) {
	t.Helper()
	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "filmrover.db")}
	sqlDB, err := database.New(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	queries := db.New(sqlDB)
	return repository.NewGameRepository(sqlDB, queries, zerolog.Nop()),
		repository.NewChallengeRepository(sqlDB, queries, zerolog.Nop())
}

type services struct {
	metadata   *MetadataService
	games      *GameService
	challenges *ChallengeService
}

func newTestServices(t *testing.T, handler http.HandlerFunc) services {
	t.Helper()
	gameRepo, challengeRepo := setupRepos(t)
	metadata := newTestMetadata(t, handler)
	games := NewGameService(gameRepo, metadata, zerolog.Nop())
	return services{
		metadata:   metadata,
		games:      games,
		challenges: NewChallengeService(challengeRepo, games, metadata, zerolog.Nop()),
	}
}

func mustPair(t *testing.T, start, end domain.Ref) domain.Pair {
	t.Helper()
	p, err := domain.NewPair(start, end)
	require.NoError(t, err)
	return p
}

func movie(id int64) domain.Ref  { return domain.Ref{Kind: domain.KindMovie, ID: id} }
func person(id int64) domain.Ref { return domain.Ref{Kind: domain.KindPerson, ID: id} }
