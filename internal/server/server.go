package server

import (
	"database/sql"
	"filmrover/internal/cache"
	"filmrover/internal/config"
	"filmrover/internal/constants"
	"filmrover/internal/domain"
	"filmrover/internal/middleware"
	"filmrover/internal/service"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/swaggest/swgui/v5emb"
)

type Server struct {
	metadata   *service.MetadataService
	games      *service.GameService
	challenges *service.ChallengeService
	play       *service.PlayService
	db         *sql.DB
	cache      *cache.Cache
	cfg        *config.Config
	jobTimeout time.Duration
	logger     zerolog.Logger
}

func NewServer(
	metadata *service.MetadataService,
	games *service.GameService,
	challenges *service.ChallengeService,
	play *service.PlayService,
	db *sql.DB,
	c *cache.Cache,
	cfg *config.Config,
	logger zerolog.Logger,
) *Server {
	return &Server{
		metadata:   metadata,
		games:      games,
		challenges: challenges,
		play:       play,
		db:         db,
		cache:      c,
		cfg:        cfg,
		jobTimeout: constants.RequestTimeout,
		logger:     logger,
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID(s.logger))
	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler)

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("FilmRover API", "/openapi.json", "/docs"))
	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/movies/{id}", s.handleGetEntity(domain.KindMovie))
		r.Get("/movies/{id}/credits", s.handleGetCredits(domain.KindMovie))
		r.Get("/people/{id}", s.handleGetEntity(domain.KindPerson))
		r.Get("/people/{id}/credits", s.handleGetCredits(domain.KindPerson))
		r.Get("/search/{kind}", s.handleSearch)
		r.Get("/random/{kind}", s.handleRandom)

		r.Get("/games", s.handleListGames)
		r.Post("/games", s.handleCreateGame)
		r.Get("/games/{id}", s.handleGetGame)
		r.Get("/games/{id}/details", s.handleDescribeGame)
		r.Post("/games/{id}/complete", s.handleCompleteGame)

		r.Get("/challenge", s.handleGetChallenge)
		r.Post("/challenge/play", s.handlePlayChallenge)
		r.Get("/challenge/history", s.handleChallengeHistory)

		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerToken(s.cfg.CronSecret))
			r.Post("/challenge", s.handleSetChallenge)
			r.Post("/cron/daily-challenge", s.handleGenerateChallenge)
		})

		r.Get("/play/{gameId}", s.handlePlayState)
		r.Post("/play/{gameId}/start", s.handlePlayStart)
		r.Post("/play/{gameId}/visit", s.handlePlayVisit)
		r.Post("/play/{gameId}/give-up", s.handlePlayGiveUp)
	})

	return r
}
