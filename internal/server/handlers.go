package server

import (
	"context"
	"filmrover/internal/domain"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Validation(fmt.Sprintf("invalid id %q", chi.URLParam(r, "id")))
	}
	return id, nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, domain.Validation(fmt.Sprintf("invalid %s %q", name, raw))
	}
	return v, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "ok", Checks: map[string]string{"sqlite": "ok"}}
	status := http.StatusOK

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Error().Err(err).Str("name", "sqlite").Msg("health check failed")
		resp.Checks["sqlite"] = "error"
		status = http.StatusServiceUnavailable
	}
	if s.cache.Enabled() {
		resp.Checks["redis"] = "ok"
		if err := s.cache.Client().Ping(ctx).Err(); err != nil {
			s.logger.Error().Err(err).Str("name", "redis").Msg("health check failed")
			resp.Checks["redis"] = "error"
			status = http.StatusServiceUnavailable
		}
	}
	if status != http.StatusOK {
		resp.Status = "degraded"
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleGetEntity(kind domain.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		entity, err := s.metadata.GetEntity(r.Context(), domain.Ref{Kind: kind, ID: id})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, entity)
	}
}

func (s *Server) handleGetCredits(kind domain.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		credits, err := s.metadata.GetCredits(r.Context(), domain.Ref{Kind: kind, ID: id})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, credits)
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	results, err := s.metadata.Search(r.Context(), kind, r.URL.Query().Get("q"), page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleRandom(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var entity domain.Entity
	if kind == domain.KindMovie {
		entity, err = s.metadata.RandomPopularMovie(r.Context())
	} else {
		entity, err = s.metadata.RandomPopularPerson(r.Context())
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entity)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	games, err := s.games.ListGames(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, GamesResponse{Games: games})
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req PairRequest
	if err := readJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	pair, err := req.Pair()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	id, err := s.games.CreateGame(r.Context(), pair)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreateGameResponse{ID: id, Link: s.play.GameLink(id)})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	game, err := s.games.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

func (s *Server) handleDescribeGame(w http.ResponseWriter, r *http.Request) {
	details, err := s.games.DescribeGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (s *Server) handleCompleteGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.games.CompleteGame(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	game, err := s.games.GetGame(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

func (s *Server) handleGetChallenge(w http.ResponseWriter, r *http.Request) {
	challenge, err := s.challenges.GetCurrentDailyChallenge(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ChallengeResponse{Challenge: challenge})
}

func (s *Server) handleChallengeHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	challenges, err := s.challenges.ListDailyChallenges(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ChallengeHistoryResponse{Challenges: challenges})
}

func (s *Server) handleSetChallenge(w http.ResponseWriter, r *http.Request) {
	var req PairRequest
	if err := readJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	pair, err := req.Pair()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := s.challenges.CreateDailyChallenge(r.Context(), pair); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, PairResponse{Start: pair.Start, End: pair.End})
}

func (s *Server) handlePlayChallenge(w http.ResponseWriter, r *http.Request) {
	id, err := s.challenges.PlayDailyChallenge(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreateGameResponse{ID: id, Link: s.play.GameLink(id)})
}

// handleGenerateChallenge bounds the job by the request timeout so it answers
// before the server's write deadline.
func (s *Server) handleGenerateChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.jobTimeout)
	defer cancel()

	pair, err := s.challenges.GenerateDailyChallenge(ctx)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, PairResponse{Start: pair.Start, End: pair.End})
}

func (s *Server) handlePlayState(w http.ResponseWriter, r *http.Request) {
	state, err := s.play.State(r.Context(), chi.URLParam(r, "gameId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handlePlayStart(w http.ResponseWriter, r *http.Request) {
	state, err := s.play.Start(r.Context(), chi.URLParam(r, "gameId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handlePlayVisit(w http.ResponseWriter, r *http.Request) {
	var req VisitRequest
	if err := readJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	state, err := s.play.Visit(r.Context(), chi.URLParam(r, "gameId"), domain.Ref{Kind: req.Kind, ID: req.ID})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handlePlayGiveUp(w http.ResponseWriter, r *http.Request) {
	state, err := s.play.GiveUp(r.Context(), chi.URLParam(r, "gameId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}
