package server

import (
	"encoding/json"
	"filmrover/internal/domain"
	"filmrover/internal/service"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

type operation struct {
	method      string
	path        string
	summary     string
	req         any
	resp        any
	status      int
	errStatuses []int
}

var operations = []operation{
	{http.MethodGet, "/healthz", "Health check", nil, HealthResponse{}, http.StatusOK, []int{http.StatusServiceUnavailable}},

	{http.MethodGet, "/api/movies/{id}", "Get a movie", entityPath{}, domain.Entity{}, http.StatusOK, []int{http.StatusBadRequest, http.StatusBadGateway}},
	{http.MethodGet, "/api/movies/{id}/credits", "Get the cast and crew of a movie", entityPath{}, domain.Credits{}, http.StatusOK, []int{http.StatusBadRequest, http.StatusBadGateway}},
	{http.MethodGet, "/api/people/{id}", "Get a person", entityPath{}, domain.Entity{}, http.StatusOK, []int{http.StatusBadRequest, http.StatusBadGateway}},
	{http.MethodGet, "/api/people/{id}/credits", "Get the movies of a person", entityPath{}, domain.Credits{}, http.StatusOK, []int{http.StatusBadRequest, http.StatusBadGateway}},
	{http.MethodGet, "/api/search/{kind}", "Search movies or people", searchInput{}, domain.Page[domain.Entity]{}, http.StatusOK, []int{http.StatusBadRequest, http.StatusBadGateway}},
	{http.MethodGet, "/api/random/{kind}", "Pick a random popular movie or person", randomInput{}, domain.Entity{}, http.StatusOK, []int{http.StatusBadRequest, http.StatusBadGateway}},

	{http.MethodGet, "/api/games", "List recent games", listInput{}, GamesResponse{}, http.StatusOK, []int{http.StatusBadRequest}},
	{http.MethodPost, "/api/games", "Create a game", PairRequest{}, CreateGameResponse{}, http.StatusCreated, []int{http.StatusBadRequest}},
	{http.MethodGet, "/api/games/{id}", "Get a game", gamePath{}, domain.Game{}, http.StatusOK, []int{http.StatusNotFound}},
	{http.MethodGet, "/api/games/{id}/details", "Get a game with its start and end resolved", gamePath{}, domain.GameDetails{}, http.StatusOK, []int{http.StatusNotFound, http.StatusBadGateway}},
	{http.MethodPost, "/api/games/{id}/complete", "Mark a game finished", gamePath{}, domain.Game{}, http.StatusOK, []int{http.StatusNotFound}},

	{http.MethodGet, "/api/challenge", "Get the current daily challenge", nil, ChallengeResponse{}, http.StatusOK, nil},
	{http.MethodPost, "/api/challenge", "Set the daily challenge", PairRequest{}, PairResponse{}, http.StatusCreated, []int{http.StatusBadRequest}},
	{http.MethodGet, "/api/challenge/history", "List daily challenges, newest first", listInput{}, ChallengeHistoryResponse{}, http.StatusOK, []int{http.StatusBadRequest}},
	{http.MethodPost, "/api/challenge/play", "Start a game on the daily challenge", nil, CreateGameResponse{}, http.StatusCreated, []int{http.StatusNotFound}},
	{http.MethodPost, "/api/cron/daily-challenge", "Generate a new daily challenge", nil, PairResponse{}, http.StatusCreated, []int{http.StatusUnauthorized, http.StatusBadGateway, http.StatusServiceUnavailable}},

	{http.MethodGet, "/api/play/{gameId}", "Get the play session of a game", playPath{}, service.PlayState{}, http.StatusOK, []int{http.StatusNotFound}},
	{http.MethodPost, "/api/play/{gameId}/start", "Start the timer", playPath{}, service.PlayState{}, http.StatusOK, []int{http.StatusNotFound}},
	{http.MethodPost, "/api/play/{gameId}/visit", "Navigate to an entity", visitInput{}, service.PlayState{}, http.StatusOK, []int{http.StatusBadRequest, http.StatusNotFound, http.StatusBadGateway}},
	{http.MethodPost, "/api/play/{gameId}/give-up", "Reset the session", playPath{}, service.PlayState{}, http.StatusOK, []int{http.StatusNotFound}},
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "FilmRover API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Find your way from one movie or person to another through shared credits.")

	for _, op := range operations {
		oc, err := r.NewOperationContext(op.method, op.path)
		if err != nil {
			continue
		}
		oc.SetSummary(op.summary)
		if op.req != nil {
			oc.AddReqStructure(op.req)
		}
		oc.AddRespStructure(op.resp, openapi.WithHTTPStatus(op.status))
		for _, status := range op.errStatuses {
			oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(status))
		}
		oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusInternalServerError))
		_ = r.AddOperation(oc)
	}

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
