package server

import (
	"filmrover/internal/domain"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// PairRequest names the start and end of a game. Exactly one id must be set
// on each side.
type PairRequest struct {
	StartMovieID  *int64 `json:"startMovieId,omitempty"`
	StartPersonID *int64 `json:"startPersonId,omitempty"`
	EndMovieID    *int64 `json:"endMovieId,omitempty"`
	EndPersonID   *int64 `json:"endPersonId,omitempty"`
}

func (p PairRequest) Pair() (domain.Pair, error) {
	return domain.PairFromIDs(p.StartMovieID, p.StartPersonID, p.EndMovieID, p.EndPersonID)
}

type CreateGameResponse struct {
	ID   string `json:"id"`
	Link string `json:"link"`
}

type GamesResponse struct {
	Games []domain.Game `json:"games"`
}

type ChallengeResponse struct {
	Challenge *domain.LabeledChallenge `json:"challenge"`
}

type ChallengeHistoryResponse struct {
	Challenges []domain.DailyChallenge `json:"challenges"`
}

type PairResponse struct {
	Start domain.Ref `json:"start"`
	End   domain.Ref `json:"end"`
}

type VisitRequest struct {
	Kind domain.Kind `json:"kind"`
	ID   int64       `json:"id"`
}

type entityPath struct {
	ID int64 `path:"id"`
}

type gamePath struct {
	ID string `path:"id"`
}

type playPath struct {
	GameID string `path:"gameId"`
}

type visitInput struct {
	playPath
	VisitRequest
}

type searchInput struct {
	Kind  string `path:"kind" enum:"movie,person"`
	Query string `query:"q" required:"true"`
	Page  int    `query:"page"`
}

type randomInput struct {
	Kind string `path:"kind" enum:"movie,person"`
}

type listInput struct {
	Limit int `query:"limit"`
}
