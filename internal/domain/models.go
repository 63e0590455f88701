package domain

import (
	"fmt"
	"time"
)

type Kind string

const (
	KindMovie  Kind = "movie"
	KindPerson Kind = "person"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindMovie:
		return KindMovie, nil
	case KindPerson:
		return KindPerson, nil
	}
	return "", Validation(fmt.Sprintf("unknown entity kind %q", s))
}

func (k Kind) Valid() bool {
	return k == KindMovie || k == KindPerson
}

// Ref points at an entity owned by the metadata provider.
type Ref struct {
	Kind Kind  `json:"kind"`
	ID   int64 `json:"id"`
}

func (r Ref) Equal(o Ref) bool {
	return r.Kind == o.Kind && r.ID == o.ID
}

func (r Ref) String() string {
	return fmt.Sprintf("%s:%d", r.Kind, r.ID)
}

type Entity struct {
	Kind       Kind     `json:"kind"`
	ID         int64    `json:"id"`
	Label      string   `json:"label"`
	ImagePath  string   `json:"imagePath,omitempty"`
	Popularity *float64 `json:"popularity,omitempty"`
}

func (e Entity) Ref() Ref {
	return Ref{Kind: e.Kind, ID: e.ID}
}

type CrewEntity struct {
	Entity
	Job        string `json:"job"`
	Department string `json:"department"`
}

type Credits struct {
	Cast      []Entity     `json:"cast"`
	Crew      []CrewEntity `json:"crew"`
	Directors []CrewEntity `json:"directors"`
}

type Page[T any] struct {
	Page         int `json:"page"`
	TotalPages   int `json:"totalPages"`
	TotalResults int `json:"totalResults"`
	Results      []T `json:"results"`
}

type Game struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
	Start      Ref       `json:"start"`
	End        Ref       `json:"end"`
	IsFinished bool      `json:"isFinished"`
}

type DailyChallenge struct {
	ID       int64 `json:"id"`
	Start    Ref   `json:"start"`
	End      Ref   `json:"end"`
	IsActive bool  `json:"isActive"`
}

type LabeledChallenge struct {
	DailyChallenge
	StartLabel string `json:"startLabel"`
	EndLabel   string `json:"endLabel"`
}

// GameDetails is a game with both endpoints resolved for display.
type GameDetails struct {
	Game
	StartEntity Entity `json:"startEntity"`
	EndEntity   Entity `json:"endEntity"`
}
