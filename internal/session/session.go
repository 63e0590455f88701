// Package session tracks one play-through of a game: the path taken from the
// start entity and the time spent getting to the end.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"filmrover/internal/domain"
)

type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateWon     State = "won"
)

var ErrFinished = errors.New("session is already won")

// Step is one entry of the navigation history.
type Step struct {
	Kind  domain.Kind `json:"kind"`
	ID    int64       `json:"id"`
	Label string      `json:"label"`
}

func (s Step) Ref() domain.Ref {
	return domain.Ref{Kind: s.Kind, ID: s.ID}
}

func StepOf(e domain.Entity) Step {
	return Step{Kind: e.Kind, ID: e.ID, Label: e.Label}
}

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

var SystemClock Clock = systemClock{}

type Completer interface {
	CompleteGame(ctx context.Context, id string) error
}

type Session struct {
	gameID string
	start  Step
	end    domain.Ref

	state     State
	history   []Step
	startedAt time.Time
	// frozen holds the final elapsed time once the timer stops.
	frozen    time.Duration
	completed bool

	clock     Clock
	completer Completer
}

func New(gameID string, start Step, end domain.Ref, clock Clock, completer Completer) *Session {
	if clock == nil {
		clock = SystemClock
	}
	return &Session{
		gameID:    gameID,
		start:     start,
		end:       end,
		state:     StateIdle,
		clock:     clock,
		completer: completer,
	}
}

func (s *Session) GameID() string  { return s.gameID }
func (s *Session) State() State    { return s.state }
func (s *Session) End() domain.Ref { return s.end }
func (s *Session) StartStep() Step { return s.start }
func (s *Session) History() []Step { return append([]Step(nil), s.history...) }
func (s *Session) Completed() bool { return s.completed }

// Start moves an idle session to running with the start entity placed.
// Starting a session that is already running or won is a no-op.
func (s *Session) Start() {
	if s.state != StateIdle {
		return
	}
	s.state = StateRunning
	s.history = []Step{s.start}
	s.startedAt = s.clock.Now()
	s.frozen = 0
}

// Visit records a navigation to step. An idle session is started first, so
// landing on the start entity only places it. Reaching the end entity wins
// the session and completes the game exactly once; the returned error then
// reports a failed completion call while the session stays won.
func (s *Session) Visit(ctx context.Context, step Step) (bool, error) {
	switch s.state {
	case StateWon:
		return true, ErrFinished
	case StateIdle:
		s.Start()
		if step.Ref().Equal(s.start.Ref()) {
			return false, nil
		}
	}

	s.history = append(s.history, step)
	if !step.Ref().Equal(s.end) {
		return false, nil
	}

	s.frozen = s.running()
	s.state = StateWon
	if s.completed {
		return true, nil
	}
	s.completed = true
	if s.completer == nil {
		return true, nil
	}
	if err := s.completer.CompleteGame(ctx, s.gameID); err != nil {
		return true, fmt.Errorf("failed to complete game %s: %w", s.gameID, err)
	}
	return true, nil
}

// GiveUp resets the session to idle without completing the game.
func (s *Session) GiveUp() {
	s.state = StateIdle
	s.history = nil
	s.startedAt = time.Time{}
	s.frozen = 0
}

func (s *Session) Clicks() int {
	if len(s.history) == 0 {
		return 0
	}
	return len(s.history) - 1
}

func (s *Session) running() time.Duration {
	d := s.clock.Now().Sub(s.startedAt)
	if d < 0 {
		return 0
	}
	return d.Truncate(time.Second)
}

// Elapsed is the time on the timer in whole seconds.
func (s *Session) Elapsed() time.Duration {
	switch s.state {
	case StateRunning:
		return s.running()
	case StateWon:
		return s.frozen
	}
	return 0
}

func FormatElapsed(d time.Duration) string {
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total/60%60, total%60)
}

// ShareText is the message a winner copies to invite others to the game.
func (s *Session) ShareText(link string) string {
	from, to := s.start.Label, ""
	if len(s.history) > 0 {
		from = s.history[0].Label
		to = s.history[len(s.history)-1].Label
	}
	return fmt.Sprintf("I just got from %s to %s in %s with %d clicks on FilmRover! Give it a shot! %s",
		from, to, FormatElapsed(s.Elapsed()), s.Clicks(), link)
}

// Snapshot is the persisted form of a session.
type Snapshot struct {
	GameID         string     `json:"gameId"`
	Start          Step       `json:"start"`
	End            domain.Ref `json:"end"`
	State          State      `json:"state"`
	History        []Step     `json:"history"`
	StartedAt      time.Time  `json:"startedAt"`
	ElapsedSeconds int64      `json:"elapsedSeconds"`
	Clicks         int        `json:"clicks"`
	Completed      bool       `json:"completed"`
}

func (s *Session) Snapshot() Snapshot {
	history := s.History()
	if history == nil {
		history = []Step{}
	}
	return Snapshot{
		GameID:         s.gameID,
		Start:          s.start,
		End:            s.end,
		State:          s.state,
		History:        history,
		StartedAt:      s.startedAt,
		ElapsedSeconds: int64(s.Elapsed() / time.Second),
		Clicks:         s.Clicks(),
		Completed:      s.completed,
	}
}

// Restore rebuilds a session from a snapshot. A won session keeps its final
// time; a running one keeps counting from its original start.
func Restore(snap Snapshot, clock Clock, completer Completer) *Session {
	s := New(snap.GameID, snap.Start, snap.End, clock, completer)
	s.state = snap.State
	s.history = append([]Step(nil), snap.History...)
	s.startedAt = snap.StartedAt
	s.completed = snap.Completed
	if snap.State == StateWon {
		s.frozen = time.Duration(snap.ElapsedSeconds) * time.Second
	}
	return s
}
