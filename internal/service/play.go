package service

import (
	"context"
	"errors"
	"filmrover/internal/config"
	"filmrover/internal/domain"
	"filmrover/internal/session"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// PlayState is a session as shown to the player.
type PlayState struct {
	session.Snapshot
	Timer     string `json:"timer"`
	ShareText string `json:"shareText,omitempty"`
}

type PlayService struct {
	games     *GameService
	metadata  *MetadataService
	store     session.Store
	clock     session.Clock
	publicURL string
	logger    zerolog.Logger
}

func NewPlayService(games *GameService, metadata *MetadataService, store session.Store, cfg *config.Config, logger zerolog.Logger) *PlayService {
	return &PlayService{
		games:     games,
		metadata:  metadata,
		store:     store,
		clock:     session.SystemClock,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		logger:    logger,
	}
}

func (s *PlayService) GameLink(gameID string) string {
	return fmt.Sprintf("%s/play/%s", s.publicURL, gameID)
}

// pendingCompletion records that a session asked to complete its game. The
// call is made once the winning snapshot is stored, so a write that loses to
// another instance never completes the game.
type pendingCompletion struct {
	requested bool
}

func (p *pendingCompletion) CompleteGame(context.Context, string) error {
	p.requested = true
	return nil
}

// restore rebuilds the stored session for a game, or a fresh idle one.
func (s *PlayService) restore(ctx context.Context, gameID string, snap *session.Snapshot, completer session.Completer) (*session.Session, error) {
	if snap != nil {
		return session.Restore(*snap, s.clock, completer), nil
	}

	game, err := s.games.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	start, err := s.metadata.GetEntity(ctx, game.Start)
	if err != nil {
		return nil, err
	}
	return session.New(game.ID, session.StepOf(start), game.End, s.clock, completer), nil
}

// update applies change to the session of a game through the store and
// completes the game if this update is the one that won it.
func (s *PlayService) update(ctx context.Context, gameID string, change func(*session.Session) error) (*PlayState, bool, error) {
	var (
		state *PlayState
		won   bool
	)
	_, err := s.store.Update(ctx, gameID, func(current *session.Snapshot) (session.Snapshot, error) {
		pending := &pendingCompletion{}
		sess, err := s.restore(ctx, gameID, current, pending)
		if err != nil {
			return session.Snapshot{}, err
		}
		if err := change(sess); err != nil {
			return session.Snapshot{}, err
		}
		state = s.view(sess)
		won = pending.requested
		return sess.Snapshot(), nil
	})
	if err != nil {
		return nil, false, err
	}

	if won {
		if err := s.games.CompleteGame(ctx, gameID); err != nil {
			s.logger.Error().Err(err).Str("gameId", gameID).Msg("failed to complete game")
		}
	}
	return state, won, nil
}

func (s *PlayService) view(sess *session.Session) *PlayState {
	state := &PlayState{Snapshot: sess.Snapshot(), Timer: session.FormatElapsed(sess.Elapsed())}
	if sess.State() == session.StateWon {
		state.ShareText = sess.ShareText(s.GameLink(sess.GameID()))
	}
	return state
}

func (s *PlayService) State(ctx context.Context, gameID string) (*PlayState, error) {
	snap, err := s.store.Load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	sess, err := s.restore(ctx, gameID, snap, nil)
	if err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

func (s *PlayService) Start(ctx context.Context, gameID string) (*PlayState, error) {
	state, _, err := s.update(ctx, gameID, func(sess *session.Session) error {
		sess.Start()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Str("gameId", gameID).Str("state", string(state.State)).Msg("session started")
	return state, nil
}

// Visit navigates the session to ref. The entity is resolved before the
// session changes, so a provider failure leaves it as it was.
func (s *PlayService) Visit(ctx context.Context, gameID string, ref domain.Ref) (*PlayState, error) {
	if !ref.Kind.Valid() || ref.ID <= 0 {
		return nil, domain.Validation(fmt.Sprintf("invalid entity %s", ref))
	}

	entity, err := s.metadata.GetEntity(ctx, ref)
	if err != nil {
		return nil, err
	}
	step := session.StepOf(entity)

	state, won, err := s.update(ctx, gameID, func(sess *session.Session) error {
		_, err := sess.Visit(ctx, step)
		if errors.Is(err, session.ErrFinished) {
			return fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if won {
		s.logger.Info().
			Str("gameId", gameID).
			Int("clicks", state.Clicks).
			Str("elapsed", state.Timer).
			Msg("game won")
	}
	return state, nil
}

func (s *PlayService) GiveUp(ctx context.Context, gameID string) (*PlayState, error) {
	state, _, err := s.update(ctx, gameID, func(sess *session.Session) error {
		sess.GiveUp()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Str("gameId", gameID).Msg("session reset")
	return state, nil
}
