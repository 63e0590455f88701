package service

import (
	"context"
	"filmrover/internal/constants"
	"filmrover/internal/domain"
	"filmrover/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type GameService struct {
	repo     *repository.GameRepository
	metadata *MetadataService
	logger   zerolog.Logger
}

func NewGameService(repo *repository.GameRepository, metadata *MetadataService, logger zerolog.Logger) *GameService {
	return &GameService{repo: repo, metadata: metadata, logger: logger}
}

func (s *GameService) CreateGame(ctx context.Context, pair domain.Pair) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	id, err := s.repo.Insert(ctx, pair)
	if err != nil {
		return "", err
	}
	s.logger.Info().Str("gameId", id).Str("start", pair.Start.String()).Str("end", pair.End.String()).Msg("game created")
	return id, nil
}

func (s *GameService) GetGame(ctx context.Context, id string) (*domain.Game, error) {
	if id == "" {
		return nil, domain.Validation("game id is required")
	}
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	return s.repo.Get(ctx, id)
}

// CompleteGame marks a game finished. Completing a finished game is a no-op.
func (s *GameService) CompleteGame(ctx context.Context, id string) error {
	if id == "" {
		return domain.Validation("game id is required")
	}
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if err := s.repo.SetFinished(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("gameId", id).Msg("game completed")
	return nil
}

func (s *GameService) ListGames(ctx context.Context, limit int) ([]domain.Game, error) {
	if limit <= 0 {
		limit = constants.DefaultListLimit
	}
	limit = min(limit, constants.MaxListLimit)

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	return s.repo.List(ctx, limit)
}

// DescribeGame loads a game and resolves both endpoints against the
// metadata provider.
func (s *GameService) DescribeGame(ctx context.Context, id string) (*domain.GameDetails, error) {
	game, err := s.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}

	details := &domain.GameDetails{Game: *game}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		e, err := s.metadata.GetEntity(gctx, game.Start)
		if err != nil {
			return err
		}
		details.StartEntity = e
		return nil
	})
	g.Go(func() error {
		e, err := s.metadata.GetEntity(gctx, game.End)
		if err != nil {
			return err
		}
		details.EndEntity = e
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return details, nil
}
