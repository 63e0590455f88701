package service

import (
	"context"
	"errors"
	"filmrover/internal/constants"
	"filmrover/internal/domain"
	"filmrover/internal/repository"
	"filmrover/internal/selector"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type ChallengeService struct {
	repo     *repository.ChallengeRepository
	games    *GameService
	metadata *MetadataService
	selector *selector.Selector
	logger   zerolog.Logger
}

func NewChallengeService(repo *repository.ChallengeRepository, games *GameService, metadata *MetadataService, logger zerolog.Logger) *ChallengeService {
	return &ChallengeService{
		repo:     repo,
		games:    games,
		metadata: metadata,
		selector: selector.New(metadata.RandomPopularMovie, metadata.RandomPopularPerson, nil, constants.MaxRerollAttempts),
		logger:   logger,
	}
}

// CreateDailyChallenge makes pair the only active challenge.
func (s *ChallengeService) CreateDailyChallenge(ctx context.Context, pair domain.Pair) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	id, err := s.repo.Activate(ctx, pair)
	if err != nil {
		return err
	}
	s.logger.Info().Int64("challengeId", id).Str("start", pair.Start.String()).Str("end", pair.End.String()).Msg("daily challenge activated")
	return nil
}

// GetCurrentDailyChallenge returns the active challenge with both labels
// resolved, or nil when there is none or a label cannot be resolved.
func (s *ChallengeService) GetCurrentDailyChallenge(ctx context.Context) (*domain.LabeledChallenge, error) {
	dbCtx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	active, err := s.repo.Active(dbCtx)
	cancel()
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, nil
	}

	labeled := &domain.LabeledChallenge{DailyChallenge: *active}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		e, err := s.metadata.GetEntity(gctx, active.Start)
		if err != nil {
			return err
		}
		labeled.StartLabel = e.Label
		return nil
	})
	g.Go(func() error {
		e, err := s.metadata.GetEntity(gctx, active.End)
		if err != nil {
			return err
		}
		labeled.EndLabel = e.Label
		return nil
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, domain.ErrProvider) {
			s.logger.Warn().Err(err).Int64("challengeId", active.ID).Msg("could not resolve daily challenge labels")
			return nil, nil
		}
		return nil, err
	}
	return labeled, nil
}

// GenerateDailyChallenge picks a random pair and activates it.
func (s *ChallengeService) GenerateDailyChallenge(ctx context.Context) (domain.Pair, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DailyJobTimeout)
	defer cancel()

	sel, err := s.selector.Select(ctx)
	if err != nil {
		return domain.Pair{}, err
	}
	pair, err := sel.Pair()
	if err != nil {
		return domain.Pair{}, err
	}

	s.logger.Info().
		Str("start", pair.Start.String()).
		Str("startLabel", sel.Start.Label).
		Str("end", pair.End.String()).
		Str("endLabel", sel.End.Label).
		Msg("generated daily challenge")

	if err := s.CreateDailyChallenge(ctx, pair); err != nil {
		return domain.Pair{}, err
	}
	return pair, nil
}

// PlayDailyChallenge starts a new game on the active challenge's pair.
func (s *ChallengeService) PlayDailyChallenge(ctx context.Context) (string, error) {
	dbCtx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	active, err := s.repo.Active(dbCtx)
	cancel()
	if err != nil {
		return "", err
	}
	if active == nil {
		return "", domain.NotFound("there is no active daily challenge")
	}

	pair, err := domain.NewPair(active.Start, active.End)
	if err != nil {
		return "", err
	}
	return s.games.CreateGame(ctx, pair)
}

// ListDailyChallenges returns past and current challenges, newest first.
func (s *ChallengeService) ListDailyChallenges(ctx context.Context, limit int) ([]domain.DailyChallenge, error) {
	if limit <= 0 {
		limit = constants.DefaultListLimit
	}
	limit = min(limit, constants.MaxListLimit)

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	return s.repo.List(ctx, limit)
}
