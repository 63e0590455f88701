package repository

import (
	"context"
	"database/sql"
	"errors"
	"filmrover/internal/db"
	"filmrover/internal/domain"
	"fmt"

	"github.com/rs/zerolog"
)

type ChallengeRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewChallengeRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *ChallengeRepository {
	return &ChallengeRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// Activate deactivates every active challenge and inserts pair as the new
// active one inside a single transaction. The partial unique index on
// is_active rejects a concurrent writer that slips in between.
func (r *ChallengeRepository) Activate(ctx context.Context, pair domain.Pair) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, domain.Storage(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	if err := qtx.DeactivateDailyChallenges(ctx); err != nil {
		return 0, domain.Storage(fmt.Errorf("failed to deactivate daily challenges: %w", err))
	}

	startMovieID, startPersonID, endMovieID, endPersonID := pair.Columns()
	id, err := qtx.InsertDailyChallenge(ctx, db.InsertDailyChallengeParams{
		StartMovieID:  startMovieID,
		EndMovieID:    endMovieID,
		StartPersonID: startPersonID,
		EndPersonID:   endPersonID,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.Storage(errors.New("error creating daily challenge: insert returned no row"))
	}
	if err != nil {
		return 0, domain.Storage(fmt.Errorf("failed to insert daily challenge: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return 0, domain.Storage(fmt.Errorf("failed to commit daily challenge: %w", err))
	}

	r.logger.Debug().Int64("challenge_id", id).Str("start", pair.Start.String()).Str("end", pair.End.String()).Msg("daily challenge inserted")
	return id, nil
}

// Active returns nil when no challenge is active.
func (r *ChallengeRepository) Active(ctx context.Context) (*domain.DailyChallenge, error) {
	row, err := r.queries.GetActiveDailyChallenge(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Storage(fmt.Errorf("failed to get active daily challenge: %w", err))
	}
	return toDomainChallenge(row)
}

func (r *ChallengeRepository) List(ctx context.Context, limit int) ([]domain.DailyChallenge, error) {
	rows, err := r.queries.ListDailyChallenges(ctx, int64(limit))
	if err != nil {
		return nil, domain.Storage(fmt.Errorf("failed to list daily challenges: %w", err))
	}

	result := make([]domain.DailyChallenge, 0, len(rows))
	for _, row := range rows {
		c, err := toDomainChallenge(row)
		if err != nil {
			r.logger.Warn().Err(err).Int64("challenge_id", row.ID).Msg("skipping malformed challenge row")
			continue
		}
		result = append(result, *c)
	}
	return result, nil
}

func toDomainChallenge(row db.DailyChallenge) (*domain.DailyChallenge, error) {
	pair, err := domain.PairFromIDs(row.StartMovieID, row.StartPersonID, row.EndMovieID, row.EndPersonID)
	if err != nil {
		return nil, domain.Storage(fmt.Errorf("daily challenge %d has an invalid pair: %w", row.ID, err))
	}
	return &domain.DailyChallenge{
		ID:       row.ID,
		Start:    pair.Start,
		End:      pair.End,
		IsActive: row.IsActive,
	}, nil
}
