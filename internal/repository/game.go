package repository

import (
	"context"
	"database/sql"
	"errors"
	"filmrover/internal/db"
	"filmrover/internal/domain"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type GameRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewGameRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *GameRepository {
	return &GameRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *GameRepository) Insert(ctx context.Context, pair domain.Pair) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", domain.Storage(fmt.Errorf("failed to generate nanoid: %w", err))
	}

	startMovieID, startPersonID, endMovieID, endPersonID := pair.Columns()
	insertedID, err := r.queries.InsertGame(ctx, db.InsertGameParams{
		ID:            id,
		CreatedAt:     time.Now().UTC(),
		StartMovieID:  startMovieID,
		EndMovieID:    endMovieID,
		StartPersonID: startPersonID,
		EndPersonID:   endPersonID,
	})
	if errors.Is(err, sql.ErrNoRows) || (err == nil && insertedID == "") {
		return "", domain.Storage(errors.New("error creating game: insert returned no row"))
	}
	if err != nil {
		return "", domain.Storage(fmt.Errorf("failed to insert game: %w", err))
	}

	r.logger.Debug().Str("game_id", insertedID).Str("start", pair.Start.String()).Str("end", pair.End.String()).Msg("game inserted")
	return insertedID, nil
}

func (r *GameRepository) Get(ctx context.Context, id string) (*domain.Game, error) {
	row, err := r.queries.GetGame(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound(fmt.Sprintf("game %s does not exist", id))
	}
	if err != nil {
		return nil, domain.Storage(fmt.Errorf("failed to get game %s: %w", id, err))
	}
	return toDomainGame(row)
}

// SetFinished marks the game finished. Repeating it is a no-op; a missing
// id reports not found.
func (r *GameRepository) SetFinished(ctx context.Context, id string) error {
	affected, err := r.queries.SetGameFinished(ctx, id)
	if err != nil {
		return domain.Storage(fmt.Errorf("failed to finish game %s: %w", id, err))
	}
	if affected == 0 {
		return domain.NotFound(fmt.Sprintf("game %s does not exist", id))
	}
	return nil
}

func (r *GameRepository) List(ctx context.Context, limit int) ([]domain.Game, error) {
	rows, err := r.queries.ListGames(ctx, int64(limit))
	if err != nil {
		return nil, domain.Storage(fmt.Errorf("failed to list games: %w", err))
	}

	result := make([]domain.Game, 0, len(rows))
	for _, row := range rows {
		g, err := toDomainGame(row)
		if err != nil {
			r.logger.Warn().Err(err).Str("game_id", row.ID).Msg("skipping malformed game row")
			continue
		}
		result = append(result, *g)
	}
	return result, nil
}

func toDomainGame(row db.Game) (*domain.Game, error) {
	pair, err := domain.PairFromIDs(row.StartMovieID, row.StartPersonID, row.EndMovieID, row.EndPersonID)
	if err != nil {
		return nil, domain.Storage(fmt.Errorf("game %s has an invalid pair: %w", row.ID, err))
	}
	return &domain.Game{
		ID:         row.ID,
		CreatedAt:  row.CreatedAt,
		Start:      pair.Start,
		End:        pair.End,
		IsFinished: row.IsFinished,
	}, nil
}
