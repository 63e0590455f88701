package repository

import (
	"context"
	"sync"
	"testing"

	"filmrover/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChallengeRepo(t *testing.T) *ChallengeRepository {
	sqlDB, queries := setupDB(t)
	return NewChallengeRepository(sqlDB, queries, zerolog.Nop())
}

func countActive(t *testing.T, repo *ChallengeRepository) int {
	t.Helper()
	var n int
	require.NoError(t, repo.db.QueryRow("SELECT COUNT(*) FROM daily_challenge WHERE is_active = 1").Scan(&n))
	return n
}

func TestChallengeRepository_ActiveEmpty(t *testing.T) {
	repo := newChallengeRepo(t)

	c, err := repo.Active(context.Background())
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestChallengeRepository_ActivateReplacesPrevious(t *testing.T) {
	repo := newChallengeRepo(t)
	ctx := context.Background()

	first := mustPair(t, domain.Ref{Kind: domain.KindMovie, ID: 1}, domain.Ref{Kind: domain.KindPerson, ID: 2})
	second := mustPair(t, domain.Ref{Kind: domain.KindPerson, ID: 3}, domain.Ref{Kind: domain.KindMovie, ID: 4})

	_, err := repo.Activate(ctx, first)
	require.NoError(t, err)
	id, err := repo.Activate(ctx, second)
	require.NoError(t, err)

	c, err := repo.Active(ctx)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, id, c.ID)
	assert.Equal(t, second.Start, c.Start)
	assert.Equal(t, second.End, c.End)
	assert.True(t, c.IsActive)
	assert.Equal(t, 1, countActive(t, repo))

	all, err := repo.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestChallengeRepository_ConcurrentActivate(t *testing.T) {
	repo := newChallengeRepo(t)
	ctx := context.Background()

	var pairs []domain.Pair
	for i := int64(1); i <= 8; i++ {
		pairs = append(pairs, mustPair(t, domain.Ref{Kind: domain.KindMovie, ID: i}, domain.Ref{Kind: domain.KindMovie, ID: i + 100}))
	}

	var wg sync.WaitGroup
	for _, p := range pairs {
		wg.Add(1)
		go func(p domain.Pair) {
			defer wg.Done()
			// individual writers may lose the race; the invariant is what matters
			_, _ = repo.Activate(ctx, p)
		}(p)
	}
	wg.Wait()

	assert.LessOrEqual(t, countActive(t, repo), 1)
	c, err := repo.Active(ctx)
	require.NoError(t, err)
	assert.NotNil(t, c)
}
