// Package selector picks the start and end entities of a daily challenge.
package selector

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"filmrover/internal/domain"
)

var ErrTooManyRerolls = errors.New("could not select a distinct end entity")

// Fetcher returns one random popular entity of a fixed kind.
type Fetcher func(ctx context.Context) (domain.Entity, error)

type Selection struct {
	Start domain.Entity
	End   domain.Entity
}

func (s Selection) Pair() (domain.Pair, error) {
	return domain.NewPair(s.Start.Ref(), s.End.Ref())
}

type Selector struct {
	movie       Fetcher
	person      Fetcher
	rng         *rand.Rand
	maxAttempts int
	flipKind    func() domain.Kind
}

// New builds a Selector. A nil rng uses a randomly seeded source; maxAttempts
// bounds how many times the end entity is re-rolled after a self-loop.
func New(movie, person Fetcher, rng *rand.Rand, maxAttempts int) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	s := &Selector{movie: movie, person: person, rng: rng, maxAttempts: maxAttempts}
	s.flipKind = s.flip
	return s
}

func (s *Selector) flip() domain.Kind {
	if s.rng.IntN(2) == 0 {
		return domain.KindMovie
	}
	return domain.KindPerson
}

func (s *Selector) resolve(ctx context.Context, kind domain.Kind) (domain.Entity, error) {
	fetch := s.movie
	if kind == domain.KindPerson {
		fetch = s.person
	}
	e, err := fetch(ctx)
	if err != nil {
		return domain.Entity{}, fmt.Errorf("failed to fetch random %s: %w", kind, err)
	}
	// a fetcher's entity kind is whatever it was asked for
	e.Kind = kind
	return e, nil
}

// Select draws the start kind once and never re-rolls it. The end kind is
// drawn independently and re-drawn, together with the end entity, only while
// the end equals the start.
func (s *Selector) Select(ctx context.Context) (Selection, error) {
	startKind := s.flipKind()
	endKind := s.flipKind()

	start, err := s.resolve(ctx, startKind)
	if err != nil {
		return Selection{}, err
	}
	end, err := s.resolve(ctx, endKind)
	if err != nil {
		return Selection{}, err
	}

	for attempt := 1; start.Ref().Equal(end.Ref()); attempt++ {
		if attempt > s.maxAttempts {
			return Selection{}, fmt.Errorf("%w after %d attempts (start %s)", ErrTooManyRerolls, s.maxAttempts, start.Ref())
		}
		endKind = s.flipKind()
		end, err = s.resolve(ctx, endKind)
		if err != nil {
			return Selection{}, err
		}
	}

	return Selection{Start: start, End: end}, nil
}
