package service

import (
	"cmp"
	"context"
	"errors"
	"filmrover/internal/api"
	"filmrover/internal/cache"
	"filmrover/internal/constants"
	"filmrover/internal/domain"
	"fmt"
	"math/rand/v2"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

type MetadataService struct {
	tmdb   *api.TMDBClient
	cache  *cache.Cache
	logger zerolog.Logger
	intN   func(n int) int
}

func NewMetadataService(tmdb *api.TMDBClient, c *cache.Cache, logger zerolog.Logger) *MetadataService {
	return &MetadataService{tmdb: tmdb, cache: c, logger: logger, intN: rand.IntN}
}

func tmdbKey(path string, query url.Values) string {
	return "tmdb:" + api.RequestKey(path, query)
}

func (s *MetadataService) GetEntity(ctx context.Context, ref domain.Ref) (domain.Entity, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	switch ref.Kind {
	case domain.KindMovie:
		m, err := cache.Fetch(ctx, s.cache, tmdbKey(fmt.Sprintf("/movie/%d", ref.ID), nil), constants.EntityCacheTTL,
			func(ctx context.Context) (*api.MovieDetails, error) { return s.tmdb.GetMovie(ctx, ref.ID) })
		if err != nil {
			return domain.Entity{}, domain.Provider(fmt.Errorf("failed to get movie %d: %w", ref.ID, err))
		}
		return domain.Entity{Kind: domain.KindMovie, ID: m.ID, Label: m.Title, ImagePath: m.PosterPath, Popularity: m.Popularity}, nil
	case domain.KindPerson:
		p, err := cache.Fetch(ctx, s.cache, tmdbKey(fmt.Sprintf("/person/%d", ref.ID), nil), constants.EntityCacheTTL,
			func(ctx context.Context) (*api.PersonDetails, error) { return s.tmdb.GetPerson(ctx, ref.ID) })
		if err != nil {
			return domain.Entity{}, domain.Provider(fmt.Errorf("failed to get person %d: %w", ref.ID, err))
		}
		return domain.Entity{Kind: domain.KindPerson, ID: p.ID, Label: p.Name, ImagePath: p.ProfilePath, Popularity: p.Popularity}, nil
	}
	return domain.Entity{}, domain.Validation(fmt.Sprintf("unknown entity kind %q", ref.Kind))
}

// GetCredits returns the neighbours of an entity: the people of a movie, or
// the movies of a person. TV credits are dropped.
func (s *MetadataService) GetCredits(ctx context.Context, ref domain.Ref) (domain.Credits, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	switch ref.Kind {
	case domain.KindMovie:
		resp, err := cache.Fetch(ctx, s.cache, tmdbKey(fmt.Sprintf("/movie/%d/credits", ref.ID), nil), constants.CreditsCacheTTL,
			func(ctx context.Context) (*api.MovieCreditsResponse, error) {
				return s.tmdb.GetMovieCredits(ctx, ref.ID)
			})
		if err != nil {
			return domain.Credits{}, domain.Provider(fmt.Errorf("failed to get credits for movie %d: %w", ref.ID, err))
		}
		return movieCredits(resp), nil
	case domain.KindPerson:
		resp, err := cache.Fetch(ctx, s.cache, tmdbKey(fmt.Sprintf("/person/%d/combined_credits", ref.ID), nil), constants.CreditsCacheTTL,
			func(ctx context.Context) (*api.PersonCreditsResponse, error) {
				return s.tmdb.GetPersonCredits(ctx, ref.ID)
			})
		if err != nil {
			return domain.Credits{}, domain.Provider(fmt.Errorf("failed to get credits for person %d: %w", ref.ID, err))
		}
		return personCredits(resp), nil
	}
	return domain.Credits{}, domain.Validation(fmt.Sprintf("unknown entity kind %q", ref.Kind))
}

func movieCredits(resp *api.MovieCreditsResponse) domain.Credits {
	credits := domain.Credits{
		Cast:      []domain.Entity{},
		Crew:      []domain.CrewEntity{},
		Directors: []domain.CrewEntity{},
	}

	seenCast := make(map[int64]bool, len(resp.Cast))
	for _, c := range resp.Cast {
		if seenCast[c.ID] {
			continue
		}
		seenCast[c.ID] = true
		credits.Cast = append(credits.Cast, domain.Entity{
			Kind: domain.KindPerson, ID: c.ID, Label: c.Name, ImagePath: c.ProfilePath, Popularity: c.Popularity,
		})
	}

	seenCrew := make(map[int64]bool, len(resp.Crew))
	seenDirector := make(map[int64]bool)
	for _, c := range resp.Crew {
		member := domain.CrewEntity{
			Entity: domain.Entity{
				Kind: domain.KindPerson, ID: c.ID, Label: c.Name, ImagePath: c.ProfilePath, Popularity: c.Popularity,
			},
			Job:        c.Job,
			Department: c.Department,
		}
		if c.Job == "Director" && !seenDirector[c.ID] {
			seenDirector[c.ID] = true
			credits.Directors = append(credits.Directors, member)
		}
		if seenCrew[c.ID] {
			continue
		}
		seenCrew[c.ID] = true
		credits.Crew = append(credits.Crew, member)
	}

	sortCredits(&credits)
	return credits
}

func personCredits(resp *api.PersonCreditsResponse) domain.Credits {
	credits := domain.Credits{
		Cast:      []domain.Entity{},
		Crew:      []domain.CrewEntity{},
		Directors: []domain.CrewEntity{},
	}

	seenCast := make(map[int64]bool, len(resp.Cast))
	for _, c := range resp.Cast {
		if c.MediaType != "movie" || seenCast[c.ID] {
			continue
		}
		seenCast[c.ID] = true
		credits.Cast = append(credits.Cast, domain.Entity{
			Kind: domain.KindMovie, ID: c.ID, Label: c.Title, ImagePath: c.PosterPath, Popularity: c.Popularity,
		})
	}

	seenCrew := make(map[int64]bool, len(resp.Crew))
	seenDirected := make(map[int64]bool)
	for _, c := range resp.Crew {
		if c.MediaType != "movie" {
			continue
		}
		role := domain.CrewEntity{
			Entity: domain.Entity{
				Kind: domain.KindMovie, ID: c.ID, Label: c.Title, ImagePath: c.PosterPath, Popularity: c.Popularity,
			},
			Job:        c.Job,
			Department: c.Department,
		}
		if c.Job == "Director" && !seenDirected[c.ID] {
			seenDirected[c.ID] = true
			credits.Directors = append(credits.Directors, role)
		}
		if seenCrew[c.ID] {
			continue
		}
		seenCrew[c.ID] = true
		credits.Crew = append(credits.Crew, role)
	}

	sortCredits(&credits)
	return credits
}

// byPopularity orders descending; entries without a popularity sort last.
func byPopularity(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return cmp.Compare(*b, *a)
}

func sortCredits(c *domain.Credits) {
	slices.SortStableFunc(c.Cast, func(a, b domain.Entity) int { return byPopularity(a.Popularity, b.Popularity) })
	slices.SortStableFunc(c.Crew, func(a, b domain.CrewEntity) int { return byPopularity(a.Popularity, b.Popularity) })
	slices.SortStableFunc(c.Directors, func(a, b domain.CrewEntity) int { return byPopularity(a.Popularity, b.Popularity) })
}

func (s *MetadataService) Search(ctx context.Context, kind domain.Kind, text string, page int) (domain.Page[domain.Entity], error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Page[domain.Entity]{}, domain.Validation("search query must not be empty")
	}
	if page < 1 {
		page = 1
	}

	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	switch kind {
	case domain.KindMovie:
		key := tmdbKey("/search/movie", url.Values{"query": {text}, "page": {strconv.Itoa(page)}})
		resp, err := cache.Fetch(ctx, s.cache, key, constants.SearchCacheTTL,
			func(ctx context.Context) (*api.MovieListResponse, error) { return s.tmdb.SearchMovies(ctx, text, page) })
		if err != nil {
			return domain.Page[domain.Entity]{}, domain.Provider(fmt.Errorf("failed to search movies: %w", err))
		}
		out := domain.Page[domain.Entity]{Page: resp.Page, TotalPages: resp.TotalPages, TotalResults: resp.TotalResults, Results: []domain.Entity{}}
		for _, m := range resp.Results {
			out.Results = append(out.Results, movieResultEntity(m))
		}
		return out, nil
	case domain.KindPerson:
		text = strings.ToLower(text)
		key := tmdbKey("/search/person", url.Values{"query": {text}, "page": {strconv.Itoa(page)}})
		resp, err := cache.Fetch(ctx, s.cache, key, constants.SearchCacheTTL,
			func(ctx context.Context) (*api.PersonListResponse, error) {
				return s.tmdb.SearchPeople(ctx, text, page)
			})
		if err != nil {
			return domain.Page[domain.Entity]{}, domain.Provider(fmt.Errorf("failed to search people: %w", err))
		}
		out := domain.Page[domain.Entity]{Page: resp.Page, TotalPages: resp.TotalPages, TotalResults: resp.TotalResults, Results: []domain.Entity{}}
		for _, p := range resp.Results {
			out.Results = append(out.Results, personResultEntity(p))
		}
		return out, nil
	}
	return domain.Page[domain.Entity]{}, domain.Validation(fmt.Sprintf("unknown entity kind %q", kind))
}

func movieResultEntity(m api.MovieResult) domain.Entity {
	return domain.Entity{Kind: domain.KindMovie, ID: m.ID, Label: m.Title, ImagePath: m.PosterPath, Popularity: m.Popularity}
}

func personResultEntity(p api.PersonResult) domain.Entity {
	return domain.Entity{Kind: domain.KindPerson, ID: p.ID, Label: p.Name, ImagePath: p.ProfilePath, Popularity: p.Popularity}
}

var errEmptyListing = errors.New("listing page has no results")

func (s *MetadataService) randomPage() int {
	return s.intN(constants.RandomPageCount) + 1
}

func (s *MetadataService) RandomPopularMovie(ctx context.Context) (domain.Entity, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	page := s.randomPage()
	key := tmdbKey("/discover/movie", url.Values{"page": {strconv.Itoa(page)}, "sort_by": {"popularity.desc"}})
	resp, err := cache.Fetch(ctx, s.cache, key, constants.ListingCacheTTL,
		func(ctx context.Context) (*api.MovieListResponse, error) { return s.tmdb.DiscoverMovies(ctx, page) })
	if err != nil {
		return domain.Entity{}, domain.Provider(fmt.Errorf("failed to discover movies: %w", err))
	}
	if len(resp.Results) == 0 {
		return domain.Entity{}, domain.Provider(fmt.Errorf("discover movies page %d: %w", page, errEmptyListing))
	}

	pick := resp.Results[s.intN(len(resp.Results))]
	s.logger.Debug().Int("page", page).Int64("movieId", pick.ID).Msg("picked random movie")
	return movieResultEntity(pick), nil
}

// wellKnown filters out people unlikely to be recognised by players:
// transliterated names, adult performers and people known mainly for TV.
func wellKnown(p api.PersonResult) bool {
	if p.Name != p.OriginalName || p.Adult || len(p.KnownFor) == 0 {
		return false
	}
	return p.KnownFor[0].MediaType == "movie"
}

func (s *MetadataService) RandomPopularPerson(ctx context.Context) (domain.Entity, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	page := s.randomPage()
	key := tmdbKey("/person/popular", url.Values{"page": {strconv.Itoa(page)}})
	resp, err := cache.Fetch(ctx, s.cache, key, constants.ListingCacheTTL,
		func(ctx context.Context) (*api.PersonListResponse, error) { return s.tmdb.PopularPeople(ctx, page) })
	if err != nil {
		return domain.Entity{}, domain.Provider(fmt.Errorf("failed to list popular people: %w", err))
	}
	if len(resp.Results) == 0 {
		return domain.Entity{}, domain.Provider(fmt.Errorf("popular people page %d: %w", page, errEmptyListing))
	}

	candidates := make([]api.PersonResult, 0, len(resp.Results))
	for _, p := range resp.Results {
		if wellKnown(p) {
			candidates = append(candidates, p)
		}
	}

	pick := resp.Results[0]
	if len(candidates) > 0 {
		pick = candidates[s.intN(len(candidates))]
	} else {
		s.logger.Debug().Int("page", page).Msg("no well known person on page, using first result")
	}
	s.logger.Debug().Int("page", page).Int64("personId", pick.ID).Msg("picked random person")
	return personResultEntity(pick), nil
}
