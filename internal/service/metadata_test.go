package service

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"filmrover/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEntity(t *testing.T) {
	svc := newTestMetadata(t, tmdbRoutes(map[string]string{
		"/movie/550":  `{"id":550,"title":"Fight Club","poster_path":"/fc.jpg","popularity":40.5}`,
		"/person/287": `{"id":287,"name":"Brad Pitt","profile_path":"/bp.jpg"}`,
	}))
	ctx := context.Background()

	movie, err := svc.GetEntity(ctx, domain.Ref{Kind: domain.KindMovie, ID: 550})
	require.NoError(t, err)
	assert.Equal(t, "Fight Club", movie.Label)
	assert.Equal(t, domain.KindMovie, movie.Kind)
	assert.Equal(t, "/fc.jpg", movie.ImagePath)

	person, err := svc.GetEntity(ctx, domain.Ref{Kind: domain.KindPerson, ID: 287})
	require.NoError(t, err)
	assert.Equal(t, "Brad Pitt", person.Label)
	assert.Equal(t, domain.KindPerson, person.Kind)
}

func TestGetEntity_ProviderError(t *testing.T) {
	svc := newTestMetadata(t, tmdbRoutes(nil))

	_, err := svc.GetEntity(context.Background(), domain.Ref{Kind: domain.KindMovie, ID: 1})
	assert.ErrorIs(t, err, domain.ErrProvider)
}

func TestGetEntity_SchemaMismatchIsProviderError(t *testing.T) {
	svc := newTestMetadata(t, tmdbRoutes(map[string]string{
		"/movie/1": `{"id":1}`,
	}))

	_, err := svc.GetEntity(context.Background(), domain.Ref{Kind: domain.KindMovie, ID: 1})
	assert.ErrorIs(t, err, domain.ErrProvider)
}

func TestGetEntity_Cached(t *testing.T) {
	var hits atomic.Int32
	routes := tmdbRoutes(map[string]string{"/movie/2": `{"id":2,"title":"Ariel"}`})
	svc := newTestMetadata(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		routes(w, r)
	})

	for i := 0; i < 3; i++ {
		e, err := svc.GetEntity(context.Background(), domain.Ref{Kind: domain.KindMovie, ID: 2})
		require.NoError(t, err)
		assert.Equal(t, "Ariel", e.Label)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestGetCredits_Movie(t *testing.T) {
	svc := newTestMetadata(t, tmdbRoutes(map[string]string{
		"/movie/550/credits": `{
			"id": 550,
			"cast": [
				{"id": 1, "name": "Low", "popularity": 1.0},
				{"id": 2, "name": "Unknown"},
				{"id": 3, "name": "High", "popularity": 9.0},
				{"id": 3, "name": "High", "popularity": 9.0}
			],
			"crew": [
				{"id": 7, "name": "Fincher", "job": "Director", "department": "Directing", "popularity": 5.0},
				{"id": 7, "name": "Fincher", "job": "Producer", "department": "Production", "popularity": 5.0},
				{"id": 8, "name": "Writer", "job": "Screenplay", "department": "Writing", "popularity": 6.0}
			]
		}`,
	}))

	credits, err := svc.GetCredits(context.Background(), domain.Ref{Kind: domain.KindMovie, ID: 550})
	require.NoError(t, err)

	require.Len(t, credits.Cast, 3)
	assert.Equal(t, []int64{3, 1, 2}, []int64{credits.Cast[0].ID, credits.Cast[1].ID, credits.Cast[2].ID})
	for _, c := range credits.Cast {
		assert.Equal(t, domain.KindPerson, c.Kind)
	}

	require.Len(t, credits.Crew, 2)
	assert.Equal(t, int64(8), credits.Crew[0].ID)
	assert.Equal(t, int64(7), credits.Crew[1].ID)
	assert.Equal(t, "Director", credits.Crew[1].Job)

	require.Len(t, credits.Directors, 1)
	assert.Equal(t, "Fincher", credits.Directors[0].Label)
}

func TestGetCredits_PersonKeepsMoviesOnly(t *testing.T) {
	svc := newTestMetadata(t, tmdbRoutes(map[string]string{
		"/person/287/combined_credits": `{
			"id": 287,
			"cast": [
				{"id": 550, "media_type": "movie", "title": "Fight Club", "popularity": 20.0},
				{"id": 1399, "media_type": "tv", "name": "Friends", "popularity": 90.0},
				{"id": 807, "media_type": "movie", "title": "Se7en", "popularity": 30.0},
				{"id": 550, "media_type": "movie", "title": "Fight Club", "popularity": 20.0}
			],
			"crew": [
				{"id": 999, "media_type": "movie", "title": "Produced", "job": "Producer", "department": "Production"}
			]
		}`,
	}))

	credits, err := svc.GetCredits(context.Background(), domain.Ref{Kind: domain.KindPerson, ID: 287})
	require.NoError(t, err)

	require.Len(t, credits.Cast, 2)
	assert.Equal(t, "Se7en", credits.Cast[0].Label)
	assert.Equal(t, "Fight Club", credits.Cast[1].Label)
	assert.Equal(t, domain.KindMovie, credits.Cast[0].Kind)

	require.Len(t, credits.Crew, 1)
	assert.Equal(t, "Producer", credits.Crew[0].Job)
	assert.Empty(t, credits.Directors)
}

func TestByPopularity_StableForTies(t *testing.T) {
	p := func(v float64) *float64 { return &v }
	cast := []domain.Entity{
		{ID: 1, Popularity: p(2)},
		{ID: 2},
		{ID: 3, Popularity: p(2)},
		{ID: 4},
		{ID: 5, Popularity: p(3)},
	}
	c := domain.Credits{Cast: cast}
	sortCredits(&c)

	ids := make([]int64, 0, len(c.Cast))
	for _, e := range c.Cast {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []int64{5, 1, 3, 2, 4}, ids)
}

func TestSearch_PersonLowercasesQuery(t *testing.T) {
	var gotQuery string
	svc := newTestMetadata(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/person", r.URL.Path)
		gotQuery = r.URL.Query().Get("query")
		w.Write([]byte(`{"page":1,"total_pages":1,"total_results":1,"results":[{"id":287,"name":"Brad Pitt"}]}`))
	})

	page, err := svc.Search(context.Background(), domain.KindPerson, "Brad PITT", 1)
	require.NoError(t, err)
	assert.Equal(t, "brad pitt", gotQuery)
	require.Len(t, page.Results, 1)
	assert.Equal(t, domain.KindPerson, page.Results[0].Kind)
	assert.Equal(t, 1, page.TotalResults)
}

func TestSearch_Movie(t *testing.T) {
	svc := newTestMetadata(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/movie", r.URL.Path)
		assert.Equal(t, "Heat", r.URL.Query().Get("query"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		w.Write([]byte(`{"page":2,"total_pages":3,"total_results":41,"results":[{"id":949,"title":"Heat"}]}`))
	})

	page, err := svc.Search(context.Background(), domain.KindMovie, "Heat", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Heat", page.Results[0].Label)
}

func TestSearch_EmptyQuery(t *testing.T) {
	svc := newTestMetadata(t, tmdbRoutes(nil))

	_, err := svc.Search(context.Background(), domain.KindMovie, "   ", 1)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRandomPopularMovie(t *testing.T) {
	svc := newTestMetadata(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/discover/movie", r.URL.Path)
		assert.Equal(t, "4", r.URL.Query().Get("page"))
		w.Write([]byte(`{"page":4,"results":[{"id":10,"title":"A"},{"id":11,"title":"B"},{"id":12,"title":"C"}]}`))
	})
	draws := []int{3, 2}
	svc.intN = func(n int) int {
		v := draws[0]
		draws = draws[1:]
		return v
	}

	e, err := svc.RandomPopularMovie(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Entity{Kind: domain.KindMovie, ID: 12, Label: "C"}, e)
}

func TestRandomPopularMovie_EmptyPage(t *testing.T) {
	svc := newTestMetadata(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"page":1,"results":[]}`))
	})

	_, err := svc.RandomPopularMovie(context.Background())
	assert.ErrorIs(t, err, domain.ErrProvider)
}

func TestRandomPopularPerson_PrefersWellKnown(t *testing.T) {
	svc := newTestMetadata(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/person/popular", r.URL.Path)
		w.Write([]byte(`{"page":1,"results":[
			{"id":1,"name":"Translit","original_name":"原名","known_for":[{"id":5,"media_type":"movie"}]},
			{"id":2,"name":"TV Star","original_name":"TV Star","known_for":[{"id":6,"media_type":"tv"}]},
			{"id":3,"name":"Adult","original_name":"Adult","adult":true,"known_for":[{"id":7,"media_type":"movie"}]},
			{"id":4,"name":"Film Star","original_name":"Film Star","known_for":[{"id":8,"media_type":"movie"}]}
		]}`))
	})
	svc.intN = func(int) int { return 0 }

	e, err := svc.RandomPopularPerson(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), e.ID)
	assert.Equal(t, domain.KindPerson, e.Kind)
}

func TestRandomPopularPerson_FallsBackToFirst(t *testing.T) {
	svc := newTestMetadata(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"page":1,"results":[
			{"id":1,"name":"Translit","original_name":"原名"},
			{"id":2,"name":"TV Star","original_name":"TV Star","known_for":[{"id":6,"media_type":"tv"}]}
		]}`))
	})
	svc.intN = func(int) int { return 0 }

	e, err := svc.RandomPopularPerson(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), e.ID)
}
