package api

import (
	"context"
	"encoding/json"
	"errors"
	"filmrover/internal/config"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

type TMDBClient struct {
	baseURL     string
	bearerToken string
	client      *fasthttp.Client
	logger      zerolog.Logger
}

type StatusError struct {
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tmdb %s: status %d: %s", e.Path, e.Status, e.Body)
}

// ErrSchema marks a response that decoded but is missing required fields.
var ErrSchema = errors.New("tmdb response failed validation")

func NewTMDBClient(cfg *config.Config, logger zerolog.Logger) *TMDBClient {
	return &TMDBClient{
		baseURL:     strings.TrimRight(cfg.TMDBBaseURL, "/"),
		bearerToken: cfg.TMDBBearerToken,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		logger: logger,
	}
}

func (c *TMDBClient) GetMovie(ctx context.Context, id int64) (*MovieDetails, error) {
	return doRequest[MovieDetails](ctx, c, fmt.Sprintf("/movie/%d", id), nil)
}

func (c *TMDBClient) GetMovieCredits(ctx context.Context, id int64) (*MovieCreditsResponse, error) {
	return doRequest[MovieCreditsResponse](ctx, c, fmt.Sprintf("/movie/%d/credits", id), nil)
}

func (c *TMDBClient) GetPerson(ctx context.Context, id int64) (*PersonDetails, error) {
	return doRequest[PersonDetails](ctx, c, fmt.Sprintf("/person/%d", id), nil)
}

func (c *TMDBClient) GetPersonCredits(ctx context.Context, id int64) (*PersonCreditsResponse, error) {
	return doRequest[PersonCreditsResponse](ctx, c, fmt.Sprintf("/person/%d/combined_credits", id), nil)
}

func (c *TMDBClient) SearchMovies(ctx context.Context, query string, page int) (*MovieListResponse, error) {
	return doRequest[MovieListResponse](ctx, c, "/search/movie", url.Values{
		"query": {query},
		"page":  {strconv.Itoa(page)},
	})
}

func (c *TMDBClient) SearchPeople(ctx context.Context, query string, page int) (*PersonListResponse, error) {
	return doRequest[PersonListResponse](ctx, c, "/search/person", url.Values{
		"query": {query},
		"page":  {strconv.Itoa(page)},
	})
}

func (c *TMDBClient) DiscoverMovies(ctx context.Context, page int) (*MovieListResponse, error) {
	return doRequest[MovieListResponse](ctx, c, "/discover/movie", url.Values{
		"page":    {strconv.Itoa(page)},
		"sort_by": {"popularity.desc"},
	})
}

func (c *TMDBClient) PopularPeople(ctx context.Context, page int) (*PersonListResponse, error) {
	return doRequest[PersonListResponse](ctx, c, "/person/popular", url.Values{
		"page": {strconv.Itoa(page)},
	})
}

type validator interface {
	validate() error
}

// RequestKey is the cache key for a path and query, stable across calls.
func RequestKey(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}

func doRequest[T any, PT interface {
	*T
	validator
}](ctx context.Context, client *TMDBClient, path string, query url.Values) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(client.baseURL + RequestKey(path, query))
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Authorization", "Bearer "+client.bearerToken)
	req.Header.Set("Accept", "application/json")

	client.logger.Debug().Str("path", path).Str("query", query.Encode()).Msg("tmdb request")

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, fmt.Errorf("tmdb %s: %w", path, err)
		}
	} else {
		if err := client.client.Do(req, resp); err != nil {
			return nil, fmt.Errorf("tmdb %s: %w", path, err)
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, &StatusError{Path: path, Status: resp.StatusCode(), Body: string(resp.Body())}
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("tmdb %s: decode: %w", path, err)
	}
	if err := PT(&result).validate(); err != nil {
		return nil, fmt.Errorf("tmdb %s: %w", path, err)
	}
	return &result, nil
}
