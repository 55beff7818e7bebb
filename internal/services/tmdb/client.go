package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/amaumene/mediagate/internal/config"
	"github.com/amaumene/mediagate/internal/models"
	"github.com/amaumene/mediagate/internal/services/fetch"
	"github.com/sirupsen/logrus"
)

const defaultSort = "popularity.desc"

// DiscoverFilter narrows a discover listing. Zero values are not sent.
type DiscoverFilter struct {
	GenreID          int
	Page             int
	SortBy           string
	Year             int
	OriginalLanguage string
}

// Client handles communication with the TMDB API and maps its payloads
// onto the unified media model
type Client struct {
	api         *api
	genres      *GenreDirectory
	degrader    *fetch.Degrader
	quiet       *fetch.Degrader
	placeholder string
	ttl         time.Duration
	logger      *logrus.Logger
}

// NewClient creates a new TMDB client. genres must be built on the same
// fetch client so both share one response cache.
func NewClient(http *fetch.Client, genres *GenreDirectory, degrader *fetch.Degrader, cfg *config.Config, logger *logrus.Logger) *Client {
	return &Client{
		api:         &api{http: http, apiKey: cfg.TMDBAPIKey, language: cfg.TMDBLanguage},
		genres:      genres,
		degrader:    degrader,
		quiet:       degrader.QuietNotFound(),
		placeholder: cfg.PlaceholderImageURL,
		ttl:         cfg.CacheTTL,
		logger:      logger,
	}
}

// fetchTrending returns this week's trending titles of the given kind
func (c *Client) fetchTrending(ctx context.Context, mediaType models.MediaType) ([]titleDTO, error) {
	path := fmt.Sprintf("/trending/%s/week", kindPath(mediaType))
	return c.fetchPage(ctx, path, nil)
}

// FetchTrendingMovies returns trending movies or the first error
func (c *Client) FetchTrendingMovies(ctx context.Context) ([]models.Movie, error) {
	results, err := c.fetchTrending(ctx, models.MediaTypeMovie)
	if err != nil {
		return nil, err
	}
	return c.movies(ctx, results), nil
}

// TrendingMovies returns trending movies, empty on failure
func (c *Client) TrendingMovies(ctx context.Context) []models.Movie {
	movies, err := c.FetchTrendingMovies(ctx)
	return fetch.OrEmpty(c.degrader, "tmdb.trending_movies", movies, err)
}

// FetchTrendingShows returns trending shows or the first error
func (c *Client) FetchTrendingShows(ctx context.Context) ([]models.Show, error) {
	results, err := c.fetchTrending(ctx, models.MediaTypeShow)
	if err != nil {
		return nil, err
	}
	return c.shows(ctx, results), nil
}

// TrendingShows returns trending shows, empty on failure
func (c *Client) TrendingShows(ctx context.Context) []models.Show {
	shows, err := c.FetchTrendingShows(ctx)
	return fetch.OrEmpty(c.degrader, "tmdb.trending_shows", shows, err)
}

// fetchDiscover lists titles of the given kind matching filter
func (c *Client) fetchDiscover(ctx context.Context, mediaType models.MediaType, filter DiscoverFilter) ([]titleDTO, error) {
	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = defaultSort
	}

	params := fetch.Params{
		"sort_by":                sortBy,
		"with_original_language": filter.OriginalLanguage,
	}
	if filter.GenreID > 0 {
		params["with_genres"] = strconv.Itoa(filter.GenreID)
	}
	if filter.Page > 0 {
		params["page"] = strconv.Itoa(filter.Page)
	}
	if filter.Year > 0 {
		if mediaType == models.MediaTypeShow {
			params["first_air_date_year"] = strconv.Itoa(filter.Year)
		} else {
			params["primary_release_year"] = strconv.Itoa(filter.Year)
		}
	}

	return c.fetchPage(ctx, "/discover/"+kindPath(mediaType), params)
}

// FetchDiscoverMovies lists movies matching filter or returns the first error
func (c *Client) FetchDiscoverMovies(ctx context.Context, filter DiscoverFilter) ([]models.Movie, error) {
	results, err := c.fetchDiscover(ctx, models.MediaTypeMovie, filter)
	if err != nil {
		return nil, err
	}
	return c.movies(ctx, results), nil
}

// DiscoverMovies lists movies matching filter, empty on failure
func (c *Client) DiscoverMovies(ctx context.Context, filter DiscoverFilter) []models.Movie {
	movies, err := c.FetchDiscoverMovies(ctx, filter)
	return fetch.OrEmpty(c.degrader, "tmdb.discover_movies", movies, err)
}

// FetchDiscoverShows lists shows matching filter or returns the first error
func (c *Client) FetchDiscoverShows(ctx context.Context, filter DiscoverFilter) ([]models.Show, error) {
	results, err := c.fetchDiscover(ctx, models.MediaTypeShow, filter)
	if err != nil {
		return nil, err
	}
	return c.shows(ctx, results), nil
}

// DiscoverShows lists shows matching filter, empty on failure
func (c *Client) DiscoverShows(ctx context.Context, filter DiscoverFilter) []models.Show {
	shows, err := c.FetchDiscoverShows(ctx, filter)
	return fetch.OrEmpty(c.degrader, "tmdb.discover_shows", shows, err)
}

// DiscoverAnime lists Japanese animated series
func (c *Client) DiscoverAnime(ctx context.Context, page int) []models.Show {
	shows, err := c.FetchDiscoverShows(ctx, DiscoverFilter{
		GenreID:          animationGenreID,
		Page:             page,
		OriginalLanguage: "ja",
	})
	return fetch.OrEmpty(c.degrader, "tmdb.discover_anime", shows, err)
}

// fetchSearch runs a free-text title search. A blank query matches nothing.
func (c *Client) fetchSearch(ctx context.Context, mediaType models.MediaType, query string) ([]titleDTO, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	return c.fetchPage(ctx, "/search/"+kindPath(mediaType), fetch.Params{"query": query})
}

// FetchSearchMovies searches movies by title or returns the first error
func (c *Client) FetchSearchMovies(ctx context.Context, query string) ([]models.Movie, error) {
	results, err := c.fetchSearch(ctx, models.MediaTypeMovie, query)
	if err != nil {
		return nil, err
	}
	return c.movies(ctx, results), nil
}

// SearchMovies searches movies by title, empty on failure
func (c *Client) SearchMovies(ctx context.Context, query string) []models.Movie {
	movies, err := c.FetchSearchMovies(ctx, query)
	return fetch.OrEmpty(c.degrader, "tmdb.search_movies", movies, err)
}

// FetchSearchShows searches shows by title or returns the first error
func (c *Client) FetchSearchShows(ctx context.Context, query string) ([]models.Show, error) {
	results, err := c.fetchSearch(ctx, models.MediaTypeShow, query)
	if err != nil {
		return nil, err
	}
	return c.shows(ctx, results), nil
}

// SearchShows searches shows by title, empty on failure
func (c *Client) SearchShows(ctx context.Context, query string) []models.Show {
	shows, err := c.FetchSearchShows(ctx, query)
	return fetch.OrEmpty(c.degrader, "tmdb.search_shows", shows, err)
}

// FetchSimilarMovies lists movies similar to id or returns the first error
func (c *Client) FetchSimilarMovies(ctx context.Context, id string) ([]models.Movie, error) {
	results, err := c.fetchPage(ctx, fmt.Sprintf("/movie/%s/similar", url.PathEscape(id)), nil)
	if err != nil {
		return nil, err
	}
	return c.movies(ctx, results), nil
}

// SimilarMovies lists movies similar to id, empty on failure
func (c *Client) SimilarMovies(ctx context.Context, id string) []models.Movie {
	movies, err := c.FetchSimilarMovies(ctx, id)
	return fetch.OrEmpty(c.degrader, "tmdb.similar_movies", movies, err)
}

// FetchSimilarShows lists shows similar to id or returns the first error
func (c *Client) FetchSimilarShows(ctx context.Context, id string) ([]models.Show, error) {
	results, err := c.fetchPage(ctx, fmt.Sprintf("/tv/%s/similar", url.PathEscape(id)), nil)
	if err != nil {
		return nil, err
	}
	return c.shows(ctx, results), nil
}

// SimilarShows lists shows similar to id, empty on failure
func (c *Client) SimilarShows(ctx context.Context, id string) []models.Show {
	shows, err := c.FetchSimilarShows(ctx, id)
	return fetch.OrEmpty(c.degrader, "tmdb.similar_shows", shows, err)
}

// FetchMovieDetail returns the full movie with credits and trailer
func (c *Client) FetchMovieDetail(ctx context.Context, id string) (*models.Movie, error) {
	payload, err := c.fetchDetail(ctx, models.MediaTypeMovie, id)
	if err != nil {
		return nil, err
	}
	movie := mapMovie(*payload, embeddedGenres(*payload), c.placeholder)
	return &movie, nil
}

// MovieDetail returns the full movie, nil on failure
func (c *Client) MovieDetail(ctx context.Context, id string) *models.Movie {
	movie, err := c.FetchMovieDetail(ctx, id)
	return fetch.OrNil(c.degrader, "tmdb.movie_detail", movie, err)
}

// FetchShowDetail returns the full show with credits, seasons and trailer
func (c *Client) FetchShowDetail(ctx context.Context, id string) (*models.Show, error) {
	payload, err := c.fetchDetail(ctx, models.MediaTypeShow, id)
	if err != nil {
		return nil, err
	}
	show := mapShow(*payload, embeddedGenres(*payload), c.placeholder)
	return &show, nil
}

// ShowDetail returns the full show, nil on failure
func (c *Client) ShowDetail(ctx context.Context, id string) *models.Show {
	show, err := c.FetchShowDetail(ctx, id)
	return fetch.OrNil(c.degrader, "tmdb.show_detail", show, err)
}

// FetchGenres lists the catalog genres for one media kind
func (c *Client) FetchGenres(ctx context.Context, mediaType models.MediaType) ([]models.Genre, error) {
	return fetchGenreList(ctx, c.api, mediaType)
}

// Genres lists the catalog genres for one media kind, empty on failure
func (c *Client) Genres(ctx context.Context, mediaType models.MediaType) []models.Genre {
	genres, err := c.FetchGenres(ctx, mediaType)
	return fetch.OrEmpty(c.degrader, "tmdb.genres", genres, err)
}

func (c *Client) fetchPage(ctx context.Context, path string, params fetch.Params) ([]titleDTO, error) {
	var page pageDTO
	if err := c.api.get(ctx, path, params, fetch.CacheFor(c.ttl), &page); err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", path, err)
	}
	return page.Results, nil
}

func (c *Client) fetchDetail(ctx context.Context, mediaType models.MediaType, id string) (*titleDTO, error) {
	id = strings.TrimSpace(id)
	path := fmt.Sprintf("/%s/%s", kindPath(mediaType), url.PathEscape(id))
	if id == "" {
		return nil, &fetch.NotFoundError{Path: path, Resource: string(mediaType)}
	}

	var payload titleDTO
	params := fetch.Params{"append_to_response": "credits,videos"}
	if err := c.api.get(ctx, path, params, fetch.CacheFor(c.ttl), &payload); err != nil {
		return nil, fmt.Errorf("failed to get %s %s: %w", mediaType, id, err)
	}
	return &payload, nil
}

func (c *Client) movies(ctx context.Context, results []titleDTO) []models.Movie {
	movies := make([]models.Movie, 0, len(results))
	for _, r := range results {
		movies = append(movies, mapMovie(r, c.genres.ResolveAll(ctx, r.GenreIDs), c.placeholder))
	}
	return movies
}

func (c *Client) shows(ctx context.Context, results []titleDTO) []models.Show {
	shows := make([]models.Show, 0, len(results))
	for _, r := range results {
		shows = append(shows, mapShow(r, c.genres.ResolveAll(ctx, r.GenreIDs), c.placeholder))
	}
	return shows
}
