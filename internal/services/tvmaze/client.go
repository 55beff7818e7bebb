package tvmaze

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/amaumene/mediagate/internal/config"
	"github.com/amaumene/mediagate/internal/models"
	"github.com/amaumene/mediagate/internal/services/fetch"
	"github.com/sirupsen/logrus"
)

const (
	// BaseURL is the TVmaze API root
	BaseURL = "https://api.tvmaze.com"

	maxResults = 20
)

// TrailerFinder looks up a trailer URL by IMDb id. Implementations return
// "" when there is none.
type TrailerFinder interface {
	TrailerByIMDB(ctx context.Context, imdbID string) string
}

// Client handles communication with the TVmaze API
type Client struct {
	http        *fetch.Client
	trailers    TrailerFinder
	degrader    *fetch.Degrader
	placeholder string
	ttl         time.Duration
	logger      *logrus.Logger
}

// NewClient creates a new TVmaze client
func NewClient(http *fetch.Client, trailers TrailerFinder, degrader *fetch.Degrader, cfg *config.Config, logger *logrus.Logger) *Client {
	return &Client{
		http:        http,
		trailers:    trailers,
		degrader:    degrader,
		placeholder: cfg.PlaceholderImageURL,
		ttl:         cfg.CacheTTL,
		logger:      logger,
	}
}

// FetchPopularShows returns the 20 best rated shows of the first index page
func (c *Client) FetchPopularShows(ctx context.Context) ([]models.Show, error) {
	var payload []showDTO
	if err := c.http.Get(ctx, "/shows", fetch.Params{"page": "0"}, fetch.CacheFor(c.ttl), &payload); err != nil {
		return nil, fmt.Errorf("failed to get shows: %w", err)
	}

	sort.SliceStable(payload, func(i, j int) bool {
		return rating(payload[i]) > rating(payload[j])
	})
	if len(payload) > maxResults {
		payload = payload[:maxResults]
	}

	shows := make([]models.Show, 0, len(payload))
	for _, s := range payload {
		shows = append(shows, mapShow(s, c.placeholder))
	}
	return shows, nil
}

// PopularShows returns the best rated shows, empty on failure
func (c *Client) PopularShows(ctx context.Context) []models.Show {
	shows, err := c.FetchPopularShows(ctx)
	return fetch.OrEmpty(c.degrader, "tvmaze.popular_shows", shows, err)
}

// FetchSearchShows returns up to 20 shows ranked by the upstream relevance score
func (c *Client) FetchSearchShows(ctx context.Context, query string) ([]models.Show, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Show{}, nil
	}

	var hits []searchHitDTO
	if err := c.http.Get(ctx, "/search/shows", fetch.Params{"q": query}, fetch.CacheFor(c.ttl), &hits); err != nil {
		return nil, fmt.Errorf("failed to search shows for %q: %w", query, err)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > maxResults {
		hits = hits[:maxResults]
	}

	shows := make([]models.Show, 0, len(hits))
	for _, h := range hits {
		shows = append(shows, mapShow(h.Show, c.placeholder))
	}
	return shows, nil
}

// SearchShows searches shows by title, empty on failure
func (c *Client) SearchShows(ctx context.Context, query string) []models.Show {
	shows, err := c.FetchSearchShows(ctx, query)
	return fetch.OrEmpty(c.degrader, "tvmaze.search_shows", shows, err)
}

// FetchShowDetail returns the show with its episodes, cast and seasons
// embedded, plus a trailer resolved through the IMDb cross reference
func (c *Client) FetchShowDetail(ctx context.Context, id string) (*models.Show, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, &fetch.NotFoundError{Path: "/shows/", Resource: "show"}
	}

	// embed[] repeats, so it rides on the path rather than in Params
	path := "/shows/" + url.PathEscape(id) + "?embed[]=episodes&embed[]=cast&embed[]=seasons"
	var payload showDTO
	if err := c.http.Get(ctx, path, nil, fetch.CacheFor(c.ttl), &payload); err != nil {
		return nil, fmt.Errorf("failed to get show %s: %w", id, err)
	}

	show := mapShow(payload, c.placeholder)
	if imdb := payload.Externals.IMDB; imdb != nil && *imdb != "" && c.trailers != nil {
		show.TrailerURL = c.trailers.TrailerByIMDB(ctx, *imdb)
	}

	c.logger.WithFields(logrus.Fields{
		"show_id":  id,
		"episodes": len(show.Episodes),
		"seasons":  len(show.Seasons),
	}).Debug("Fetched show detail")
	return &show, nil
}

// ShowDetail returns the full show, nil on failure
func (c *Client) ShowDetail(ctx context.Context, id string) *models.Show {
	show, err := c.FetchShowDetail(ctx, id)
	return fetch.OrNil(c.degrader, "tvmaze.show_detail", show, err)
}
