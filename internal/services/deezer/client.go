package deezer

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/amaumene/mediagate/internal/config"
	"github.com/amaumene/mediagate/internal/models"
	"github.com/amaumene/mediagate/internal/services/fetch"
	"github.com/sirupsen/logrus"
)

const (
	// BaseURL is the Deezer public API root
	BaseURL = "https://api.deezer.com"

	// noDataCode is the envelope code Deezer uses for unknown ids
	noDataCode = 800

	topTracksLimit = 10
)

// Client handles communication with the Deezer API. It does not enumerate
// endpoints; callers pass the path, and List/Detail decide how failures
// degrade.
type Client struct {
	http        *fetch.Client
	degrader    *fetch.Degrader
	placeholder string
	ttl         time.Duration
	logger      *logrus.Logger
}

// NewClient creates a new Deezer client
func NewClient(http *fetch.Client, degrader *fetch.Degrader, cfg *config.Config, logger *logrus.Logger) *Client {
	return &Client{
		http:        http,
		degrader:    degrader,
		placeholder: cfg.PlaceholderImageURL,
		ttl:         cfg.CacheTTL,
		logger:      logger,
	}
}

// FetchList gets a {"data":[...]} payload from path and decodes each entry.
// Entries of an unknown type are skipped.
func (c *Client) FetchList(ctx context.Context, path string, params fetch.Params) ([]models.MusicItem, error) {
	var payload listDTO
	if err := c.get(ctx, path, params, &payload); err != nil {
		return nil, err
	}

	items := make([]models.MusicItem, 0, len(payload.Data))
	for _, d := range payload.Data {
		item, err := mapItem(d, c.placeholder)
		if err != nil {
			c.logger.WithFields(logrus.Fields{
				"path": path,
				"id":   d.ID,
			}).WithError(err).Debug("Skipping music item")
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// List is FetchList degraded to an empty slice on any failure
func (c *Client) List(ctx context.Context, path string, params fetch.Params) []models.MusicItem {
	items, err := c.FetchList(ctx, path, params)
	return fetch.OrEmpty(c.degrader, "deezer.list", items, err)
}

// FetchDetail gets a single object from path
func (c *Client) FetchDetail(ctx context.Context, path string, params fetch.Params) (models.MusicItem, error) {
	var payload itemDTO
	if err := c.get(ctx, path, params, &payload); err != nil {
		return nil, err
	}

	item, err := mapItem(payload, c.placeholder)
	if err != nil {
		return nil, &fetch.UpstreamAPIError{Path: path, Message: err.Error()}
	}
	return item, nil
}

// Detail is FetchDetail degraded to nil on any failure
func (c *Client) Detail(ctx context.Context, path string, params fetch.Params) models.MusicItem {
	item, err := c.FetchDetail(ctx, path, params)
	if err != nil {
		c.degrader.Report("deezer.detail", err)
		return nil
	}
	return item
}

// Chart returns one chart carousel. Genres come from the genre index.
func (c *Client) Chart(ctx context.Context, category models.ChartCategory) []models.MusicItem {
	if category == models.ChartGenres {
		return c.List(ctx, "/genre", nil)
	}
	return c.List(ctx, "/chart/0/"+string(category), nil)
}

// Search returns items of kind matching query
func (c *Client) Search(ctx context.Context, kind models.MusicKind, query string) []models.MusicItem {
	query = strings.TrimSpace(query)
	if query == "" || !kind.Searchable() {
		return []models.MusicItem{}
	}
	return c.List(ctx, "/search/"+string(kind), fetch.Params{"q": query})
}

// Album returns the album with its track listing, nil on failure
func (c *Client) Album(ctx context.Context, id string) *models.Album {
	album, ok := c.Detail(ctx, "/album/"+url.PathEscape(id), nil).(models.Album)
	if !ok {
		return nil
	}
	return &album
}

// Artist returns the artist without top tracks, nil on failure
func (c *Client) Artist(ctx context.Context, id string) *models.Artist {
	artist, ok := c.Detail(ctx, "/artist/"+url.PathEscape(id), nil).(models.Artist)
	if !ok {
		return nil
	}
	return &artist
}

// ArtistTopTracks returns the artist's most played tracks, empty on failure
func (c *Client) ArtistTopTracks(ctx context.Context, id string) []models.Track {
	items := c.List(ctx, fmt.Sprintf("/artist/%s/top", url.PathEscape(id)), fetch.Params{"limit": fmt.Sprint(topTracksLimit)})
	tracks := make([]models.Track, 0, len(items))
	for _, item := range items {
		if t, ok := item.(models.Track); ok {
			tracks = append(tracks, t)
		}
	}
	return tracks
}

func (c *Client) get(ctx context.Context, path string, params fetch.Params, out any) error {
	err := c.http.Get(ctx, path, params, fetch.CacheFor(c.ttl), out)
	if err == nil {
		return nil
	}

	var apiErr *fetch.UpstreamAPIError
	if errors.As(err, &apiErr) && apiErr.Code == noDataCode {
		return &fetch.NotFoundError{Path: path, Resource: apiErr.Message}
	}
	return fmt.Errorf("failed to get %s: %w", path, err)
}
