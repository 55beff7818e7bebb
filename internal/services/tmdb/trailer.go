package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/amaumene/mediagate/internal/models"
	"github.com/amaumene/mediagate/internal/services/fetch"
	"github.com/sirupsen/logrus"
)

// FetchTrailerByIMDB finds the title carrying imdbID and returns its YouTube
// trailer URL. TV results take precedence over movie results.
func (c *Client) FetchTrailerByIMDB(ctx context.Context, imdbID string) (string, error) {
	imdbID = strings.TrimSpace(imdbID)
	findPath := "/find/" + url.PathEscape(imdbID)
	if !strings.HasPrefix(imdbID, "tt") {
		return "", &fetch.NotFoundError{Path: findPath, Resource: "imdb id " + imdbID}
	}

	var found findDTO
	params := fetch.Params{"external_source": "imdb_id"}
	if err := c.api.get(ctx, findPath, params, fetch.CacheFor(c.ttl), &found); err != nil {
		return "", fmt.Errorf("failed to find %s: %w", imdbID, err)
	}

	var (
		mediaType models.MediaType
		id        int64
	)
	switch {
	case len(found.TVResults) > 0:
		mediaType, id = models.MediaTypeShow, found.TVResults[0].ID
	case len(found.MovieResults) > 0:
		mediaType, id = models.MediaTypeMovie, found.MovieResults[0].ID
	default:
		return "", &fetch.NotFoundError{Path: findPath, Resource: "imdb id " + imdbID}
	}

	videosPath := fmt.Sprintf("/%s/%d/videos", kindPath(mediaType), id)
	var videos videosDTO
	if err := c.api.get(ctx, videosPath, nil, fetch.CacheFor(c.ttl), &videos); err != nil {
		return "", fmt.Errorf("failed to get videos for %s: %w", imdbID, err)
	}

	trailer := pickTrailer(videos.Results)
	if trailer == "" {
		return "", &fetch.NotFoundError{Path: videosPath, Resource: "trailer"}
	}

	c.logger.WithFields(logrus.Fields{
		"imdb_id":    imdbID,
		"media_type": mediaType,
		"tmdb_id":    id,
	}).Debug("Resolved trailer by IMDb id")
	return trailer, nil
}

// TrailerByIMDB returns the trailer URL for imdbID, or "" when there is none.
// A missing trailer is common and is not logged.
func (c *Client) TrailerByIMDB(ctx context.Context, imdbID string) string {
	trailer, err := c.FetchTrailerByIMDB(ctx, imdbID)
	if err != nil {
		c.quiet.Report("tmdb.trailer_by_imdb", err)
		return ""
	}
	return trailer
}
