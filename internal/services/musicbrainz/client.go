package musicbrainz

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
	"github.com/amaumene/mediagate/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/iter"
)

const (
	// BaseURL is the MusicBrainz web service root
	BaseURL = "https://musicbrainz.org/ws/2"
	// CoverArtBaseURL is the Cover Art Archive root
	CoverArtBaseURL = "https://coverartarchive.org"

	appName    = "MediaGate"
	appVersion = "1.0"

	maxRecordings = 20
	cacheTTL      = time.Hour
)

// UserAgent builds the client signature MusicBrainz asks every caller to send
func UserAgent(contact string) string {
	return fmt.Sprintf("%s/%s ( %s )", appName, appVersion, contact)
}

// Headers returns the default headers for both MusicBrainz fetch clients
func Headers(contact string) map[string]string {
	return map[string]string{"User-Agent": UserAgent(contact)}
}

// Client searches recordings and enriches them with cover art
type Client struct {
	recordings  *fetch.Client
	covers      *fetch.Client
	degrader    *fetch.Degrader
	placeholder string
	logger      *logrus.Logger
}

// NewClient creates a new MusicBrainz client. Both fetch clients must carry
// the Headers signature.
func NewClient(recordings, covers *fetch.Client, degrader *fetch.Degrader, cfg *config.Config, logger *logrus.Logger) *Client {
	return &Client{
		recordings:  recordings,
		covers:      covers,
		degrader:    degrader,
		placeholder: cfg.PlaceholderImageURL,
		logger:      logger,
	}
}

// FetchSearchRecordings runs a free-text recording search and resolves cover
// art for every hit concurrently. A failed cover lookup only affects its own
// hit, which gets the placeholder.
func (c *Client) FetchSearchRecordings(ctx context.Context, query string) ([]models.SearchedTrack, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.SearchedTrack{}, nil
	}

	var payload searchDTO
	params := fetch.Params{
		"query": query,
		"fmt":   "json",
		"limit": strconv.Itoa(maxRecordings),
	}
	if err := c.recordings.Get(ctx, "/recording", params, fetch.CacheFor(cacheTTL), &payload); err != nil {
		return nil, fmt.Errorf("failed to search recordings for %q: %w", query, err)
	}

	recordings := payload.Recordings
	if len(recordings) > maxRecordings {
		recordings = recordings[:maxRecordings]
	}

	tracks := iter.Map(recordings, func(r *recordingDTO) models.SearchedTrack {
		track := mapRecording(*r)
		track.CoverURL = c.coverFor(ctx, r)
		return track
	})
	return tracks, nil
}

// SearchRecordings is FetchSearchRecordings degraded to an empty slice
func (c *Client) SearchRecordings(ctx context.Context, query string) []models.SearchedTrack {
	tracks, err := c.FetchSearchRecordings(ctx, query)
	return fetch.OrEmpty(c.degrader, "musicbrainz.search_recordings", tracks, err)
}

// FetchCoverArt returns the front cover of a release
func (c *Client) FetchCoverArt(ctx context.Context, releaseID string) (string, error) {
	path := "/release/" + url.PathEscape(releaseID)
	var payload coverArtDTO
	if err := c.covers.Get(ctx, path, nil, fetch.CacheFor(cacheTTL), &payload); err != nil {
		return "", fmt.Errorf("failed to get cover art for %s: %w", releaseID, err)
	}

	for _, img := range payload.Images {
		if !img.Front {
			continue
		}
		for _, size := range []string{"500", "large", "250", "small"} {
			if thumb := img.Thumbnails[size]; thumb != "" {
				return utils.UpgradeScheme(thumb), nil
			}
		}
		if img.Image != "" {
			return utils.UpgradeScheme(img.Image), nil
		}
	}
	return "", &fetch.NotFoundError{Path: path, Resource: "front cover"}
}

func (c *Client) coverFor(ctx context.Context, r *recordingDTO) string {
	if len(r.Releases) == 0 {
		return c.placeholder
	}

	cover, err := c.FetchCoverArt(ctx, r.Releases[0].ID)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"recording": r.ID,
			"release":   r.Releases[0].ID,
			"kind":      fetch.KindOf(err),
		}).Debug("No cover art, using placeholder")
		return c.placeholder
	}
	return cover
}

func mapRecording(r recordingDTO) models.SearchedTrack {
	var artist strings.Builder
	for _, credit := range r.ArtistCredit {
		artist.WriteString(credit.Name)
		artist.WriteString(credit.JoinPhrase)
	}

	track := models.SearchedTrack{
		ID:          r.ID,
		Title:       r.Title,
		Artist:      strings.TrimSpace(artist.String()),
		ReleaseDate: r.FirstReleaseDate,
	}
	if len(r.Releases) > 0 {
		track.Release = r.Releases[0].Title
		if track.ReleaseDate == "" {
			track.ReleaseDate = r.Releases[0].Date
		}
	}
	return track
}
