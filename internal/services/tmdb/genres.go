package tmdb

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/amaumene/mediagate/internal/models"
	"github.com/amaumene/mediagate/internal/services/fetch"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
	"golang.org/x/sync/singleflight"
)

const (
	genreCacheTTL        = 24 * time.Hour
	genrePopulateTimeout = 10 * time.Second
)

// GenreDirectory maps TMDB genre ids to display names.
// It is populated once per process, on first use, and never invalidated.
// A failed population leaves an empty directory in place rather than
// retrying on every lookup.
type GenreDirectory struct {
	api    *api
	logger *logrus.Logger

	group singleflight.Group
	names atomic.Pointer[map[int]string]
}

// NewGenreDirectory creates an unpopulated directory backed by http
func NewGenreDirectory(http *fetch.Client, apiKey, language string, logger *logrus.Logger) *GenreDirectory {
	return &GenreDirectory{
		api:    &api{http: http, apiKey: apiKey, language: language},
		logger: logger,
	}
}

// Resolve returns the display name for id
func (d *GenreDirectory) Resolve(ctx context.Context, id int) (string, bool) {
	name, ok := d.load(ctx)[id]
	return name, ok
}

// ResolveAll maps ids to names in order, dropping unknown ids and duplicate names
func (d *GenreDirectory) ResolveAll(ctx context.Context, ids []int) []string {
	names := d.load(ctx)
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		name, ok := names[id]
		if !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// Len returns the number of known genres, populating the directory if needed
func (d *GenreDirectory) Len(ctx context.Context) int {
	return len(d.load(ctx))
}

func (d *GenreDirectory) load(ctx context.Context) map[int]string {
	if names := d.names.Load(); names != nil {
		return *names
	}

	v, _, _ := d.group.Do("genres", func() (any, error) {
		if names := d.names.Load(); names != nil {
			return *names, nil
		}
		names := d.populate(ctx)
		d.names.Store(&names)
		return names, nil
	})
	return v.(map[int]string)
}

// populate fetches the movie and tv genre lists concurrently. A list that
// fails contributes nothing; the directory is empty only if both fail.
func (d *GenreDirectory) populate(ctx context.Context) map[int]string {
	// Population outlives the request that triggered it
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), genrePopulateTimeout)
	defer cancel()

	var (
		mu    sync.Mutex
		names = make(map[int]string)
		wg    conc.WaitGroup
	)

	for _, mediaType := range []models.MediaType{models.MediaTypeMovie, models.MediaTypeShow} {
		mediaType := mediaType
		wg.Go(func() {
			genres, err := fetchGenreList(ctx, d.api, mediaType)
			if err != nil {
				d.logger.WithError(err).WithField("media_type", mediaType).
					Warn("Failed to fetch genre list, genres will be missing")
				return
			}
			mu.Lock()
			defer mu.Unlock()
			for _, g := range genres {
				if _, exists := names[g.ID]; !exists {
					names[g.ID] = g.Name
				}
			}
		})
	}
	wg.Wait()

	d.logger.WithField("count", len(names)).Debug("Genre directory populated")
	return names
}

func fetchGenreList(ctx context.Context, a *api, mediaType models.MediaType) ([]models.Genre, error) {
	var payload genreListDTO
	path := fmt.Sprintf("/genre/%s/list", kindPath(mediaType))
	if err := a.get(ctx, path, nil, fetch.CacheFor(genreCacheTTL), &payload); err != nil {
		return nil, fmt.Errorf("failed to get %s genres: %w", mediaType, err)
	}

	genres := make([]models.Genre, 0, len(payload.Genres))
	for _, g := range payload.Genres {
		genres = append(genres, models.Genre{ID: g.ID, Name: g.Name})
	}
	return genres, nil
}
