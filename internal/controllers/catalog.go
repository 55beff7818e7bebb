package controllers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/amaumene/mediagate/internal/config"
	"github.com/amaumene/mediagate/internal/models"
	"github.com/amaumene/mediagate/internal/services/deezer"
	"github.com/amaumene/mediagate/internal/services/justwatch"
	"github.com/amaumene/mediagate/internal/services/musicbrainz"
	"github.com/amaumene/mediagate/internal/services/tmdb"
	"github.com/amaumene/mediagate/internal/services/tvmaze"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
)

// LibraryIndex reports which catalog titles the user owns. Ids are only
// comparable within one source.
type LibraryIndex interface {
	Lookup(source models.Source, mediaType models.MediaType, externalIDs []string) (map[string]uint, error)
}

// MovieBundle is everything the movie page shows
type MovieBundle struct {
	Movie     *models.Movie              `json:"movie"`
	Similar   []models.Movie             `json:"similar"`
	Providers []models.StreamingProvider `json:"providers"`
}

// Catalog is the aggregation facade over every catalog client. None of its
// methods fail: lists are never nil and details are nil when unavailable.
type Catalog struct {
	tmdb        *tmdb.Client
	tvmaze      *tvmaze.Client
	deezer      *deezer.Client
	musicbrainz *musicbrainz.Client
	justwatch   *justwatch.Client
	library     LibraryIndex
	placeholder string
	now         func() time.Time
	logger      *logrus.Logger
}

// NewCatalog creates the facade. library may be nil, in which case no
// library ids are stamped.
func NewCatalog(
	tmdbClient *tmdb.Client,
	tvmazeClient *tvmaze.Client,
	deezerClient *deezer.Client,
	musicbrainzClient *musicbrainz.Client,
	justwatchClient *justwatch.Client,
	library LibraryIndex,
	cfg *config.Config,
	logger *logrus.Logger,
) *Catalog {
	return &Catalog{
		tmdb:        tmdbClient,
		tvmaze:      tvmazeClient,
		deezer:      deezerClient,
		musicbrainz: musicbrainzClient,
		justwatch:   justwatchClient,
		library:     library,
		placeholder: cfg.PlaceholderImageURL,
		now:         time.Now,
		logger:      logger,
	}
}

// TrendingMovies lists this week's trending movies
func (c *Catalog) TrendingMovies(ctx context.Context) []models.Movie {
	return c.finishMovies(c.tmdb.TrendingMovies(ctx))
}

// DiscoverMovies lists movies matching filter
func (c *Catalog) DiscoverMovies(ctx context.Context, filter tmdb.DiscoverFilter) []models.Movie {
	return c.finishMovies(c.tmdb.DiscoverMovies(ctx, filter))
}

// SearchMovies searches movies by title
func (c *Catalog) SearchMovies(ctx context.Context, query string) []models.Movie {
	return c.finishMovies(c.tmdb.SearchMovies(ctx, query))
}

// SimilarMovies lists movies similar to id
func (c *Catalog) SimilarMovies(ctx context.Context, id string) []models.Movie {
	return c.finishMovies(c.tmdb.SimilarMovies(ctx, id))
}

// MovieDetail returns the full movie or nil
func (c *Catalog) MovieDetail(ctx context.Context, id string) *models.Movie {
	movie := c.tmdb.MovieDetail(ctx, id)
	if movie == nil {
		return nil
	}
	finished := c.finishMovies([]models.Movie{*movie})
	return &finished[0]
}

// Genres lists the film or TV genres
func (c *Catalog) Genres(ctx context.Context, mediaType models.MediaType) []models.Genre {
	return c.tmdb.Genres(ctx, mediaType)
}

// TrendingShows lists this week's trending shows
func (c *Catalog) TrendingShows(ctx context.Context) []models.Show {
	return c.finishShows(models.SourceTMDB, c.tmdb.TrendingShows(ctx))
}

// DiscoverAnime lists Japanese animated series
func (c *Catalog) DiscoverAnime(ctx context.Context, page int) []models.Show {
	return c.finishShows(models.SourceTMDB, c.tmdb.DiscoverAnime(ctx, page))
}

// PopularShows lists the best rated shows of the TV schedule catalog
func (c *Catalog) PopularShows(ctx context.Context) []models.Show {
	return c.finishShows(models.SourceTVMaze, c.tvmaze.PopularShows(ctx))
}

// SearchShows searches the TV schedule catalog
func (c *Catalog) SearchShows(ctx context.Context, query string) []models.Show {
	return c.finishShows(models.SourceTVMaze, c.tvmaze.SearchShows(ctx, query))
}

// ShowDetail returns the full show with episodes, cast and seasons, or nil
func (c *Catalog) ShowDetail(ctx context.Context, id string) *models.Show {
	show := c.tvmaze.ShowDetail(ctx, id)
	if show == nil {
		return nil
	}
	finished := c.finishShows(models.SourceTVMaze, []models.Show{*show})
	return &finished[0]
}

// MusicCharts fetches every chart carousel concurrently
func (c *Catalog) MusicCharts(ctx context.Context) models.MusicCharts {
	var (
		mu     sync.Mutex
		charts = make(models.MusicCharts, len(models.ChartCategories))
		wg     conc.WaitGroup
	)

	for _, category := range models.ChartCategories {
		category := category
		wg.Go(func() {
			items := c.deezer.Chart(ctx, category)
			mu.Lock()
			defer mu.Unlock()
			charts[category] = items
		})
	}
	wg.Wait()

	return charts
}

// SearchMusic searches the music catalog for items of kind
func (c *Catalog) SearchMusic(ctx context.Context, kind models.MusicKind, query string) []models.MusicItem {
	return c.deezer.Search(ctx, kind, query)
}

// AlbumDetail returns the album with its tracks, or nil
func (c *Catalog) AlbumDetail(ctx context.Context, id string) *models.Album {
	return c.deezer.Album(ctx, id)
}

// ArtistDetail returns the artist with top tracks, or nil. Both are fetched
// concurrently.
func (c *Catalog) ArtistDetail(ctx context.Context, id string) *models.Artist {
	var (
		artist *models.Artist
		top    []models.Track
		wg     conc.WaitGroup
	)
	wg.Go(func() { artist = c.deezer.Artist(ctx, id) })
	wg.Go(func() { top = c.deezer.ArtistTopTracks(ctx, id) })
	wg.Wait()

	if artist == nil {
		return nil
	}
	artist.TopTracks = top
	return artist
}

// NewReleases lists recordings first released this year, with cover art
func (c *Catalog) NewReleases(ctx context.Context) []models.SearchedTrack {
	query := fmt.Sprintf("firstreleasedate:%d", c.now().Year())
	return c.musicbrainz.SearchRecordings(ctx, query)
}

// SearchRecordings searches the recording database, with cover art
func (c *Catalog) SearchRecordings(ctx context.Context, query string) []models.SearchedTrack {
	return c.musicbrainz.SearchRecordings(ctx, query)
}

// WatchProviders lists the subscription services carrying a title
func (c *Catalog) WatchProviders(ctx context.Context, title string, mediaType models.MediaType, year int) []models.StreamingProvider {
	return c.justwatch.Providers(ctx, justwatch.Query{Title: title, Type: mediaType, Year: year})
}

// MovieDetailBundle fetches the movie and similar titles concurrently, then
// resolves providers for the movie's title and year. Movie is nil when the
// detail is unavailable.
func (c *Catalog) MovieDetailBundle(ctx context.Context, id string) MovieBundle {
	bundle := MovieBundle{Providers: []models.StreamingProvider{}}

	var wg conc.WaitGroup
	wg.Go(func() { bundle.Movie = c.MovieDetail(ctx, id) })
	wg.Go(func() { bundle.Similar = c.SimilarMovies(ctx, id) })
	wg.Wait()

	if bundle.Movie != nil {
		bundle.Providers = c.WatchProviders(ctx, bundle.Movie.Title, models.MediaTypeMovie, bundle.Movie.Year)
	}
	return bundle
}

func (c *Catalog) finishMovies(movies []models.Movie) []models.Movie {
	if movies == nil {
		return []models.Movie{}
	}

	owned := c.lookup(models.SourceTMDB, models.MediaTypeMovie, len(movies), func(i int) string { return movies[i].ID })
	for i := range movies {
		movies[i].EnsureImages(c.placeholder)
		if libraryID, ok := owned[movies[i].ID]; ok {
			movies[i].LibraryID = &libraryID
		}
	}
	return movies
}

// finishShows stamps library ids from source's namespace. TMDB and TVmaze
// show ids overlap numerically.
func (c *Catalog) finishShows(source models.Source, shows []models.Show) []models.Show {
	if shows == nil {
		return []models.Show{}
	}

	owned := c.lookup(source, models.MediaTypeShow, len(shows), func(i int) string { return shows[i].ID })
	for i := range shows {
		shows[i].EnsureImages(c.placeholder)
		if libraryID, ok := owned[shows[i].ID]; ok {
			shows[i].LibraryID = &libraryID
		}
	}
	return shows
}

// lookup asks the library which of n ids are owned. Failures only log.
func (c *Catalog) lookup(source models.Source, mediaType models.MediaType, n int, idAt func(int) string) map[string]uint {
	if c.library == nil || n == 0 {
		return nil
	}

	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, idAt(i))
	}

	owned, err := c.library.Lookup(source, mediaType, ids)
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"source":     source,
			"media_type": mediaType,
		}).Warn("Library lookup failed, titles left unstamped")
		return nil
	}
	return owned
}
