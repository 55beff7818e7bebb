package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/amaumene/mediagate/internal/config"
	"github.com/amaumene/mediagate/internal/models"
	"github.com/amaumene/mediagate/internal/services/deezer"
	"github.com/amaumene/mediagate/internal/services/fetch"
	"github.com/amaumene/mediagate/internal/services/justwatch"
	"github.com/amaumene/mediagate/internal/services/musicbrainz"
	"github.com/amaumene/mediagate/internal/services/tmdb"
	"github.com/amaumene/mediagate/internal/services/tvmaze"
	"github.com/amaumene/mediagate/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPlaceholder = "https://placehold.test/none.png"

// upstreams serves every catalog from one server, each under its own prefix
type upstreams struct {
	mu      sync.Mutex
	routes  map[string]string // "/tmdb/movie/1" -> body
	queries map[string]string
}

func (u *upstreams) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	body, ok := u.routes[r.URL.Path]
	u.queries[r.URL.Path] = r.URL.RawQuery
	u.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Write([]byte(body))
}

func (u *upstreams) query(path string) string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.queries[path]
}

type fakeLibrary struct {
	owned map[string]uint
	err   error
}

func (f *fakeLibrary) Lookup(source models.Source, mediaType models.MediaType, ids []string) (map[string]uint, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]uint)
	for _, id := range ids {
		if libraryID, ok := f.owned[string(source)+":"+string(mediaType)+":"+id]; ok {
			out[id] = libraryID
		}
	}
	return out, nil
}

func newTestCatalog(t *testing.T, routes map[string]string, library LibraryIndex) (*Catalog, *upstreams) {
	t.Helper()
	up := &upstreams{routes: routes, queries: make(map[string]string)}
	server := httptest.NewServer(up)
	t.Cleanup(server.Close)

	logger := utils.NullLogger()
	cfg := &config.Config{
		TMDBAPIKey:          "key",
		TMDBLanguage:        "en-US",
		JustWatchLocale:     "en_US",
		PlaceholderImageURL: testPlaceholder,
		CacheTTL:            time.Minute,
	}
	noRetry := uint64(0)
	client := func(name string) *fetch.Client {
		return fetch.NewClient(fetch.Options{Name: name, BaseURL: server.URL + "/" + name, MaxRetries: &noRetry, Logger: logger})
	}
	degrader := fetch.NewDegrader(logger, nil)

	tmdbHTTP := client("tmdb")
	genres := tmdb.NewGenreDirectory(tmdbHTTP, cfg.TMDBAPIKey, cfg.TMDBLanguage, logger)
	tmdbClient := tmdb.NewClient(tmdbHTTP, genres, degrader, cfg, logger)
	tvmazeClient := tvmaze.NewClient(client("tvmaze"), tmdbClient, degrader, cfg, logger)
	deezerClient := deezer.NewClient(client("deezer"), degrader, cfg, logger)
	mbClient := musicbrainz.NewClient(client("musicbrainz"), client("coverart"), degrader, cfg, logger)
	jwHTTP := client("justwatch")
	jwClient := justwatch.NewClient(jwHTTP, justwatch.NewDirectory(jwHTTP, cfg.JustWatchLocale, logger), degrader, nil, cfg, logger)

	catalog := NewCatalog(tmdbClient, tvmazeClient, deezerClient, mbClient, jwClient, library, cfg, logger)
	return catalog, up
}

func TestListsAreNeverNil(t *testing.T) {
	catalog, _ := newTestCatalog(t, map[string]string{}, nil)
	ctx := context.Background()

	assert.NotNil(t, catalog.TrendingMovies(ctx))
	assert.NotNil(t, catalog.DiscoverMovies(ctx, tmdb.DiscoverFilter{GenreID: 28}))
	assert.NotNil(t, catalog.SearchMovies(ctx, "matrix"))
	assert.NotNil(t, catalog.SimilarMovies(ctx, "603"))
	assert.NotNil(t, catalog.Genres(ctx, models.MediaTypeMovie))
	assert.NotNil(t, catalog.TrendingShows(ctx))
	assert.NotNil(t, catalog.DiscoverAnime(ctx, 1))
	assert.NotNil(t, catalog.PopularShows(ctx))
	assert.NotNil(t, catalog.SearchShows(ctx, "Breaking"))
	assert.NotNil(t, catalog.SearchMusic(ctx, models.MusicKindTrack, "daft punk"))
	assert.NotNil(t, catalog.NewReleases(ctx))
	assert.NotNil(t, catalog.WatchProviders(ctx, "Inception", models.MediaTypeMovie, 2010))

	assert.Nil(t, catalog.MovieDetail(ctx, "603"))
	assert.Nil(t, catalog.ShowDetail(ctx, "169"))
	assert.Nil(t, catalog.AlbumDetail(ctx, "302127"))
	assert.Nil(t, catalog.ArtistDetail(ctx, "27"))

	charts := catalog.MusicCharts(ctx)
	for _, category := range models.ChartCategories {
		items, ok := charts[category]
		assert.True(t, ok, category)
		assert.NotNil(t, items, category)
	}
}

func TestTrendingMoviesStampsLibraryIDs(t *testing.T) {
	routes := map[string]string{
		"/tmdb/genre/movie/list":    `{"genres":[{"id":28,"name":"Action"}]}`,
		"/tmdb/genre/tv/list":       `{"genres":[]}`,
		"/tmdb/trending/movie/week": `{"results":[{"id":603,"title":"The Matrix","genre_ids":[28]},{"id":604,"title":"The Matrix Reloaded"}]}`,
	}
	library := &fakeLibrary{owned: map[string]uint{"tmdb:movie:603": 7, "tmdb:show:604": 9}}
	catalog, _ := newTestCatalog(t, routes, library)

	movies := catalog.TrendingMovies(context.Background())
	require.Len(t, movies, 2)
	require.NotNil(t, movies[0].LibraryID)
	assert.Equal(t, uint(7), *movies[0].LibraryID)
	assert.Nil(t, movies[1].LibraryID, "show entries do not stamp movies")
	assert.Equal(t, []string{"Action"}, movies[0].Genres)
	for _, m := range movies {
		assert.Equal(t, testPlaceholder, m.PosterURL)
		assert.Equal(t, testPlaceholder, m.BackdropURL)
	}
}

func TestShowStampingKeepsSourcesApart(t *testing.T) {
	routes := map[string]string{
		"/tmdb/genre/movie/list": `{"genres":[]}`,
		"/tmdb/genre/tv/list":    `{"genres":[]}`,
		"/tmdb/trending/tv/week": `{"results":[{"id":1399,"name":"Game of Thrones"}]}`,
		"/tvmaze/shows":          `[{"id":1399,"name":"Some Unrelated Show","rating":{"average":7.5}},{"id":82,"name":"Game of Thrones","rating":{"average":8.9}}]`,
	}
	library := &fakeLibrary{owned: map[string]uint{"tmdb:show:1399": 7, "tvmaze:show:82": 11}}
	catalog, _ := newTestCatalog(t, routes, library)
	ctx := context.Background()

	trending := catalog.TrendingShows(ctx)
	require.Len(t, trending, 1)
	require.NotNil(t, trending[0].LibraryID)
	assert.Equal(t, uint(7), *trending[0].LibraryID)

	popular := catalog.PopularShows(ctx)
	require.Len(t, popular, 2)
	for _, show := range popular {
		switch show.ID {
		case "1399":
			assert.Nil(t, show.LibraryID, "a TMDB id does not stamp the TVmaze show sharing it")
		case "82":
			require.NotNil(t, show.LibraryID)
			assert.Equal(t, uint(11), *show.LibraryID)
		}
	}
}

func TestLibraryFailureLeavesTitlesUnstamped(t *testing.T) {
	routes := map[string]string{
		"/tvmaze/search/shows": `[{"score":0.9,"show":{"id":169,"name":"Breaking Bad"}}]`,
	}
	catalog, _ := newTestCatalog(t, routes, &fakeLibrary{err: errors.New("database is locked")})

	shows := catalog.SearchShows(context.Background(), "Breaking")
	require.Len(t, shows, 1)
	assert.Nil(t, shows[0].LibraryID)
	assert.Equal(t, testPlaceholder, shows[0].PosterURL)
}

func TestMusicChartsFanOut(t *testing.T) {
	routes := map[string]string{
		"/deezer/chart/0/tracks":  `{"data":[{"id":1,"type":"track","title":"Get Lucky"}]}`,
		"/deezer/chart/0/albums":  `{"data":[{"id":2,"type":"album","title":"Discovery"}]}`,
		"/deezer/chart/0/artists": `{"error":{"type":"Exception","message":"Quota limit exceeded","code":4}}`,
		"/deezer/genre":           `{"data":[{"id":0,"type":"genre","name":"All"},{"id":132,"type":"genre","name":"Pop"}]}`,
	}
	catalog, _ := newTestCatalog(t, routes, nil)

	charts := catalog.MusicCharts(context.Background())
	assert.Len(t, charts[models.ChartTracks], 1)
	assert.Len(t, charts[models.ChartAlbums], 1)
	assert.NotNil(t, charts[models.ChartArtists])
	assert.Empty(t, charts[models.ChartArtists])
	assert.Len(t, charts[models.ChartGenres], 2)
}

func TestArtistDetailJoinsTopTracks(t *testing.T) {
	routes := map[string]string{
		"/deezer/artist/27":     `{"id":27,"type":"artist","name":"Daft Punk","nb_album":30}`,
		"/deezer/artist/27/top": `{"data":[{"id":1,"type":"track","title":"Get Lucky"},{"id":2,"type":"track","title":"One More Time"}]}`,
	}
	catalog, up := newTestCatalog(t, routes, nil)

	artist := catalog.ArtistDetail(context.Background(), "27")
	require.NotNil(t, artist)
	assert.Equal(t, "Daft Punk", artist.Name)
	require.Len(t, artist.TopTracks, 2)
	assert.Equal(t, "One More Time", artist.TopTracks[1].Title)
	assert.Contains(t, up.query("/deezer/artist/27/top"), "limit=10")
}

func TestMovieDetailBundle(t *testing.T) {
	routes := map[string]string{
		"/tmdb/genre/movie/list": `{"genres":[]}`,
		"/tmdb/genre/tv/list":    `{"genres":[]}`,
		"/tmdb/movie/27205":      `{"id":27205,"title":"Inception","release_date":"2010-07-15","poster_path":"/p.jpg",
			"credits":{"cast":[],"crew":[{"name":"Christopher Nolan","job":"Director"}]}}`,
		"/tmdb/movie/27205/similar":         `{"results":[{"id":155,"title":"The Dark Knight"}]}`,
		"/justwatch/providers/locale/en_US": `[{"id":8,"clear_name":"Netflix","icon_url":"/icon/1/{profile}"}]`,
		"/justwatch/titles/en_US/popular":   `{"items":[{"id":1,"title":"Inception","original_release_year":2010,"offers":[{"monetization_type":"flatrate","provider_id":8,"urls":{"standard_web":"https://www.netflix.com/title/70131314"}}]}]}`,
	}
	catalog, up := newTestCatalog(t, routes, nil)

	bundle := catalog.MovieDetailBundle(context.Background(), "27205")
	require.NotNil(t, bundle.Movie)
	assert.Equal(t, "Christopher Nolan", bundle.Movie.Director)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/p.jpg", bundle.Movie.PosterURL)
	assert.Equal(t, testPlaceholder, bundle.Movie.BackdropURL)
	require.Len(t, bundle.Similar, 1)
	require.Len(t, bundle.Providers, 1)
	assert.Equal(t, "Netflix", bundle.Providers[0].Name)
	assert.Contains(t, up.query("/justwatch/titles/en_US/popular"), "Inception")
}

func TestMovieDetailBundleMissingMovie(t *testing.T) {
	catalog, _ := newTestCatalog(t, map[string]string{}, nil)

	bundle := catalog.MovieDetailBundle(context.Background(), "1")
	assert.Nil(t, bundle.Movie)
	assert.NotNil(t, bundle.Similar)
	assert.NotNil(t, bundle.Providers)
}

func TestNewReleasesQueriesCurrentYear(t *testing.T) {
	routes := map[string]string{
		"/musicbrainz/recording": `{"recordings":[{"id":"r1","title":"Fresh","artist-credit":[{"name":"Someone"}],"releases":[]}]}`,
	}
	catalog, up := newTestCatalog(t, routes, nil)
	catalog.now = func() time.Time { return time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC) }

	tracks := catalog.NewReleases(context.Background())
	require.Len(t, tracks, 1)
	assert.Equal(t, testPlaceholder, tracks[0].CoverURL)
	assert.True(t, strings.Contains(up.query("/musicbrainz/recording"), "firstreleasedate%3A2026"), up.query("/musicbrainz/recording"))
}

func TestShowDetailUsesTrailerCrossReference(t *testing.T) {
	routes := map[string]string{
		"/tvmaze/shows/169":    `{"id":169,"name":"Breaking Bad","summary":"<p>Chemistry.</p>","externals":{"imdb":"tt0903747"}}`,
		"/tmdb/find/tt0903747": `{"movie_results":[],"tv_results":[{"id":1396}]}`,
		"/tmdb/tv/1396/videos": `{"results":[{"key":"HhesaQXLuRY","site":"YouTube","type":"Trailer","official":true}]}`,
	}
	catalog, _ := newTestCatalog(t, routes, nil)

	show := catalog.ShowDetail(context.Background(), "169")
	require.NotNil(t, show)
	assert.Equal(t, "https://www.youtube.com/watch?v=HhesaQXLuRY", show.TrailerURL)
	assert.Equal(t, "Chemistry.", *show.Synopsis)
	assert.Equal(t, testPlaceholder, show.BackdropURL)
}
