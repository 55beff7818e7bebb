package handlers

import (
	"context"
	"strings"

	"github.com/amaumene/mediagate/internal/controllers"
	"github.com/amaumene/mediagate/internal/models"
	"github.com/amaumene/mediagate/internal/services/tmdb"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Catalog is the aggregation facade as seen by the HTTP layer
type Catalog interface {
	TrendingMovies(ctx context.Context) []models.Movie
	DiscoverMovies(ctx context.Context, filter tmdb.DiscoverFilter) []models.Movie
	SearchMovies(ctx context.Context, query string) []models.Movie
	SimilarMovies(ctx context.Context, id string) []models.Movie
	MovieDetail(ctx context.Context, id string) *models.Movie
	MovieDetailBundle(ctx context.Context, id string) controllers.MovieBundle
	Genres(ctx context.Context, mediaType models.MediaType) []models.Genre

	TrendingShows(ctx context.Context) []models.Show
	DiscoverAnime(ctx context.Context, page int) []models.Show
	PopularShows(ctx context.Context) []models.Show
	SearchShows(ctx context.Context, query string) []models.Show
	ShowDetail(ctx context.Context, id string) *models.Show

	MusicCharts(ctx context.Context) models.MusicCharts
	SearchMusic(ctx context.Context, kind models.MusicKind, query string) []models.MusicItem
	AlbumDetail(ctx context.Context, id string) *models.Album
	ArtistDetail(ctx context.Context, id string) *models.Artist
	NewReleases(ctx context.Context) []models.SearchedTrack
	SearchRecordings(ctx context.Context, query string) []models.SearchedTrack

	WatchProviders(ctx context.Context, title string, mediaType models.MediaType, year int) []models.StreamingProvider
}

// CatalogHandler exposes the facade as JSON endpoints. The facade never
// fails, so the only error responses are bad input and absent details.
type CatalogHandler struct {
	catalog Catalog
	logger  *logrus.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog Catalog, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

// Register mounts every catalog route on router. Fixed paths are mounted
// before their :id siblings.
func (h *CatalogHandler) Register(router fiber.Router) {
	movies := router.Group("/movies")
	movies.Get("/trending", h.TrendingMovies)
	movies.Get("/discover", h.DiscoverMovies)
	movies.Get("/search", h.SearchMovies)
	movies.Get("/:id/similar", h.SimilarMovies)
	movies.Get("/:id/bundle", h.MovieBundle)
	movies.Get("/:id", h.MovieDetail)

	router.Get("/genres/:mediaType", h.Genres)

	shows := router.Group("/shows")
	shows.Get("/trending", h.TrendingShows)
	shows.Get("/popular", h.PopularShows)
	shows.Get("/anime", h.Anime)
	shows.Get("/search", h.SearchShows)
	shows.Get("/:id", h.ShowDetail)

	music := router.Group("/music")
	music.Get("/charts", h.MusicCharts)
	music.Get("/releases", h.NewReleases)
	music.Get("/recordings", h.SearchRecordings)
	music.Get("/search/:kind", h.SearchMusic)
	music.Get("/albums/:id", h.AlbumDetail)
	music.Get("/artists/:id", h.ArtistDetail)

	router.Get("/providers", h.WatchProviders)
}

func (h *CatalogHandler) TrendingMovies(c *fiber.Ctx) error {
	return c.JSON(h.catalog.TrendingMovies(c.UserContext()))
}

// DiscoverMovies accepts genre, page, sort, year and language filters
func (h *CatalogHandler) DiscoverMovies(c *fiber.Ctx) error {
	filter := tmdb.DiscoverFilter{
		GenreID:          c.QueryInt("genre"),
		Page:             c.QueryInt("page", 1),
		SortBy:           c.Query("sort"),
		Year:             c.QueryInt("year"),
		OriginalLanguage: c.Query("language"),
	}
	return c.JSON(h.catalog.DiscoverMovies(c.UserContext(), filter))
}

func (h *CatalogHandler) SearchMovies(c *fiber.Ctx) error {
	return c.JSON(h.catalog.SearchMovies(c.UserContext(), c.Query("q")))
}

func (h *CatalogHandler) SimilarMovies(c *fiber.Ctx) error {
	return c.JSON(h.catalog.SimilarMovies(c.UserContext(), c.Params("id")))
}

func (h *CatalogHandler) MovieDetail(c *fiber.Ctx) error {
	movie := h.catalog.MovieDetail(c.UserContext(), c.Params("id"))
	if movie == nil {
		return notFound(c, "movie")
	}
	return c.JSON(movie)
}

func (h *CatalogHandler) MovieBundle(c *fiber.Ctx) error {
	bundle := h.catalog.MovieDetailBundle(c.UserContext(), c.Params("id"))
	if bundle.Movie == nil {
		return notFound(c, "movie")
	}
	return c.JSON(bundle)
}

func (h *CatalogHandler) Genres(c *fiber.Ctx) error {
	mediaType := models.MediaType(c.Params("mediaType"))
	if !mediaType.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, "media type must be movie or show")
	}
	return c.JSON(h.catalog.Genres(c.UserContext(), mediaType))
}

func (h *CatalogHandler) TrendingShows(c *fiber.Ctx) error {
	return c.JSON(h.catalog.TrendingShows(c.UserContext()))
}

func (h *CatalogHandler) PopularShows(c *fiber.Ctx) error {
	return c.JSON(h.catalog.PopularShows(c.UserContext()))
}

func (h *CatalogHandler) Anime(c *fiber.Ctx) error {
	return c.JSON(h.catalog.DiscoverAnime(c.UserContext(), c.QueryInt("page", 1)))
}

func (h *CatalogHandler) SearchShows(c *fiber.Ctx) error {
	return c.JSON(h.catalog.SearchShows(c.UserContext(), c.Query("q")))
}

func (h *CatalogHandler) ShowDetail(c *fiber.Ctx) error {
	show := h.catalog.ShowDetail(c.UserContext(), c.Params("id"))
	if show == nil {
		return notFound(c, "show")
	}
	return c.JSON(show)
}

func (h *CatalogHandler) MusicCharts(c *fiber.Ctx) error {
	return c.JSON(h.catalog.MusicCharts(c.UserContext()))
}

func (h *CatalogHandler) SearchMusic(c *fiber.Ctx) error {
	kind := models.MusicKind(c.Params("kind"))
	if !kind.Searchable() {
		return fiber.NewError(fiber.StatusBadRequest, "kind must be track, album or artist")
	}
	return c.JSON(h.catalog.SearchMusic(c.UserContext(), kind, c.Query("q")))
}

func (h *CatalogHandler) AlbumDetail(c *fiber.Ctx) error {
	album := h.catalog.AlbumDetail(c.UserContext(), c.Params("id"))
	if album == nil {
		return notFound(c, "album")
	}
	return c.JSON(album)
}

func (h *CatalogHandler) ArtistDetail(c *fiber.Ctx) error {
	artist := h.catalog.ArtistDetail(c.UserContext(), c.Params("id"))
	if artist == nil {
		return notFound(c, "artist")
	}
	return c.JSON(artist)
}

func (h *CatalogHandler) NewReleases(c *fiber.Ctx) error {
	return c.JSON(h.catalog.NewReleases(c.UserContext()))
}

func (h *CatalogHandler) SearchRecordings(c *fiber.Ctx) error {
	return c.JSON(h.catalog.SearchRecordings(c.UserContext(), c.Query("q")))
}

// WatchProviders needs a title; type defaults to movie and year is optional
func (h *CatalogHandler) WatchProviders(c *fiber.Ctx) error {
	title := strings.TrimSpace(c.Query("title"))
	if title == "" {
		return fiber.NewError(fiber.StatusBadRequest, "title is required")
	}

	mediaType := models.MediaType(c.Query("type", string(models.MediaTypeMovie)))
	if !mediaType.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, "type must be movie or show")
	}

	return c.JSON(h.catalog.WatchProviders(c.UserContext(), title, mediaType, c.QueryInt("year")))
}

func notFound(c *fiber.Ctx, what string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": what + " not found"})
}
