package main

import (
	"context"
	"net/http"
	"time"

	"github.com/amaumene/mediagate/internal/api"
	"github.com/amaumene/mediagate/internal/config"
	"github.com/amaumene/mediagate/internal/controllers"
	"github.com/amaumene/mediagate/internal/metrics"
	"github.com/amaumene/mediagate/internal/models"
	"github.com/amaumene/mediagate/internal/services/deezer"
	"github.com/amaumene/mediagate/internal/services/fetch"
	"github.com/amaumene/mediagate/internal/services/justwatch"
	"github.com/amaumene/mediagate/internal/services/musicbrainz"
	"github.com/amaumene/mediagate/internal/services/tmdb"
	"github.com/amaumene/mediagate/internal/services/tvmaze"
	"github.com/amaumene/mediagate/internal/tracing"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// application is everything a command needs once the graph is built
type application struct {
	server  *api.Server
	catalog *controllers.Catalog
	library *models.Library
	logger  *logrus.Logger
}

func newApplication(server *api.Server, catalog *controllers.Catalog, library *models.Library, logger *logrus.Logger) *application {
	return &application{server: server, catalog: catalog, library: library, logger: logger}
}

// upstream bundles what every fetch client shares
type upstream struct {
	httpClient *http.Client
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	logger     *logrus.Logger
}

func provideUpstream(cfg *config.Config, m *metrics.Metrics, tracer trace.Tracer, logger *logrus.Logger) upstream {
	return upstream{
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		metrics:    m,
		tracer:     tracer,
		logger:     logger,
	}
}

func (u upstream) client(name, baseURL string, headers map[string]string) *fetch.Client {
	return fetch.NewClient(fetch.Options{
		Name:       name,
		BaseURL:    baseURL,
		HTTPClient: u.httpClient,
		Headers:    headers,
		Logger:     u.logger,
		Metrics:    u.metrics,
		Tracer:     u.tracer,
	})
}

func provideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func provideMetrics(reg *prometheus.Registry) *metrics.Metrics {
	return metrics.New(reg)
}

func provideTracerProvider(cfg *config.Config, logger *logrus.Logger) (*sdktrace.TracerProvider, func()) {
	tp := tracing.NewProvider(cfg.TraceSampleRatio)
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracing.Shutdown(ctx, tp); err != nil {
			logger.WithError(err).Warn("Failed to shut down tracer provider")
		}
	}
	return tp, cleanup
}

func provideTracer(tp *sdktrace.TracerProvider) trace.Tracer {
	return tracing.Tracer(tp)
}

func provideDegrader(logger *logrus.Logger, m *metrics.Metrics) *fetch.Degrader {
	return fetch.NewDegrader(logger, m)
}

// provideTMDB builds the genre directory and the client on one fetch client
// so they share a response cache
func provideTMDB(u upstream, degrader *fetch.Degrader, cfg *config.Config) *tmdb.Client {
	fc := u.client("tmdb", tmdb.BaseURL, nil)
	genres := tmdb.NewGenreDirectory(fc, cfg.TMDBAPIKey, cfg.TMDBLanguage, u.logger)
	return tmdb.NewClient(fc, genres, degrader, cfg, u.logger)
}

func provideTVMaze(u upstream, trailers tvmaze.TrailerFinder, degrader *fetch.Degrader, cfg *config.Config) *tvmaze.Client {
	return tvmaze.NewClient(u.client("tvmaze", tvmaze.BaseURL, nil), trailers, degrader, cfg, u.logger)
}

func provideDeezer(u upstream, degrader *fetch.Degrader, cfg *config.Config) *deezer.Client {
	return deezer.NewClient(u.client("deezer", deezer.BaseURL, nil), degrader, cfg, u.logger)
}

func provideMusicBrainz(u upstream, degrader *fetch.Degrader, cfg *config.Config) *musicbrainz.Client {
	headers := musicbrainz.Headers(cfg.MusicBrainzContact)
	recordings := u.client("musicbrainz", musicbrainz.BaseURL, headers)
	covers := u.client("coverartarchive", musicbrainz.CoverArtBaseURL, headers)
	return musicbrainz.NewClient(recordings, covers, degrader, cfg, u.logger)
}

func provideJustWatch(u upstream, degrader *fetch.Degrader, cfg *config.Config) *justwatch.Client {
	fc := u.client("justwatch", justwatch.BaseURL, nil)
	directory := justwatch.NewDirectory(fc, cfg.JustWatchLocale, u.logger)
	return justwatch.NewClient(fc, directory, degrader, u.metrics, cfg, u.logger)
}

func provideLibrary(cfg *config.Config, logger *logrus.Logger) (*models.Library, func(), error) {
	library, err := models.NewLibrary(cfg.LibraryFile)
	if err != nil {
		return nil, nil, err
	}
	logger.WithField("path", cfg.LibraryFile).Info("Library opened")

	cleanup := func() {
		if err := library.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close library")
		}
	}
	return library, cleanup, nil
}

func provideServer(cfg *config.Config, catalog *controllers.Catalog, library *models.Library, reg *prometheus.Registry, logger *logrus.Logger) *api.Server {
	return api.NewServer(cfg, catalog, library, reg, logger)
}
