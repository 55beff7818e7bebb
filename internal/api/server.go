package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amaumene/mediagate/internal/api/handlers"
	"github.com/amaumene/mediagate/internal/api/middleware"
	"github.com/amaumene/mediagate/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Server represents the HTTP server
type Server struct {
	app     *fiber.App
	addr    string
	catalog handlers.Catalog
	library handlers.LibraryStore
	logger  *logrus.Logger
}

// NewServer creates a new HTTP server. library and gatherer may be nil, in
// which case the library and metrics routes are not mounted.
func NewServer(cfg *config.Config, catalog handlers.Catalog, library handlers.LibraryStore, gatherer prometheus.Gatherer, logger *logrus.Logger) *Server {
	s := &Server{
		addr:    ":" + cfg.ServerPort,
		catalog: catalog,
		library: library,
		logger:  logger,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "mediagate",
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           60 * time.Second,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	s.app.Use(middleware.Logging(logger))
	s.setupRoutes(gatherer)

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(gatherer prometheus.Gatherer) {
	healthHandler := handlers.NewHealthHandler(s.logger)
	s.app.Get("/health", healthHandler.Handle)

	if gatherer != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	api := s.app.Group("/api")
	handlers.NewCatalogHandler(s.catalog, s.logger).Register(api)

	if s.library != nil {
		libraryHandler := handlers.NewLibraryHandler(s.library, s.logger)
		api.Post("/library", libraryHandler.Add)
	}
}

// Start starts the HTTP server and blocks until it fails or ctx is done
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.app.Listen(s.addr); err != nil {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.app.ShutdownWithContext(shutdownCtx)
}

// errorHandler renders every error as a JSON body
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	return c.Status(code).JSON(fiber.Map{"error": message})
}
