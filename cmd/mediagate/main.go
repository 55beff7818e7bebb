package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/amaumene/mediagate/internal/config"
	"github.com/amaumene/mediagate/internal/models"
	"github.com/amaumene/mediagate/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mediagate",
		Short:         "Unified catalog gateway for movies, TV and music",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newProvidersCmd(), newLibraryCmd())
	return root
}

// bootstrap loads configuration, sets up the logger and builds the graph
func bootstrap() (*application, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := utils.NewLogger(cfg.LogLevel, cfg.LogFile)
	logger.WithField("config_dir", filepath.Dir(cfg.LibraryFile)).Debug("Configuration loaded")

	app, cleanup, err := initializeApplication(cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	return app, cleanup, nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := bootstrap()
			if err != nil {
				return err
			}
			defer cleanup()
			return serve(app)
		},
	}
}

func serve(app *application) error {
	app.logger.Info("Starting MediaGate")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := app.server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	app.logger.Info("MediaGate is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		app.logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := app.server.Shutdown(context.Background()); err != nil {
			app.logger.WithError(err).Error("Error during server shutdown")
		}
	}

	app.logger.Info("MediaGate stopped")
	return nil
}

func newProvidersCmd() *cobra.Command {
	var (
		mediaType string
		year      int
	)

	cmd := &cobra.Command{
		Use:   "providers <title>",
		Short: "Look up the subscription services carrying a title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseMediaType(mediaType)
			if err != nil {
				return err
			}

			app, cleanup, err := bootstrap()
			if err != nil {
				return err
			}
			defer cleanup()

			providers := app.catalog.WatchProviders(cmd.Context(), args[0], kind, year)
			return writeJSON(cmd.OutOrStdout(), providers)
		},
	}
	cmd.Flags().StringVar(&mediaType, "type", string(models.MediaTypeMovie), "media type (movie or show)")
	cmd.Flags().IntVar(&year, "year", 0, "release year used to pick between same-titled candidates")
	return cmd
}

func newLibraryCmd() *cobra.Command {
	library := &cobra.Command{
		Use:   "library",
		Short: "Manage the titles marked as owned",
	}

	var title, source string
	add := &cobra.Command{
		Use:   "add <movie|show> <id>",
		Short: "Mark a catalog title as owned",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseMediaType(args[0])
			if err != nil {
				return err
			}
			from, err := models.ResolveSource(models.Source(source), kind)
			if err != nil {
				return err
			}

			app, cleanup, err := bootstrap()
			if err != nil {
				return err
			}
			defer cleanup()

			entry := &models.LibraryEntry{Source: from, MediaType: kind, ExternalID: args[1], Title: title}
			if err := app.library.Add(entry); err != nil {
				return err
			}

			app.logger.WithFields(logrus.Fields{
				"library_id":  entry.ID,
				"source":      entry.Source,
				"media_type":  entry.MediaType,
				"external_id": entry.ExternalID,
			}).Info("Library entry stored")
			fmt.Fprintf(cmd.OutOrStdout(), "%d\n", entry.ID)
			return nil
		},
	}
	add.Flags().StringVar(&title, "title", "", "display title stored with the entry")
	add.Flags().StringVar(&source, "source", "", "catalog the id belongs to (tmdb or tvmaze; movies default to tmdb)")

	library.AddCommand(add)
	return library
}

func parseMediaType(s string) (models.MediaType, error) {
	kind := models.MediaType(s)
	if !kind.Valid() {
		return "", fmt.Errorf("invalid media type %q, expected movie or show", s)
	}
	return kind, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
