//go:build wireinject
// +build wireinject

package main

import (
	"github.com/amaumene/mediagate/internal/config"
	"github.com/amaumene/mediagate/internal/controllers"
	"github.com/amaumene/mediagate/internal/models"
	"github.com/amaumene/mediagate/internal/services/tmdb"
	"github.com/amaumene/mediagate/internal/services/tvmaze"
	"github.com/google/wire"
	"github.com/sirupsen/logrus"
)

var observabilitySet = wire.NewSet(
	provideRegistry,
	provideMetrics,
	provideTracerProvider,
	provideTracer,
)

var catalogSet = wire.NewSet(
	provideUpstream,
	provideDegrader,
	provideTMDB,
	provideTVMaze,
	provideDeezer,
	provideMusicBrainz,
	provideJustWatch,
	wire.Bind(new(tvmaze.TrailerFinder), new(*tmdb.Client)),
	wire.Bind(new(controllers.LibraryIndex), new(*models.Library)),
	controllers.NewCatalog,
)

func initializeApplication(cfg *config.Config, logger *logrus.Logger) (*application, func(), error) {
	wire.Build(
		observabilitySet,
		catalogSet,
		provideLibrary,
		provideServer,
		newApplication,
	)
	return nil, nil, nil
}
