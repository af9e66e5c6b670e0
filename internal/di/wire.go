//go:build wireinject
// +build wireinject

package di

import (
	"RetailMind/pkg/config"
	"RetailMind/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideForecastCache,
		ProvideWarmQueue,

		// Repositories (with business logic)
		ProvideSalesStorage,
		ProvideSalesPublisher,
		ProvideSalesStore,
		ProvideCatalog,
		ProvideSalesStream,

		// Use cases
		ProvideSalesProcessor,
		ProvideSalesCollector,
		ProvideKafkaSalesHandler,
		ProvideForecastService,
		ProvideSignalAggregator,
		ProvideRiskClassifier,
		ProvideSimulationEngine,
		ProvideInsightGenerator,
		ProvideCatalogQuery,

		// HTTP surface
		ProvideEngineHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
