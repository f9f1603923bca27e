//go:build wireinject
// +build wireinject

package di

import (
	"MarketBrief/pkg/config"
	"MarketBrief/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient infrastructure
		ProvideLogger,
		ProvideLocation,
		ProvideMetrics,
		ProvideCache,

		// Repositories
		ProvideSnapshotStore,
		ProvidePredictionJournal,

		// External services
		ProvideQuoteSource,
		ProvideNewsSource,
		ProvideNotifier,
		ProvideRenderer,

		// Use cases
		ProvideEvaluator,
		ProvideAggregator,
		ProvideDailyReporter,
		ProvidePeriodReporter,
		ProvidePublisher,

		// Scheduling and HTTP surface
		ProvideScheduler,
		ProvideHTTPHandler,
		ProvideHTTPServer,

		// Application
		ProvideApp,
	)
	return &server.App{}, nil
}
