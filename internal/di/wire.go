//go:build wireinject
// +build wireinject

package di

import (
	"MarketEngine/pkg/config"
	"MarketEngine/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Upstream and events
		ProvideUpstream,
		ProvideLookupPublisher,
		ProvideEventPipeline,

		// Use cases
		ProvideRetryingFetcher,
		ProvidePriceExtractor,
		ProvidePriceLookup,

		// HTTP
		ProvideHTTPHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
