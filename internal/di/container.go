// Package di provides dependency injection configuration for the FrameGuessr server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/frameguessr/frameguessr-server/internal/config"
	"github.com/frameguessr/frameguessr-server/internal/di/providers"
	"github.com/frameguessr/frameguessr-server/internal/engine"
	"github.com/frameguessr/frameguessr-server/internal/logger"
	"github.com/frameguessr/frameguessr-server/internal/provider/kinopoisk"
	"github.com/frameguessr/frameguessr-server/internal/provider/shikimori"
	"github.com/frameguessr/frameguessr-server/internal/provider/tmdb"
	"github.com/frameguessr/frameguessr-server/internal/ratelimit"
	"github.com/frameguessr/frameguessr-server/internal/service"
	"github.com/frameguessr/frameguessr-server/internal/strategy"
	"github.com/frameguessr/frameguessr-server/internal/transport"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Outbound provider plumbing
	do.Provide(injector, providers.ProvideOutboundLimiter)
	do.Provide(injector, providers.ProvideTransport)
	do.Provide(injector, providers.ProvideShikimoriClient)
	do.Provide(injector, providers.ProvideTMDBClient)
	do.Provide(injector, providers.ProvideKinopoiskClient)

	// Game core
	do.Provide(injector, providers.ProvideEngine)
	do.Provide(injector, providers.ProvideRegistry)
	do.Provide(injector, providers.ProvidePrefsStore)
	do.Provide(injector, providers.ProvideGameService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*ratelimit.KeyedLimiter](injector)
	_ = do.MustInvoke[*transport.Client](injector)
	_ = do.MustInvoke[*shikimori.Client](injector)
	_ = do.MustInvoke[*tmdb.Client](injector)
	_ = do.MustInvoke[*kinopoisk.Client](injector)
	_ = do.MustInvoke[*engine.Engine](injector)
	_ = do.MustInvoke[*strategy.Registry](injector)
	_ = do.MustInvoke[*providers.PrefsStoreHandle](injector)
	_ = do.MustInvoke[*service.GameService](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
