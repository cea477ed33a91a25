package providers

import (
	"github.com/samber/do/v2"

	"github.com/frameguessr/frameguessr-server/internal/engine"
	"github.com/frameguessr/frameguessr-server/internal/logger"
	"github.com/frameguessr/frameguessr-server/internal/provider/kinopoisk"
	"github.com/frameguessr/frameguessr-server/internal/provider/shikimori"
	"github.com/frameguessr/frameguessr-server/internal/provider/tmdb"
	"github.com/frameguessr/frameguessr-server/internal/service"
	"github.com/frameguessr/frameguessr-server/internal/strategy"
)

// ProvideEngine provides the acquisition engine.
func ProvideEngine(i do.Injector) (*engine.Engine, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return engine.New(log.Logger), nil
}

// ProvideRegistry provides the category strategy registry.
func ProvideRegistry(i do.Injector) (*strategy.Registry, error) {
	eng := do.MustInvoke[*engine.Engine](i)
	log := do.MustInvoke[*logger.Logger](i)

	anime := do.MustInvoke[*shikimori.Client](i)
	movie := do.MustInvoke[*tmdb.Client](i)
	series := do.MustInvoke[*kinopoisk.Client](i)

	return strategy.NewRegistry(
		strategy.NewAnime(anime, eng, log.Logger),
		strategy.NewMovie(movie, eng, log.Logger),
		strategy.NewTVSeries(series, eng, log.Logger),
	), nil
}

// ProvideGameService provides the game application service.
func ProvideGameService(i do.Injector) (*service.GameService, error) {
	registry := do.MustInvoke[*strategy.Registry](i)
	store := do.MustInvoke[*PrefsStoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewGameService(registry, store.Store, log.Logger), nil
}
