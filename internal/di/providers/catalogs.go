package providers

import (
	"time"

	"github.com/samber/do/v2"

	"github.com/frameguessr/frameguessr-server/internal/config"
	"github.com/frameguessr/frameguessr-server/internal/logger"
	"github.com/frameguessr/frameguessr-server/internal/provider/kinopoisk"
	"github.com/frameguessr/frameguessr-server/internal/provider/shikimori"
	"github.com/frameguessr/frameguessr-server/internal/provider/tmdb"
	"github.com/frameguessr/frameguessr-server/internal/ratelimit"
	"github.com/frameguessr/frameguessr-server/internal/transport"
)

// ProvideOutboundLimiter provides the keyed limiter pacing provider requests.
func ProvideOutboundLimiter(i do.Injector) (*ratelimit.KeyedLimiter, error) {
	cfg := do.MustInvoke[*config.Config](i)

	limiter := ratelimit.New(time.Second)
	limiter.Register(shikimori.RateKey, cfg.Providers.ShikimoriInterval)
	limiter.Register(tmdb.RateKey, cfg.Providers.TMDBInterval)
	limiter.Register(kinopoisk.RateKey, cfg.Providers.KinopoiskInterval)

	return limiter, nil
}

// ProvideTransport provides the shared rate-limited HTTP transport.
func ProvideTransport(i do.Injector) (*transport.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	limiter := do.MustInvoke[*ratelimit.KeyedLimiter](i)
	log := do.MustInvoke[*logger.Logger](i)

	return transport.New(limiter, cfg.Providers.CacheTTL, log.Logger), nil
}

// ProvideShikimoriClient provides the anime catalog client.
func ProvideShikimoriClient(i do.Injector) (*shikimori.Client, error) {
	tc := do.MustInvoke[*transport.Client](i)
	log := do.MustInvoke[*logger.Logger](i)

	return shikimori.New(tc, log.Logger), nil
}

// ProvideTMDBClient provides the movie catalog client.
func ProvideTMDBClient(i do.Injector) (*tmdb.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	tc := do.MustInvoke[*transport.Client](i)
	log := do.MustInvoke[*logger.Logger](i)

	return tmdb.New(tc, cfg.Providers.TMDBToken, log.Logger), nil
}

// ProvideKinopoiskClient provides the TV-series catalog client.
func ProvideKinopoiskClient(i do.Injector) (*kinopoisk.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	tc := do.MustInvoke[*transport.Client](i)
	log := do.MustInvoke[*logger.Logger](i)

	return kinopoisk.New(tc, cfg.Providers.KinopoiskKey, log.Logger), nil
}
