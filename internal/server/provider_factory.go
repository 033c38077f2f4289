package server

import (
	"log/slog"

	"github.com/preston-bernstein/league-ics/internal/config"
	"github.com/preston-bernstein/league-ics/internal/metrics"
	"github.com/preston-bernstein/league-ics/internal/providers"
	"github.com/preston-bernstein/league-ics/internal/providers/bondsports"
)

// providerFactory assembles the schedule provider with shared wrappers (rate limit + retry).
type providerFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newProviderFactory(logger *slog.Logger, metrics *metrics.Recorder) providerFactory {
	return providerFactory{logger: logger, metrics: metrics}
}

// build returns the BondSports client wrapped by wrap.
func (f providerFactory) build(cfg config.Config) providers.ScheduleProvider {
	base := bondsports.NewClient(bondsports.Config{
		Timeout:   cfg.Fetch.Timeout,
		UserAgent: cfg.Fetch.UserAgent,
		Logger:    f.logger,
	})
	return f.wrap(cfg, base)
}

// wrap layers the optional rate limiter under the retrying provider, so every
// retry attempt also waits for a slot.
func (f providerFactory) wrap(cfg config.Config, base providers.ScheduleProvider) providers.ScheduleProvider {
	name := normalizeProviderName(base)
	next := base
	if cfg.Fetch.MinInterval > 0 {
		next = providers.NewRateLimitedProvider(base, cfg.Fetch.MinInterval, f.logger)
	}
	return providers.NewRetryingProvider(next, f.logger, f.metrics, name, cfg.Fetch.MaxAttempts, cfg.Fetch.Backoff)
}
