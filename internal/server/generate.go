package server

import (
	"context"
	"log/slog"

	appfeeds "github.com/preston-bernstein/league-ics/internal/app/feeds"
	"github.com/preston-bernstein/league-ics/internal/config"
	"github.com/preston-bernstein/league-ics/internal/logging"
	"github.com/preston-bernstein/league-ics/internal/providers"
)

// Generate performs a single generation run with the same provider and
// publisher stack as the long-running server, then releases them.
func Generate(ctx context.Context, cfg config.Config, logger *slog.Logger) (appfeeds.RunReport, error) {
	return generateWithProvider(ctx, cfg, logger, nil)
}

func generateWithProvider(ctx context.Context, cfg config.Config, logger *slog.Logger, provider providers.ScheduleProvider) (appfeeds.RunReport, error) {
	pub, err := buildPublisher(ctx, cfg, logger)
	if err != nil {
		return appfeeds.RunReport{}, err
	}
	defer func() {
		if err := pub.close(); err != nil {
			logging.Warn(logger, "publisher close failed", logging.FieldError, err)
		}
	}()

	factory := newProviderFactory(logger, nil)
	if provider == nil {
		provider = factory.build(cfg)
	} else {
		provider = factory.wrap(cfg, provider)
	}

	svc := appfeeds.NewService(provider, pub.writer, appfeeds.Options{
		Teams:           cfg.Teams,
		DefaultTimezone: cfg.DefaultTimezone,
		GameDuration:    cfg.GameDuration,
		MaxParallel:     cfg.MaxParallelTeams,
		Logger:          logger,
	})
	return svc.Run(ctx)
}
