package providers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/preston-bernstein/league-ics/internal/domain/games"
	"github.com/preston-bernstein/league-ics/internal/logging"
)

const limiterName = "rate-limited"

// rateLimitedProvider spaces upstream calls by a minimum interval. The first call
// is admitted immediately.
type rateLimitedProvider struct {
	next    ScheduleProvider
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewRateLimitedProvider returns a provider that admits one call per interval.
// Callers block until their slot, the context's end, or a deadline the slot cannot meet.
func NewRateLimitedProvider(next ScheduleProvider, interval time.Duration, logger *slog.Logger) ScheduleProvider {
	if interval <= 0 {
		interval = time.Minute
	}
	return &rateLimitedProvider{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		logger:  logger,
	}
}

func (p *rateLimitedProvider) FetchSchedule(ctx context.Context, url string) ([]games.RawGame, error) {
	if p.next == nil {
		logging.Warn(p.logger, "provider unavailable", slog.String(logging.FieldProvider, limiterName))
		return nil, ErrProviderUnavailable
	}
	if err := p.limiter.Wait(ctx); err != nil {
		logging.Warn(p.logger, "rate-limited fetch abandoned",
			slog.String(logging.FieldProvider, limiterName),
			slog.String(logging.FieldURL, url),
		)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		// The limiter refuses waits that would outlive the deadline.
		return nil, fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
	}
	return p.next.FetchSchedule(ctx, url)
}
