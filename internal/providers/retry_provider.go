package providers

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/preston-bernstein/league-ics/internal/domain/games"
	"github.com/preston-bernstein/league-ics/internal/metrics"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
	defaultMaxBackoff    = 30 * time.Second
	defaultProviderName  = "provider"
)

// retryingProvider wraps a ScheduleProvider with exponential backoff. A Retry-After
// from a rate-limited response replaces the next computed delay.
type retryingProvider struct {
	inner        ScheduleProvider
	logger       *slog.Logger
	metrics      *metrics.Recorder
	providerName string
	maxAttempts  int
	newBackOff   func() backoff.BackOff
}

// NewRetryingProvider wraps inner with retries. maxAttempts counts the first call;
// values <= 0 and a non-positive initial backoff fall back to defaults.
func NewRetryingProvider(inner ScheduleProvider, logger *slog.Logger, rec *metrics.Recorder, providerName string, maxAttempts int, initial time.Duration) ScheduleProvider {
	if providerName == "" {
		providerName = defaultProviderName
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if initial <= 0 {
		initial = defaultBackoff
	}
	return &retryingProvider{
		inner:        inner,
		logger:       logger,
		metrics:      rec,
		providerName: providerName,
		maxAttempts:  maxAttempts,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = initial
			b.MaxInterval = defaultMaxBackoff
			b.MaxElapsedTime = 0
			return b
		},
	}
}

func (r *retryingProvider) FetchSchedule(ctx context.Context, url string) ([]games.RawGame, error) {
	if r.inner == nil {
		logWithProvider(ctx, r.logger, slog.LevelWarn, r.providerName, "provider unavailable")
		return nil, ErrProviderUnavailable
	}

	policy := &retryAfterBackOff{BackOff: r.newBackOff()}
	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(r.maxAttempts-1)), ctx)

	attempt := 0
	op := func() ([]games.RawGame, error) {
		attempt++
		start := time.Now()
		result, err := r.inner.FetchSchedule(ctx, url)
		r.metrics.RecordProviderAttempt(r.providerName, time.Since(start), err)
		if err == nil {
			return result, nil
		}
		if rlErr, ok := AsRateLimitError(err); ok {
			r.metrics.RecordRateLimit(r.providerName, rlErr.RetryAfter)
			policy.retryAfter = rlErr.RetryAfter
		}
		if !Retryable(err) {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}
	notify := func(err error, delay time.Duration) {
		logWithProvider(ctx, r.logger, slog.LevelWarn, r.providerName, "schedule fetch retry",
			"attempt", attempt,
			"max_attempts", r.maxAttempts,
			"delay_ms", delay.Milliseconds(),
			"err", err,
		)
	}

	result, err := backoff.RetryNotifyWithData(op, b, notify)
	if err != nil {
		logWithProvider(ctx, r.logger, slog.LevelWarn, r.providerName, "schedule fetch failed",
			"attempts", attempt,
			"err", err,
		)
		return nil, err
	}
	return result, nil
}

// retryAfterBackOff substitutes a server-provided delay for the next computed one.
type retryAfterBackOff struct {
	backoff.BackOff
	retryAfter time.Duration
}

func (b *retryAfterBackOff) NextBackOff() time.Duration {
	next := b.BackOff.NextBackOff()
	if next == backoff.Stop {
		return next
	}
	if b.retryAfter > 0 {
		next, b.retryAfter = b.retryAfter, 0
	}
	return next
}
