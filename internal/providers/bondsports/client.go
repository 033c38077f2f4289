package bondsports

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/preston-bernstein/league-ics/internal/domain/games"
	"github.com/preston-bernstein/league-ics/internal/logging"
	"github.com/preston-bernstein/league-ics/internal/providers"
)

// Config controls how the client reaches league schedule endpoints.
type Config struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	UserAgent  string
	Logger     *slog.Logger
}

// Client fetches game-scores documents from league schedule URLs.
type Client struct {
	httpClient httpDoer
	userAgent  string
	logger     *slog.Logger
	now        func() time.Time
}

// NewClient constructs a schedule client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		httpClient: resolveHTTPClient(cfg.HTTPClient, cfg.Timeout),
		userAgent:  resolveUserAgent(cfg.UserAgent),
		logger:     cfg.Logger,
		now:        time.Now,
	}
}

// Name identifies the provider in logs and metrics.
func (c *Client) Name() string {
	return providerName
}

// FetchSchedule retrieves and decodes the game-scores document at url.
func (c *Client) FetchSchedule(ctx context.Context, url string) ([]games.RawGame, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", providerName, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch %s: %w", providerName, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &providers.RateLimitError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), c.now()),
			Remaining:  resp.Header.Get("X-RateLimit-Remaining"),
			Message:    "schedule endpoint rate limited",
		}
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &providers.StatusError{
			Provider:   providerName,
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxScheduleBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: read %s: %w", providerName, url, err)
	}

	raw, skipped, err := games.DecodeRawGames(body)
	if err != nil {
		if errors.Is(err, games.ErrUnexpectedPayload) {
			return nil, fmt.Errorf("%s: %s: %w", providerName, url, err)
		}
		return nil, &providers.DecodeError{Provider: providerName, Err: err}
	}
	if skipped > 0 {
		logging.Warn(logging.FromContext(ctx, c.logger), "skipped malformed schedule entries",
			logging.FieldProvider, providerName,
			logging.FieldURL, url,
			logging.FieldCount, skipped,
		)
	}
	return raw, nil
}

var _ providers.ScheduleProvider = (*Client)(nil)
