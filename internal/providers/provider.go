package providers

import (
	"context"

	"github.com/preston-bernstein/league-ics/internal/domain/games"
)

// ScheduleProvider fetches one league schedule document and decodes its games.
// url is the team's configured api_url; teams sharing a league share a URL.
type ScheduleProvider interface {
	FetchSchedule(ctx context.Context, url string) ([]games.RawGame, error)
}

// ScheduleProviderFunc adapts a function to ScheduleProvider.
type ScheduleProviderFunc func(ctx context.Context, url string) ([]games.RawGame, error)

func (f ScheduleProviderFunc) FetchSchedule(ctx context.Context, url string) ([]games.RawGame, error) {
	return f(ctx, url)
}
