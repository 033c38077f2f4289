package testutil

import (
	"context"
	"sync/atomic"

	"github.com/preston-bernstein/league-ics/internal/domain/games"
	"github.com/preston-bernstein/league-ics/internal/providers"
)

// FixedProvider answers every fetch with the same games and error.
type FixedProvider struct {
	Games []games.RawGame
	Err   error

	calls atomic.Int32
}

var _ providers.ScheduleProvider = (*FixedProvider)(nil)

func (p *FixedProvider) FetchSchedule(ctx context.Context, url string) ([]games.RawGame, error) {
	p.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.Games, p.Err
}

// Calls reports how many fetches reached the provider.
func (p *FixedProvider) Calls() int { return int(p.calls.Load()) }
