package providers

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/preston-bernstein/league-ics/internal/teststubs"
)

func TestRateLimitedProviderAdmitsFirstCallAndSpacesNext(t *testing.T) {
	inner := &teststubs.StubProvider{}
	interval := 20 * time.Millisecond
	rl := NewRateLimitedProvider(inner, interval, nil)

	start := time.Now()
	for i := 0; i < 2; i++ {
		if _, err := rl.FetchSchedule(context.Background(), "https://example.test"); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed < interval-2*time.Millisecond {
		t.Fatalf("second call was not spaced, elapsed %s", elapsed)
	}
	if got := inner.Calls.Load(); got != 2 {
		t.Fatalf("inner calls = %d, want 2", got)
	}
}

func TestRateLimitedProviderStopsAtContext(t *testing.T) {
	cases := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
		want error
	}{
		{
			name: "canceled",
			ctx: func() (context.Context, context.CancelFunc) {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx, cancel
			},
			want: context.Canceled,
		},
		{
			name: "deadline before next slot",
			ctx: func() (context.Context, context.CancelFunc) {
				return context.WithTimeout(context.Background(), 10*time.Millisecond)
			},
			want: context.DeadlineExceeded,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inner := &teststubs.StubProvider{}
			rl := NewRateLimitedProvider(inner, time.Hour, nil)
			// Spend the initial slot.
			if _, err := rl.FetchSchedule(context.Background(), ""); err != nil {
				t.Fatalf("first call: %v", err)
			}

			ctx, cancel := tc.ctx()
			defer cancel()
			if _, err := rl.FetchSchedule(ctx, ""); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if got := inner.Calls.Load(); got != 1 {
				t.Fatalf("inner calls = %d, want 1", got)
			}
		})
	}
}

func TestRateLimitedProviderHandlesNilInner(t *testing.T) {
	rl := NewRateLimitedProvider(nil, time.Millisecond, nil)
	if _, err := rl.FetchSchedule(context.Background(), ""); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestRateLimitedProviderDefaultsInterval(t *testing.T) {
	rl := NewRateLimitedProvider(&teststubs.StubProvider{}, 0, nil).(*rateLimitedProvider)
	if got := rl.limiter.Limit(); got != rate.Every(time.Minute) {
		t.Fatalf("limit = %v, want one per minute", got)
	}
}
