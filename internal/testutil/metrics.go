package testutil

import (
	"context"

	"github.com/preston-bernstein/league-ics/internal/metrics"
)

// NewRecorderWithShutdown returns an in-memory recorder and a shutdown func
// matching what metrics.Setup hands the server.
func NewRecorderWithShutdown() (*metrics.Recorder, func(context.Context) error) {
	rec := metrics.NewRecorder()
	return rec, func(ctx context.Context) error { return ctx.Err() }
}
