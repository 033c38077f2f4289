package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	appfeeds "github.com/preston-bernstein/league-ics/internal/app/feeds"
	"github.com/preston-bernstein/league-ics/internal/logging"
)

const (
	defaultInterval  = 6 * time.Hour
	maxFailuresReady = 3
)

// Runner regenerates every feed once.
type Runner interface {
	Run(ctx context.Context) (appfeeds.RunReport, error)
}

// Status describes the recent health of the refresh loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
	LastSucceeded       int
	LastFailed          int
}

// IsReady reports whether a run has succeeded and runs are not failing repeatedly.
func (s Status) IsReady() bool {
	return !s.LastSuccess.IsZero() && s.ConsecutiveFailures < maxFailuresReady
}

// Poller regenerates feeds on boot and then on every interval tick.
type Poller struct {
	runner   Runner
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time

	once    sync.Once
	quit    chan struct{}
	exited  chan struct{}
	started bool

	mu     sync.RWMutex
	status Status
}

func New(runner Runner, logger *slog.Logger, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Poller{
		runner:   runner,
		logger:   logger,
		interval: interval,
		now:      time.Now,
		quit:     make(chan struct{}),
		exited:   make(chan struct{}),
	}
}

// Start launches the refresh loop. Calls after the first are ignored.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go p.loop(ctx)
}

func (p *Poller) loop(ctx context.Context) {
	defer close(p.exited)
	logging.Info(p.logger, "poller started", slog.Int64(logging.FieldDurationMS, p.interval.Milliseconds()))
	defer logging.Info(p.logger, "poller stopped")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Boot run so feeds exist before the first tick.
	p.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.quit:
			return
		case <-ticker.C:
			p.RunOnce(ctx)
		}
	}
}

// Stop signals the loop and waits for it to exit or for ctx to end.
func (p *Poller) Stop(ctx context.Context) error {
	p.once.Do(func() { close(p.quit) })

	p.mu.RLock()
	started := p.started
	p.mu.RUnlock()
	if !started {
		return nil
	}
	select {
	case <-p.exited:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce performs a single refresh and updates Status.
func (p *Poller) RunOnce(ctx context.Context) (appfeeds.RunReport, error) {
	start := p.now()
	p.update(func(s *Status) { s.LastAttempt = start })

	report, err := p.runner.Run(ctx)
	fields := []any{
		"succeeded", report.Succeeded(),
		"failed", report.Failed(),
		logging.FieldDurationMS, p.now().Sub(start).Milliseconds(),
	}

	p.update(func(s *Status) {
		s.LastSucceeded = report.Succeeded()
		s.LastFailed = report.Failed()
		if err != nil {
			s.ConsecutiveFailures++
			s.LastError = err.Error()
			return
		}
		s.ConsecutiveFailures = 0
		s.LastError = ""
		s.LastSuccess = start
	})

	if err != nil {
		logging.Error(p.logger, "feed refresh failed", err, fields...)
		return report, err
	}
	logging.Info(p.logger, "feeds refreshed", fields...)
	return report, nil
}

func (p *Poller) update(fn func(*Status)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(&p.status)
}

// Status returns a snapshot of the poller's recent health.
func (p *Poller) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}
