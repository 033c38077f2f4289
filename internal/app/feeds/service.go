package feeds

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/preston-bernstein/league-ics/internal/config"
	"github.com/preston-bernstein/league-ics/internal/domain/games"
	corefeeds "github.com/preston-bernstein/league-ics/internal/feeds"
	"github.com/preston-bernstein/league-ics/internal/logging"
	"github.com/preston-bernstein/league-ics/internal/metrics"
	"github.com/preston-bernstein/league-ics/internal/providers"
	"github.com/preston-bernstein/league-ics/internal/publish"
)

const defaultMaxParallel = 4

// ErrAllTeamsFailed is returned by Run when no configured team produced a feed.
var ErrAllTeamsFailed = errors.New("no feed could be generated")

// Retainer is implemented by publishers that can forget feeds no longer configured.
type Retainer interface {
	Retain(ctx context.Context, slugs []string) error
}

// Options configures a Service.
type Options struct {
	Teams           []config.TeamConfig
	DefaultTimezone string
	GameDuration    time.Duration
	MaxParallel     int
	Logger          *slog.Logger
	Metrics         *metrics.Recorder
	Now             func() time.Time
}

// Service regenerates every configured team's feed: it fetches each distinct
// schedule URL once, runs the core generator per team and publishes the result.
type Service struct {
	provider    providers.ScheduleProvider
	publisher   publish.Publisher
	generator   *corefeeds.Generator
	teams       []config.TeamConfig
	defaultTZ   string
	maxParallel int
	logger      *slog.Logger
	metrics     *metrics.Recorder
	now         func() time.Time

	runMu sync.Mutex

	lastMu sync.RWMutex
	last   RunReport
	hasRun bool
}

// NewService constructs a Service.
func NewService(provider providers.ScheduleProvider, publisher publish.Publisher, opts Options) *Service {
	if opts.MaxParallel <= 0 {
		opts.MaxParallel = defaultMaxParallel
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		provider:  provider,
		publisher: publisher,
		generator: corefeeds.NewGenerator(corefeeds.Options{
			DefaultTimezone: opts.DefaultTimezone,
			GameDuration:    opts.GameDuration,
			Now:             opts.Now,
			Logger:          opts.Logger,
		}),
		teams:       append([]config.TeamConfig(nil), opts.Teams...),
		defaultTZ:   opts.DefaultTimezone,
		maxParallel: opts.MaxParallel,
		logger:      opts.Logger,
		metrics:     opts.Metrics,
		now:         opts.Now,
	}
}

type fetchResult struct {
	games []games.RawGame
	err   error
}

// Run regenerates all feeds. Runs are serialized. A team whose schedule cannot be
// fetched keeps its previously published file; a misconfigured team is skipped
// without affecting the others. The returned error is non-nil only when the
// context ends or no team succeeded; per-team failures are in the report.
func (s *Service) Run(ctx context.Context) (RunReport, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	report := RunReport{StartedAt: s.now()}
	reports := make([]TeamReport, len(s.teams))

	_, cfgErrs := config.ValidateTeams(s.teams, s.defaultTZ)
	errByIndex := make(map[int]error, len(cfgErrs))
	for _, err := range cfgErrs {
		var cfgErr *config.ConfigurationError
		if errors.As(err, &cfgErr) {
			errByIndex[cfgErr.Index] = err
		}
	}

	runnable := make([]indexedTeam, 0, len(s.teams))
	for i, team := range s.teams {
		team.Slug = strings.TrimSpace(team.Slug)
		err := errByIndex[i]
		if err == nil && strings.TrimSpace(team.APIURL) == "" {
			err = &config.ConfigurationError{Index: i, Slug: team.Slug, Reason: "api_url is required"}
		}
		if err != nil {
			reports[i] = failedTeam(teamLabel(i, team.Slug), StatusConfigError, err)
			s.metrics.RecordFeed(teamLabel(i, team.Slug), metrics.FeedResult{Err: err})
			logging.Error(s.logger, "team configuration rejected", err, logging.FieldSlug, team.Slug)
			continue
		}
		runnable = append(runnable, indexedTeam{index: i, team: team})
	}

	schedules := s.fetchAll(ctx, runnable)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxParallel)
	for _, rt := range runnable {
		g.Go(func() error {
			reports[rt.index] = s.runTeam(gctx, rt.team, schedules[rt.team.APIURL])
			return nil
		})
	}
	_ = g.Wait()

	if retainer, ok := s.publisher.(Retainer); ok && ctx.Err() == nil {
		slugs := make([]string, 0, len(s.teams))
		for _, t := range s.teams {
			if slug := strings.TrimSpace(t.Slug); slug != "" {
				slugs = append(slugs, slug)
			}
		}
		if err := retainer.Retain(ctx, slugs); err != nil {
			logging.Warn(s.logger, "manifest retain failed", logging.FieldError, err)
		}
	}

	report.Teams = reports
	report.FinishedAt = s.now()

	var runErr error
	switch {
	case ctx.Err() != nil:
		runErr = ctx.Err()
	case len(reports) > 0 && report.Succeeded() == 0:
		runErr = fmt.Errorf("%w: %w", ErrAllTeamsFailed, report.Err())
	}
	s.metrics.RecordRun(report.Duration(), runErr)
	s.setLast(report)

	logging.Info(s.logger, "feed run complete",
		logging.FieldCount, len(reports),
		"succeeded", report.Succeeded(),
		"failed", report.Failed(),
		logging.FieldDurationMS, report.Duration().Milliseconds(),
	)
	return report, runErr
}

type indexedTeam struct {
	index int
	team  config.TeamConfig
}

// fetchAll retrieves each distinct schedule URL once.
func (s *Service) fetchAll(ctx context.Context, runnable []indexedTeam) map[string]fetchResult {
	var (
		mu      sync.Mutex
		results = make(map[string]fetchResult)
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxParallel)

	seen := make(map[string]bool)
	for _, rt := range runnable {
		url := rt.team.APIURL
		if seen[url] {
			continue
		}
		seen[url] = true
		g.Go(func() error {
			res := fetchResult{err: providers.ErrProviderUnavailable}
			if s.provider != nil {
				res.games, res.err = s.provider.FetchSchedule(gctx, url)
			}
			if res.err != nil {
				logging.Warn(s.logger, "schedule fetch failed", logging.FieldURL, url, "error", res.err)
			}
			mu.Lock()
			results[url] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (s *Service) runTeam(ctx context.Context, team config.TeamConfig, fetched fetchResult) TeamReport {
	logger := logging.FromContext(ctx, s.logger)
	if logger != nil {
		logger = logger.With(logging.TeamAttrs(team.Slug, team.DisplayName())...)
	}

	input := corefeeds.Fetched(team, fetched.games)
	if fetched.err != nil {
		input = corefeeds.Unavailable(team, fetched.err)
	}

	res, err := s.generator.Generate(input)
	if err != nil {
		s.metrics.RecordFeed(team.Slug, metrics.FeedResult{Err: err})
		var cfgErr *config.ConfigurationError
		switch {
		case errors.Is(err, corefeeds.ErrNoData):
			logging.Warn(logger, "no schedule data; keeping published feed", logging.FieldError, err)
			return failedTeam(team.Slug, StatusNoData, err)
		case errors.As(err, &cfgErr):
			logging.Error(logger, "team configuration rejected", err)
			return failedTeam(team.Slug, StatusConfigError, err)
		default:
			logging.Error(logger, "feed generation failed", err)
			return failedTeam(team.Slug, StatusFailed, err)
		}
	}

	report := TeamReport{
		Slug:       team.Slug,
		Events:     res.Feed.Len(),
		Dropped:    len(res.Dropped),
		Duplicates: len(res.Duplicates),
	}

	changed, err := s.publisher.Publish(ctx, publish.Feed{
		Slug:     res.Slug,
		Filename: res.Filename,
		Name:     res.Feed.Name,
		Events:   res.Feed.Len(),
		Data:     res.Text,
	})
	s.metrics.RecordFeed(team.Slug, metrics.FeedResult{
		Events:     report.Events,
		Dropped:    report.Dropped,
		Duplicates: report.Duplicates,
		Changed:    changed,
		Err:        err,
	})
	if err != nil {
		logging.Error(logger, "feed publish failed", err)
		failed := failedTeam(team.Slug, StatusPublishError, err)
		failed.Events, failed.Dropped, failed.Duplicates = report.Events, report.Dropped, report.Duplicates
		return failed
	}

	report.Status = StatusUnchanged
	if changed {
		report.Status = StatusWritten
	}
	return report
}

// LastReport returns the most recent run's report.
func (s *Service) LastReport() (RunReport, bool) {
	s.lastMu.RLock()
	defer s.lastMu.RUnlock()
	return s.last, s.hasRun
}

// Teams returns the configured team entries.
func (s *Service) Teams() []config.TeamConfig {
	out := make([]config.TeamConfig, len(s.teams))
	copy(out, s.teams)
	return out
}

func (s *Service) setLast(report RunReport) {
	s.lastMu.Lock()
	defer s.lastMu.Unlock()
	s.last = report
	s.hasRun = true
}

func teamLabel(index int, slug string) string {
	if slug != "" {
		return slug
	}
	return fmt.Sprintf("#%d", index)
}
