package feeds

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/preston-bernstein/league-ics/internal/config"
	"github.com/preston-bernstein/league-ics/internal/domain/calendar"
	"github.com/preston-bernstein/league-ics/internal/domain/games"
	"github.com/preston-bernstein/league-ics/internal/logging"
)

// Options configures a Generator.
type Options struct {
	DefaultTimezone string
	GameDuration    time.Duration
	Now             func() time.Time
	Logger          *slog.Logger
}

// Generator turns one team's raw schedule into serialized feed text.
type Generator struct {
	defaultTZ string
	duration  time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// NewGenerator builds a Generator, defaulting the timezone to UTC.
func NewGenerator(opts Options) *Generator {
	tz := opts.DefaultTimezone
	if tz == "" {
		tz = "UTC"
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Generator{
		defaultTZ: tz,
		duration:  opts.GameDuration,
		now:       now,
		logger:    opts.Logger,
	}
}

// TeamInput is the schedule handed to the generator for one team. A non-nil FetchErr
// means no data is available this run and nothing must be written for the team.
type TeamInput struct {
	Team     config.TeamConfig
	Games    []games.RawGame
	FetchErr error
}

// Fetched wraps a successfully retrieved schedule.
func Fetched(team config.TeamConfig, raw []games.RawGame) TeamInput {
	return TeamInput{Team: team, Games: raw}
}

// Unavailable marks a team whose schedule could not be retrieved.
func Unavailable(team config.TeamConfig, err error) TeamInput {
	if err == nil {
		err = ErrNoData
	}
	return TeamInput{Team: team, FetchErr: err}
}

// Result is one generated feed ready for publishing.
type Result struct {
	Slug       string
	Filename   string
	Text       []byte
	Feed       calendar.Feed
	Selected   int
	Dropped    []error
	Duplicates []string
}

// Generate filters, normalizes, maps, builds and serializes one team's feed.
// It returns ErrNoData (wrapping the fetch error) when the input carries no data, and
// *config.ConfigurationError when the team entry is unusable. Records without a usable
// start time are dropped and reported in Result.Dropped.
func (g *Generator) Generate(in TeamInput) (Result, error) {
	team := in.Team
	if in.FetchErr != nil {
		if errors.Is(in.FetchErr, ErrNoData) {
			return Result{}, in.FetchErr
		}
		return Result{}, fmt.Errorf("%w for %q: %w", ErrNoData, team.Slug, in.FetchErr)
	}
	if err := config.ValidateTeam(0, team, g.defaultTZ); err != nil {
		return Result{}, err
	}

	tz := team.Timezone
	if tz == "" {
		tz = g.defaultTZ
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Result{}, &config.ConfigurationError{Slug: team.Slug, Reason: fmt.Sprintf("invalid timezone %q", tz)}
	}

	logger := g.logger
	if logger != nil {
		logger = logger.With(logging.TeamAttrs(team.Slug, team.DisplayName())...)
	}

	selected := FilterGames(in.Games, team)
	normalizer := NewNormalizer(loc, g.duration, g.now)

	res := Result{Slug: team.Slug, Selected: len(selected)}
	events := make([]calendar.Event, 0, len(selected))
	for _, raw := range selected {
		game, err := normalizer.Normalize(raw, team)
		if err != nil {
			res.Dropped = append(res.Dropped, err)
			logging.Warn(logger, "dropping unusable game", logging.FieldError, err)
			continue
		}
		events = append(events, MapEvent(game, team))
	}

	feed, duplicates := BuildFeed(team.DisplayName(), tz, events)
	for _, uid := range duplicates {
		logging.Info(logger, "duplicate game replaced", logging.FieldUID, uid)
	}

	text, filename, err := Serialize(feed, team.Slug)
	if err != nil {
		return Result{}, err
	}

	res.Filename = filename
	res.Text = text
	res.Feed = feed
	res.Duplicates = duplicates
	logging.Info(logger, "feed generated",
		logging.FieldCount, feed.Len(),
		logging.FieldDropped, len(res.Dropped),
		logging.FieldDuplicates, len(duplicates),
	)
	return res, nil
}
