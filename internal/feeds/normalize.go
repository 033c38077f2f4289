package feeds

import (
	"strings"
	"time"

	"github.com/preston-bernstein/league-ics/internal/config"
	"github.com/preston-bernstein/league-ics/internal/domain/games"
)

const (
	// PlaceholderTeam stands in for a participant the league has not named yet.
	PlaceholderTeam = "TBD"
	// DefaultGameDuration applies when upstream omits the end time or reports it at or before the start.
	DefaultGameDuration = time.Hour
)

var finalStatuses = map[string]bool{
	"final":     true,
	"ended":     true,
	"completed": true,
}

var liveStatuses = map[string]bool{
	"live":        true,
	"in_progress": true,
	"in progress": true,
	"inprogress":  true,
	"started":     true,
}

// Normalizer repairs raw upstream games into NormalizedGame values.
type Normalizer struct {
	loc      *time.Location
	duration time.Duration
	now      func() time.Time
}

// NewNormalizer builds a Normalizer rendering times in loc. Zero values fall back to UTC,
// DefaultGameDuration and time.Now.
func NewNormalizer(loc *time.Location, duration time.Duration, now func() time.Time) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	if duration <= 0 {
		duration = DefaultGameDuration
	}
	if now == nil {
		now = time.Now
	}
	return &Normalizer{loc: loc, duration: duration, now: now}
}

// Normalize returns the repaired game. The only error is *UnusableRecordError, returned
// when the start time is missing or unparsable; every other gap gets a fallback.
func (n *Normalizer) Normalize(raw games.RawGame, team config.TeamConfig) (games.NormalizedGame, error) {
	sourceID, _ := raw.SourceID()

	start, ok := parseTimestamp(raw.Start, n.loc)
	if !ok {
		return games.NormalizedGame{}, &UnusableRecordError{SourceID: sourceID, Field: "start", Value: raw.Start.String}
	}
	start = start.In(n.loc)

	end, ok := parseTimestamp(raw.End, n.loc)
	if !ok || !end.After(start) {
		end = start.Add(n.duration)
	}
	end = end.In(n.loc)

	home, away := raw.Teams()
	game := games.NormalizedGame{
		SourceID:         sourceID,
		Start:            start,
		End:              end,
		Home:             teamName(home),
		Away:             teamName(away),
		SubscriberIsHome: subscriberIsHome(home, away, team),
		RawStatus:        strings.TrimSpace(raw.Status.String),
	}
	if raw.Location.Valid {
		game.Location = strings.TrimSpace(raw.Location.String)
	}
	if raw.Stage.Valid {
		game.Stage = strings.TrimSpace(raw.Stage.String)
	}

	homeScore, awayScore := raw.Scores()
	if homeScore.Valid && awayScore.Valid && homeScore.Int >= 0 && awayScore.Int >= 0 {
		game.Score = games.Score{Home: homeScore.Int, Away: awayScore.Int}
		game.Scored = true
	}

	game.Status = n.classify(raw, game)
	if game.Status == games.StatusFinal {
		game.Outcome = outcome(game)
	}
	return game, nil
}

func (n *Normalizer) classify(raw games.RawGame, game games.NormalizedGame) games.GameStatus {
	status := strings.ToLower(game.RawStatus)
	final := (raw.Final.Valid && raw.Final.Bool) || finalStatuses[status]
	if final && game.Scored {
		return games.StatusFinal
	}
	if (raw.Live.Valid && raw.Live.Bool) || liveStatuses[status] {
		return games.StatusInProgress
	}
	if !final {
		now := n.now()
		if !now.Before(game.Start) && now.Before(game.End) {
			return games.StatusInProgress
		}
	}
	return games.StatusScheduled
}

func outcome(game games.NormalizedGame) games.Outcome {
	mine, theirs := game.SubscriberScore()
	switch {
	case mine > theirs:
		return games.OutcomeWin
	case mine < theirs:
		return games.OutcomeLoss
	default:
		return games.OutcomeTie
	}
}

func teamName(t games.RawTeam) string {
	if !t.Name.Valid {
		return PlaceholderTeam
	}
	return strings.TrimSpace(t.Name.String)
}

// subscriberIsHome defaults to the home side when neither participant matches.
func subscriberIsHome(home, away games.RawTeam, team config.TeamConfig) bool {
	if matchesTeam(home, team) {
		return true
	}
	return !matchesTeam(away, team)
}
