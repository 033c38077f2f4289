package feeds

import (
	"fmt"
	"strings"

	"github.com/preston-bernstein/league-ics/internal/config"
	"github.com/preston-bernstein/league-ics/internal/domain/calendar"
	"github.com/preston-bernstein/league-ics/internal/domain/games"
)

// MapEvent converts one normalized game into the calendar event published for team.
func MapEvent(game games.NormalizedGame, team config.TeamConfig) calendar.Event {
	return calendar.Event{
		UID:         StableUID(team.Slug, game),
		Title:       Title(game),
		Start:       game.Start,
		End:         game.End,
		Location:    game.Location,
		Description: describe(game, team),
	}
}

// Title renders the event summary for the game's status.
func Title(game games.NormalizedGame) string {
	switch game.Status {
	case games.StatusFinal:
		return fmt.Sprintf("%s %s %d - %s %d", game.Outcome, game.Home, game.Score.Home, game.Away, game.Score.Away)
	case games.StatusInProgress:
		return fmt.Sprintf("%s vs %s (LIVE)", game.Home, game.Away)
	default:
		return fmt.Sprintf("%s vs %s", game.Home, game.Away)
	}
}

func describe(game games.NormalizedGame, team config.TeamConfig) string {
	var parts []string
	if league := strings.TrimSpace(team.League); league != "" {
		parts = append(parts, league)
	}
	if game.Stage != "" {
		parts = append(parts, "Stage: "+game.Stage)
	}
	status := game.RawStatus
	if status == "" {
		status = strings.ToLower(string(game.Status))
	}
	parts = append(parts,
		"Status: "+status,
		"Home: "+game.Home,
		"Away: "+game.Away,
	)
	if game.Scored {
		parts = append(parts, fmt.Sprintf("Score: %d-%d", game.Score.Home, game.Score.Away))
	}
	return strings.Join(parts, " | ")
}
