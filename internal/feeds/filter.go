package feeds

import (
	"github.com/preston-bernstein/league-ics/internal/config"
	"github.com/preston-bernstein/league-ics/internal/domain/games"
)

// FilterGames keeps the games where either participant matches the team by id or by
// exact, case-sensitive name. Source order is preserved.
func FilterGames(raw []games.RawGame, team config.TeamConfig) []games.RawGame {
	out := make([]games.RawGame, 0, len(raw))
	for _, g := range raw {
		home, away := g.Teams()
		if matchesTeam(home, team) || matchesTeam(away, team) {
			out = append(out, g)
		}
	}
	return out
}

func matchesTeam(t games.RawTeam, team config.TeamConfig) bool {
	if t.ID.Valid && team.HasID(t.ID.Int) {
		return true
	}
	return t.Name.Valid && team.HasName(t.Name.String)
}
