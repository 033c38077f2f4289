package testutil

import (
	"encoding/json"

	"github.com/preston-bernstein/league-ics/internal/config"
	"github.com/preston-bernstein/league-ics/internal/domain/games"
)

// SampleRawGame returns a scheduled game fixture with the provided id, participants and start.
func SampleRawGame(id string, homeID int, home string, awayID int, away string, start string) games.RawGame {
	return games.RawGame{
		GameID:   games.NullString{String: id, Valid: true},
		HomeTeam: &games.RawTeam{ID: games.NullInt{Int: homeID, Valid: true}, Name: games.NullString{String: home, Valid: true}},
		AwayTeam: &games.RawTeam{ID: games.NullInt{Int: awayID, Valid: true}, Name: games.NullString{String: away, Valid: true}},
		Start:    games.NullString{String: start, Valid: true},
	}
}

// SampleTeam returns a valid team entry tracking upstream team id 1254.
func SampleTeam(slug string, apiURL string) config.TeamConfig {
	return config.TeamConfig{
		Name:     "Gator Skinners",
		Slug:     slug,
		League:   "Adult Hockey",
		APIURL:   apiURL,
		TeamIDs:  []int{1254},
		Timezone: "America/New_York",
	}
}

type scheduleTeam struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type scheduleGame struct {
	ID       string       `json:"id"`
	HomeTeam scheduleTeam `json:"homeTeam"`
	AwayTeam scheduleTeam `json:"awayTeam"`
	Start    string       `json:"start"`
}

// SchedulePayload renders games the way the schedule endpoint wraps them,
// as {"data": [...]}. Only identity, participants and start are carried.
func SchedulePayload(g ...games.RawGame) []byte {
	out := struct {
		Data []scheduleGame `json:"data"`
	}{Data: make([]scheduleGame, 0, len(g))}
	for _, game := range g {
		home, away := game.Teams()
		out.Data = append(out.Data, scheduleGame{
			ID:       game.GameID.String,
			HomeTeam: scheduleTeam{ID: home.ID.Int, Name: home.Name.String},
			AwayTeam: scheduleTeam{ID: away.ID.Int, Name: away.Name.String},
			Start:    game.Start.String,
		})
	}
	data, err := json.Marshal(out)
	if err != nil {
		panic(err)
	}
	return data
}
