package games

import "time"

// GameStatus mirrors the lifecycle states exposed to calendar subscribers.
type GameStatus string

const (
	StatusScheduled  GameStatus = "SCHEDULED"
	StatusInProgress GameStatus = "IN_PROGRESS"
	StatusFinal      GameStatus = "FINAL"
)

// Outcome is the result of a final game relative to the subscribing team.
type Outcome string

const (
	OutcomeNone Outcome = ""
	OutcomeWin  Outcome = "W"
	OutcomeLoss Outcome = "L"
	OutcomeTie  Outcome = "T"
)

// Score captures home and away goals.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// NormalizedGame is the repaired, typed form of a RawGame.
type NormalizedGame struct {
	// SourceID is the upstream game identifier (gameId, else eventId); empty when both were null.
	SourceID         string     `json:"sourceId,omitempty"`
	Start            time.Time  `json:"start"`
	End              time.Time  `json:"end"`
	Home             string     `json:"home"`
	Away             string     `json:"away"`
	Location         string     `json:"location"`
	Status           GameStatus `json:"status"`
	Score            Score      `json:"score"`
	Scored           bool       `json:"scored"`
	Outcome          Outcome    `json:"outcome,omitempty"`
	SubscriberIsHome bool       `json:"subscriberIsHome"`
	Stage            string     `json:"stage,omitempty"`
	RawStatus        string     `json:"rawStatus,omitempty"`
}

// SubscriberScore returns the subscribing team's score and the opponent's.
func (g NormalizedGame) SubscriberScore() (mine, theirs int) {
	if g.SubscriberIsHome {
		return g.Score.Home, g.Score.Away
	}
	return g.Score.Away, g.Score.Home
}
