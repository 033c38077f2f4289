package games

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// ErrUnexpectedPayload is returned when a schedule document is neither a JSON array
// nor an object wrapping one under "data".
var ErrUnexpectedPayload = errors.New("schedule payload must be a JSON array of games")

// NullString is a JSON value that may be absent, null, or of an unexpected type.
// Numbers are kept as their literal text; anything else leaves Valid false.
type NullString struct {
	String string
	Valid  bool
}

func (n *NullString) UnmarshalJSON(data []byte) error {
	*n = NullString{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		if strings.TrimSpace(s) == "" {
			return nil
		}
		*n = NullString{String: s, Valid: true}
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		*n = NullString{String: string(data), Valid: true}
	}
	return nil
}

// NullInt is an integer that upstream sometimes sends as a string, null, or not at all.
type NullInt struct {
	Int   int
	Valid bool
}

func (n *NullInt) UnmarshalJSON(data []byte) error {
	*n = NullInt{}
	var s NullString
	_ = s.UnmarshalJSON(data)
	if !s.Valid {
		return nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(s.String))
	if err != nil {
		f, ferr := strconv.ParseFloat(strings.TrimSpace(s.String), 64)
		if ferr != nil || f != float64(int(f)) {
			return nil
		}
		v = int(f)
	}
	*n = NullInt{Int: v, Valid: true}
	return nil
}

// NullBool is a boolean marker that may be absent or sent as "true"/"false".
type NullBool struct {
	Bool  bool
	Valid bool
}

func (n *NullBool) UnmarshalJSON(data []byte) error {
	*n = NullBool{}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil && !bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*n = NullBool{Bool: b, Valid: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if parsed, perr := strconv.ParseBool(strings.TrimSpace(s)); perr == nil {
			*n = NullBool{Bool: parsed, Valid: true}
		}
	}
	return nil
}

// RawTeam is one participant entry as received.
type RawTeam struct {
	ID    NullInt    `json:"id"`
	Name  NullString `json:"name"`
	Score NullInt    `json:"score"`
}

// RawGame is one upstream game-scores entry as received. Every field is optional;
// the feeds normalizer is the only place that inspects presence.
type RawGame struct {
	GameID    NullString
	EventID   NullString
	HomeTeam  *RawTeam
	AwayTeam  *RawTeam
	Start     NullString
	End       NullString
	Status    NullString
	Final     NullBool
	Live      NullBool
	HomeScore NullInt
	AwayScore NullInt
	Location  NullString
	Stage     NullString
}

// UnmarshalJSON ignores participant entries that are not objects.
func (t *RawTeam) UnmarshalJSON(data []byte) error {
	*t = RawTeam{}
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	type plain RawTeam
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return nil
	}
	*t = RawTeam(p)
	return nil
}

// rawSpace is the venue block; some payloads send it as a bare string.
type rawSpace struct {
	Name NullString
}

func (s *rawSpace) UnmarshalJSON(data []byte) error {
	*s = rawSpace{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}
	if trimmed[0] == '"' {
		return s.Name.UnmarshalJSON(trimmed)
	}
	var obj struct {
		Name NullString `json:"name"`
	}
	if trimmed[0] == '{' && json.Unmarshal(trimmed, &obj) == nil {
		s.Name = obj.Name
	}
	return nil
}

// rawGameWire lists every key the game-scores endpoint (and its older shapes) uses.
type rawGameWire struct {
	GameID        NullString `json:"gameId"`
	ID            NullString `json:"id"`
	EventID       NullString `json:"eventId"`
	HomeTeam      *RawTeam   `json:"homeTeam"`
	Home          *RawTeam   `json:"home"`
	AwayTeam      *RawTeam   `json:"awayTeam"`
	Away          *RawTeam   `json:"away"`
	StartDateTime NullString `json:"startDateTime"`
	Start         NullString `json:"start"`
	EndDateTime   NullString `json:"endDateTime"`
	End           NullString `json:"end"`
	Status        NullString `json:"status"`
	Final         NullBool   `json:"final"`
	Live          NullBool   `json:"live"`
	HomeScore     NullInt    `json:"homeScore"`
	AwayScore     NullInt    `json:"awayScore"`
	Space         *rawSpace  `json:"space"`
	Location      NullString `json:"location"`
	StageName     NullString `json:"stageName"`
}

// UnmarshalJSON decodes a game leniently: unknown shapes for a field leave it unset
// instead of failing the whole record.
func (g *RawGame) UnmarshalJSON(data []byte) error {
	var w rawGameWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*g = RawGame{
		GameID:    firstString(w.GameID, w.ID),
		EventID:   w.EventID,
		HomeTeam:  firstTeam(w.HomeTeam, w.Home),
		AwayTeam:  firstTeam(w.AwayTeam, w.Away),
		Start:     firstString(w.StartDateTime, w.Start),
		End:       firstString(w.EndDateTime, w.End),
		Status:    w.Status,
		Final:     w.Final,
		Live:      w.Live,
		HomeScore: w.HomeScore,
		AwayScore: w.AwayScore,
		Location:  w.Location,
		Stage:     w.StageName,
	}
	if w.Space != nil && w.Space.Name.Valid {
		g.Location = w.Space.Name
	}
	return nil
}

// SourceID returns the upstream identifier used for stable event ids.
func (g RawGame) SourceID() (string, bool) {
	if g.GameID.Valid {
		return strings.TrimSpace(g.GameID.String), true
	}
	if g.EventID.Valid {
		return strings.TrimSpace(g.EventID.String), true
	}
	return "", false
}

// Teams returns both participant entries, never nil.
func (g RawGame) Teams() (home, away RawTeam) {
	if g.HomeTeam != nil {
		home = *g.HomeTeam
	}
	if g.AwayTeam != nil {
		away = *g.AwayTeam
	}
	return home, away
}

// Scores returns the home and away scores, preferring the per-team entries.
func (g RawGame) Scores() (home, away NullInt) {
	h, a := g.Teams()
	home, away = h.Score, a.Score
	if !home.Valid {
		home = g.HomeScore
	}
	if !away.Valid {
		away = g.AwayScore
	}
	return home, away
}

// DecodeRawGames decodes a game-scores document. Elements that are not objects are
// skipped and counted rather than failing the whole payload.
func DecodeRawGames(data []byte) ([]RawGame, int, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, 0, ErrUnexpectedPayload
	}
	var items []json.RawMessage
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, 0, err
		}
	case '{':
		var wrapped struct {
			Data []json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, 0, err
		}
		if wrapped.Data == nil {
			return nil, 0, ErrUnexpectedPayload
		}
		items = wrapped.Data
	default:
		return nil, 0, ErrUnexpectedPayload
	}

	out := make([]RawGame, 0, len(items))
	skipped := 0
	for _, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] != '{' {
			skipped++
			continue
		}
		var g RawGame
		if err := json.Unmarshal(item, &g); err != nil {
			skipped++
			continue
		}
		out = append(out, g)
	}
	return out, skipped, nil
}

func firstString(values ...NullString) NullString {
	for _, v := range values {
		if v.Valid {
			return v
		}
	}
	return NullString{}
}

func firstTeam(teams ...*RawTeam) *RawTeam {
	for _, t := range teams {
		if t != nil {
			return t
		}
	}
	return nil
}
