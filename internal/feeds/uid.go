package feeds

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/preston-bernstein/league-ics/internal/domain/games"
)

// The namespace, key layouts and domain suffix below are part of the published
// output: changing any of them re-identifies every event in subscribers' calendars.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/preston-bernstein/league-ics/events"))

const (
	uidDomain         = "league-ics"
	fallbackSeparator = "|"
)

// StableUID derives the calendar UID for a game. Games with an upstream id hash
// "{slug}:{id}"; games without one hash "{slug}|{home}|{away}|{start UTC RFC3339}",
// so two games between the same teams at the same instant share a UID.
func StableUID(slug string, game games.NormalizedGame) string {
	return uuid.NewSHA1(uidNamespace, []byte(uidKey(slug, game))).String() + "@" + uidDomain
}

func uidKey(slug string, game games.NormalizedGame) string {
	if game.SourceID != "" {
		return slug + ":" + game.SourceID
	}
	return strings.Join([]string{
		slug,
		game.Home,
		game.Away,
		game.Start.UTC().Format(time.RFC3339),
	}, fallbackSeparator)
}
