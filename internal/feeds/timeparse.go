package feeds

import (
	"time"

	"github.com/preston-bernstein/league-ics/internal/domain/games"
	"github.com/preston-bernstein/league-ics/internal/timeutil"
)

func parseTimestamp(raw games.NullString, loc *time.Location) (time.Time, bool) {
	if !raw.Valid {
		return time.Time{}, false
	}
	return timeutil.ParseInstant(raw.String, loc)
}
