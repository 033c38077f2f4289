package feeds

import (
	"sort"

	"github.com/preston-bernstein/league-ics/internal/domain/calendar"
)

// BuildFeed orders events by start time and removes duplicate UIDs. When a UID repeats,
// the later event replaces the earlier one; the repeated UIDs are returned for logging.
// Events starting at the same instant are ordered by UID so input order never leaks
// into the output.
func BuildFeed(name, timezone string, events []calendar.Event) (calendar.Feed, []string) {
	index := make(map[string]int, len(events))
	deduped := make([]calendar.Event, 0, len(events))
	var duplicates []string

	for _, ev := range events {
		if i, ok := index[ev.UID]; ok {
			deduped[i] = ev
			duplicates = append(duplicates, ev.UID)
			continue
		}
		index[ev.UID] = len(deduped)
		deduped = append(deduped, ev)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		if !deduped[i].Start.Equal(deduped[j].Start) {
			return deduped[i].Start.Before(deduped[j].Start)
		}
		return deduped[i].UID < deduped[j].UID
	})

	return calendar.Feed{
		Name:     name,
		Timezone: timezone,
		Events:   deduped,
	}, duplicates
}
