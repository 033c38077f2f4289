package calendar

import "time"

// Event is one calendar entry published for a game.
type Event struct {
	UID         string    `json:"uid"`
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Location    string    `json:"location"`
	Description string    `json:"description,omitempty"`
}

// Feed is the ordered set of events published for one team. UIDs are unique.
type Feed struct {
	Name     string  `json:"name"`
	Timezone string  `json:"timezone"`
	Events   []Event `json:"events"`
}

// Len returns the number of events in the feed.
func (f Feed) Len() int {
	return len(f.Events)
}

// Event looks up an event by UID.
func (f Feed) Event(uid string) (Event, bool) {
	for _, e := range f.Events {
		if e.UID == uid {
			return e, true
		}
	}
	return Event{}, false
}
