package feeds

import (
	"testing"
	"time"

	"github.com/preston-bernstein/league-ics/internal/domain/calendar"
)

func TestBuildFeedOrdersByStart(t *testing.T) {
	t0 := time.Date(2026, 1, 10, 19, 0, 0, 0, time.UTC)
	events := []calendar.Event{
		{UID: "c", Start: t0.Add(2 * time.Hour)},
		{UID: "a", Start: t0},
		{UID: "b", Start: t0.Add(time.Hour)},
	}

	feed, dups := BuildFeed("Skinners", "UTC", events)
	if len(dups) != 0 {
		t.Fatalf("expected no duplicates, got %v", dups)
	}
	for i, want := range []string{"a", "b", "c"} {
		if feed.Events[i].UID != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, feed.Events[i].UID)
		}
	}
	if feed.Name != "Skinners" || feed.Timezone != "UTC" {
		t.Fatalf("unexpected feed header %+v", feed)
	}
}

func TestBuildFeedLaterDuplicateWins(t *testing.T) {
	t0 := time.Date(2026, 1, 10, 19, 0, 0, 0, time.UTC)
	events := []calendar.Event{
		{UID: "x", Title: "first", Start: t0},
		{UID: "y", Title: "other", Start: t0.Add(time.Hour)},
		{UID: "x", Title: "second", Start: t0.Add(2 * time.Hour)},
	}

	feed, dups := BuildFeed("", "", events)
	if feed.Len() != 2 {
		t.Fatalf("expected 2 events, got %d", feed.Len())
	}
	if len(dups) != 1 || dups[0] != "x" {
		t.Fatalf("expected duplicate x reported, got %v", dups)
	}
	ev, ok := feed.Event("x")
	if !ok || ev.Title != "second" {
		t.Fatalf("expected later duplicate to win, got %+v", ev)
	}
	if feed.Events[1].UID != "x" {
		t.Fatalf("expected replaced event ordered by its own start, got %v", feed.Events)
	}
}

func TestBuildFeedTiesBreakByUID(t *testing.T) {
	t0 := time.Date(2026, 1, 10, 19, 0, 0, 0, time.UTC)
	a := []calendar.Event{{UID: "b", Start: t0}, {UID: "a", Start: t0}}
	b := []calendar.Event{{UID: "a", Start: t0}, {UID: "b", Start: t0}}

	fa, _ := BuildFeed("", "", a)
	fb, _ := BuildFeed("", "", b)
	for i := range fa.Events {
		if fa.Events[i].UID != fb.Events[i].UID {
			t.Fatalf("expected input order not to affect output, got %v vs %v", fa.Events, fb.Events)
		}
	}
}
