package feeds

import (
	"strings"
	"testing"
	"time"

	"github.com/preston-bernstein/league-ics/internal/domain/games"
)

func TestStableUIDIsDeterministic(t *testing.T) {
	start := time.Date(2026, 1, 10, 19, 0, 0, 0, time.UTC)
	game := games.NormalizedGame{SourceID: "1040", Start: start, Home: "A", Away: "B"}

	first := StableUID("skinners", game)
	if first != StableUID("skinners", game) {
		t.Fatal("expected identical uid for identical input")
	}
	if !strings.HasSuffix(first, "@league-ics") {
		t.Fatalf("expected domain suffix, got %q", first)
	}

	moved := game
	moved.Start = start.Add(24 * time.Hour)
	moved.Home = "Renamed"
	if StableUID("skinners", moved) != first {
		t.Fatal("expected uid keyed on source id to survive reschedules")
	}
	if StableUID("other-team", game) == first {
		t.Fatal("expected slug to scope the uid")
	}
}

func TestStableUIDFallbackKey(t *testing.T) {
	start := time.Date(2026, 1, 10, 19, 0, 0, 0, time.UTC)
	a := games.NormalizedGame{Start: start, Home: "A", Away: "B"}
	b := games.NormalizedGame{Start: start.In(time.FixedZone("EST", -5*3600)), Home: "A", Away: "B", Location: "Elsewhere"}

	if StableUID("s", a) != StableUID("s", b) {
		t.Fatal("expected games without ids at the same instant to share a uid")
	}

	c := a
	c.Start = start.Add(time.Hour)
	if StableUID("s", a) == StableUID("s", c) {
		t.Fatal("expected different start to change the fallback uid")
	}
	if got := uidKey("s", a); got != "s|A|B|2026-01-10T19:00:00Z" {
		t.Fatalf("unexpected fallback key %q", got)
	}
}
