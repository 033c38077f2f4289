package testutil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/preston-bernstein/league-ics/internal/config"
	"github.com/preston-bernstein/league-ics/internal/domain/games"
)

func TestClockHelpers(t *testing.T) {
	start := time.Date(2026, 1, 10, 19, 0, 0, 0, time.UTC)
	if got := NowAt(start)(); !got.Equal(start) {
		t.Fatalf("expected frozen time, got %v", got)
	}
	clock := NewClock(start)
	clock.Advance(80 * time.Minute)
	if got := clock.Now(); !got.Equal(start.Add(80 * time.Minute)) {
		t.Fatalf("expected advanced clock, got %v", got)
	}
	if !KickoffAt("2026-01-10T14:00:00-05:00").Equal(start) {
		t.Fatalf("expected kickoff parse to honor offset")
	}
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic on malformed kickoff")
		}
	}()
	KickoffAt("not-a-time")
}

func TestFixturesHelper(t *testing.T) {
	g := SampleRawGame("g1", 1254, "Skinners", 99, "Rivals", "2026-01-10T19:00:00-05:00")
	if id, ok := g.SourceID(); !ok || id != "g1" {
		t.Fatalf("unexpected game fixture %+v", g)
	}
	team := SampleTeam("skinners", "https://example.test")
	if err := config.ValidateTeam(0, team, "UTC"); err != nil {
		t.Fatalf("expected valid team fixture, got %v", err)
	}

	decoded, skipped, err := games.DecodeRawGames(SchedulePayload(g))
	if err != nil || skipped != 0 {
		t.Fatalf("expected payload to decode, got skipped=%d err=%v", skipped, err)
	}
	if len(decoded) != 1 {
		t.Fatalf("expected one decoded game, got %+v", decoded)
	}
	home, away := decoded[0].Teams()
	if home.ID.Int != 1254 || away.Name.String != "Rivals" || decoded[0].Start.String != g.Start.String {
		t.Fatalf("unexpected decoded game %+v", decoded[0])
	}
}

func TestServeHelpers(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	rr := Serve(handler, http.MethodPost, "/test", strings.NewReader("{}"))
	AssertStatus(t, rr, http.StatusCreated)
	var body map[string]bool
	DecodeJSON(t, rr, &body)
	if !body["ok"] {
		t.Fatalf("expected ok=true")
	}

	req := httptest.NewRequest(http.MethodGet, "/req", nil)
	rr2 := ServeRequest(handler, req)
	AssertStatus(t, rr2, http.StatusCreated)
}

func TestHTTPHelperErrorFormatting(t *testing.T) {
	rr := httptest.NewRecorder()
	rr.WriteHeader(http.StatusBadRequest)
	rr.WriteString(strings.Repeat("x", 600))

	if err := statusError(rr, http.StatusOK); err == nil {
		t.Fatalf("expected status error")
	} else if !strings.Contains(err.Error(), "body=") {
		t.Fatalf("expected body snippet in error, got %v", err)
	}

	rr = httptest.NewRecorder()
	rr.WriteHeader(http.StatusOK)
	if err := statusError(rr, http.StatusOK); err != nil {
		t.Fatalf("expected nil error when status matches, got %v", err)
	}

	rr = httptest.NewRecorder()
	rr.WriteString(`{"ok":true}`)
	if err := decodeJSONBody(rr, &map[string]any{}); err != nil {
		t.Fatalf("expected decode success, got %v", err)
	}
	rr = httptest.NewRecorder()
	rr.WriteString("not-json")
	var dest map[string]any
	if err := decodeJSONBody(rr, &dest); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestLoggerAndMetricsHelpers(t *testing.T) {
	logger, buf := NewBufferLogger()
	logger.Info("hello", "k", "v")
	if buf.Len() == 0 {
		t.Fatalf("expected buffered log output")
	}
	rec, shutdown := NewRecorderWithShutdown()
	if rec == nil || shutdown == nil {
		t.Fatalf("expected recorder and shutdown")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("expected nil shutdown error, got %v", err)
	}
	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	if err := shutdown(canceled); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled shutdown to report it, got %v", err)
	}
}

func TestFixedProvider(t *testing.T) {
	g := []games.RawGame{SampleRawGame("g1", 1, "A", 2, "B", "2026-01-01T00:00:00Z")}
	boom := errors.New("boom")

	p := &FixedProvider{Games: g, Err: boom}
	got, err := p.FetchSchedule(context.Background(), "")
	if len(got) != 1 || !errors.Is(err, boom) {
		t.Fatalf("expected fixed answer, got %v %v", got, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.FetchSchedule(ctx, ""); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled context to win, got %v", err)
	}
	if p.Calls() != 2 {
		t.Fatalf("calls = %d, want 2", p.Calls())
	}
}
