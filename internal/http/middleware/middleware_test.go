package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/preston-bernstein/league-ics/internal/metrics"
	"github.com/preston-bernstein/league-ics/internal/testutil"
)

func TestLoggingMiddlewareRequestID(t *testing.T) {
	cases := []struct {
		name     string
		header   string
		wantSame bool
	}{
		{name: "valid id is kept", header: "req-1", wantSame: true},
		{name: "invalid id is replaced", header: "bad id with spaces"},
		{name: "missing id is generated"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var seen string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = RequestIDFromContext(r.Context())
			})
			req := httptest.NewRequest(http.MethodGet, "/feeds", nil)
			if tc.header != "" {
				req.Header.Set("X-Request-ID", tc.header)
			}
			rr := testutil.ServeRequest(LoggingMiddleware(nil, nil, next), req)

			echoed := rr.Header().Get("X-Request-ID")
			if echoed == "" || echoed != seen {
				t.Fatalf("context id %q, header id %q", seen, echoed)
			}
			if (echoed == tc.header) != tc.wantSame {
				t.Fatalf("header %q -> %q", tc.header, echoed)
			}
		})
	}
}

func TestLoggingMiddlewareLogsAndRecords(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	rec := metrics.NewRecorder()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rr := testutil.Serve(LoggingMiddleware(logger, rec, next), http.MethodGet, "/feeds/skinners.ics", nil)

	testutil.AssertStatus(t, rr, http.StatusTeapot)
	out := buf.String()
	for _, want := range []string{"request complete", "status_code=418", "path=/feeds/skinners.ics"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log missing %q: %s", want, out)
		}
	}
}

func TestLoggingMiddlewareDefaultsStatusToOK(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	rr := testutil.Serve(LoggingMiddleware(nil, nil, next), http.MethodGet, "/health", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestStatusWriterRecordsStatus(t *testing.T) {
	w := &statusWriter{ResponseWriter: httptest.NewRecorder()}
	w.WriteHeader(http.StatusAccepted)
	if w.status != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", w.status)
	}
}

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"":                      "",
		"/feeds":                "/feeds",
		"/feeds/":               "/feeds",
		"/feeds/skinners.ics":   "/feeds/:slug.ics",
		"/feeds/skinners.json":  "/feeds/:slug.json",
		"/feeds/whatever":       "/feeds/:other",
		"/feeds/a.ics?x=1":      "/feeds/:slug.ics",
		"/health":               "/health",
		"/admin/regenerate?t=1": "/admin/regenerate",
	}
	for in, want := range cases {
		if got := normalizePath(in); got != want {
			t.Errorf("normalizePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRequestIDFromContext(t *testing.T) {
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Fatalf("empty context id = %q", got)
	}
	if got := RequestIDFromContext(withRequestID(context.Background(), "abc123")); got != "abc123" {
		t.Fatalf("id = %q", got)
	}
	//nolint:staticcheck // nil context is handled explicitly
	if got := RequestIDFromContext(nil); got != "" {
		t.Fatalf("nil context id = %q", got)
	}
}

func BenchmarkLoggingMiddleware(b *testing.B) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := LoggingMiddleware(logger, metrics.NewRecorder(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/feeds/skinners.ics", nil))
	}
}
