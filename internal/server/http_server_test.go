package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewNetHTTPServerAppliesLimits(t *testing.T) {
	handler := http.NotFoundHandler()
	s := newNetHTTPServer("4000", handler)

	if s.Addr() != ":4000" || s.Handler() == nil {
		t.Fatalf("unexpected addr/handler %q", s.Addr())
	}
	if s.srv.ReadHeaderTimeout != readHeaderTimeout || s.srv.WriteTimeout != writeTimeout || s.srv.IdleTimeout != idleTimeout {
		t.Fatalf("expected listener limits, got %+v", s.srv)
	}
}

func TestNetHTTPServerReturnsClosedAfterShutdown(t *testing.T) {
	s := newNetHTTPServer("0", http.NotFoundHandler())
	s.srv.Addr = "127.0.0.1:0"

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe() }()
	time.Sleep(20 * time.Millisecond)

	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("unexpected shutdown error: %v", err)
	}
	select {
	case err := <-done:
		if !errors.Is(err, http.ErrServerClosed) {
			t.Fatalf("expected ErrServerClosed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("listen did not return after shutdown")
	}
}

func TestNetHTTPServerServesWrappedHandler(t *testing.T) {
	s := newNetHTTPServer("0", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/calendar")
		w.WriteHeader(http.StatusOK)
	}))
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/feeds/skinners.ics", nil))
	if rr.Code != http.StatusOK || rr.Header().Get("Content-Type") != "text/calendar" {
		t.Fatalf("unexpected response %d %q", rr.Code, rr.Header().Get("Content-Type"))
	}
}
