package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/preston-bernstein/league-ics/internal/poller"
)

// stubPoller records lifecycle calls and reports a fixed status.
type stubPoller struct {
	StopErr   error
	StatusVal poller.Status

	mu     sync.Mutex
	starts int
	stops  int
}

func (p *stubPoller) Start(context.Context) {
	p.mu.Lock()
	p.starts++
	p.mu.Unlock()
}

func (p *stubPoller) Stop(context.Context) error {
	p.mu.Lock()
	p.stops++
	p.mu.Unlock()
	return p.StopErr
}

func (p *stubPoller) Status() poller.Status {
	return p.StatusVal
}

// Calls returns how many times Start and Stop ran.
func (p *stubPoller) Calls() (starts, stops int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.starts, p.stops
}

// stubHTTPServer stands in for netHTTPServer. ListenAndServe returns
// ListenErr immediately. When Block is set, Shutdown waits for it to close or
// for the context to expire.
type stubHTTPServer struct {
	AddrVal     string
	HandlerVal  http.Handler
	ListenErr   error
	ShutdownErr error
	Block       chan struct{}

	mu        sync.Mutex
	listens   int
	shutdowns int
}

func (s *stubHTTPServer) ListenAndServe() error {
	s.mu.Lock()
	s.listens++
	s.mu.Unlock()
	return s.ListenErr
}

func (s *stubHTTPServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.shutdowns++
	s.mu.Unlock()
	if s.Block == nil {
		return s.ShutdownErr
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.Block:
		return s.ShutdownErr
	}
}

func (s *stubHTTPServer) Addr() string {
	if s.AddrVal == "" {
		return ":0"
	}
	return s.AddrVal
}

func (s *stubHTTPServer) Handler() http.Handler {
	if s.HandlerVal == nil {
		return http.NotFoundHandler()
	}
	return s.HandlerVal
}

// Calls returns how many times ListenAndServe and Shutdown ran.
func (s *stubHTTPServer) Calls() (listens, shutdowns int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listens, s.shutdowns
}
