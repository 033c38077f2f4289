package teststubs

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/league-ics/internal/domain/games"
	"github.com/preston-bernstein/league-ics/internal/publish"
)

// StubProvider is a test double for providers.ScheduleProvider. ByURL answers
// per schedule URL; Games and Err answer everything else.
type StubProvider struct {
	Games  []games.RawGame
	Err    error
	ByURL  map[string][]games.RawGame
	ErrURL map[string]error
	Calls  atomic.Int32
	Notify chan struct{}

	mu   sync.Mutex
	urls []string
}

// FetchSchedule returns configured games and error while tracking calls.
func (s *StubProvider) FetchSchedule(ctx context.Context, url string) ([]games.RawGame, error) {
	_ = ctx
	s.mu.Lock()
	if s.Notify != nil {
		select {
		case <-s.Notify:
		default:
			close(s.Notify)
		}
	}
	s.urls = append(s.urls, url)
	s.mu.Unlock()
	s.Calls.Add(1)

	if err, ok := s.ErrURL[url]; ok {
		return nil, err
	}
	if g, ok := s.ByURL[url]; ok {
		return g, nil
	}
	return s.Games, s.Err
}

// URLs returns the requested URLs in call order.
func (s *StubProvider) URLs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.urls...)
}

// StubPublisher is a test double for publish.Publisher that keeps feeds in memory
// and reports a change only when the bytes differ from the last publish.
type StubPublisher struct {
	Err error

	mu        sync.Mutex
	Published map[string]publish.Feed
	Writes    int
	Retained  []string
}

// Publish records the feed for verification in tests.
func (p *StubPublisher) Publish(ctx context.Context, feed publish.Feed) (bool, error) {
	_ = ctx
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return false, p.Err
	}
	if p.Published == nil {
		p.Published = make(map[string]publish.Feed)
	}
	prev, ok := p.Published[feed.Slug]
	if ok && string(prev.Data) == string(feed.Data) {
		return false, nil
	}
	p.Published[feed.Slug] = feed
	p.Writes++
	return true, nil
}

// Retain records the slugs the service asked to keep.
func (p *StubPublisher) Retain(ctx context.Context, slugs []string) error {
	_ = ctx
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Retained = append([]string(nil), slugs...)
	return nil
}

// Feed returns the last published feed for slug.
func (p *StubPublisher) Feed(slug string) (publish.Feed, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	f, ok := p.Published[slug]
	return f, ok
}
