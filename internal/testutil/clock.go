package testutil

import (
	"sync"
	"time"
)

// Clock is a manually advanced time source for code that accepts func() time.Time.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// NowAt returns a clock function frozen at t.
func NowAt(t time.Time) func() time.Time {
	return NewClock(t).Now
}

// KickoffAt parses an RFC 3339 game time for fixtures and panics on malformed input.
func KickoffAt(v string) time.Time {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		panic(err)
	}
	return t
}
