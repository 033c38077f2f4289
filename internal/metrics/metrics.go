package metrics

import (
	"sync"
	"time"
)

// FeedResult summarizes one feed generation for metrics.
type FeedResult struct {
	Events     int
	Dropped    int
	Duplicates int
	Changed    bool
	Err        error
}

// Snapshot is a copy of the stats recorded for one upstream provider.
type Snapshot struct {
	Calls           int
	Errors          int
	RateLimitHits   int
	LastRetryAfter  time.Duration
	LastCallLatency time.Duration
}

// FeedSnapshot is a copy of the stats recorded for one feed. Events is the count
// from the latest successful generation.
type FeedSnapshot struct {
	Runs       int
	Failures   int
	Writes     int
	Events     int
	Dropped    int
	Duplicates int
}

// Recorder captures in-memory metrics about schedule fetches and generated feeds,
// mirroring them to OpenTelemetry instruments when Setup enabled them.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	mu        sync.Mutex
	providers map[string]*Snapshot
	feeds     map[string]*FeedSnapshot
	otel      *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		providers: make(map[string]*Snapshot),
		feeds:     make(map[string]*FeedSnapshot),
		otel:      otel,
	}
}

// entry returns the value for key, creating it on first use. Callers hold mu.
func entry[T any](m map[string]*T, key string) *T {
	v, ok := m[key]
	if !ok {
		v = new(T)
		m[key] = v
	}
	return v
}

// RecordProviderAttempt counts one upstream schedule request and stores its latency.
func (r *Recorder) RecordProviderAttempt(provider string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	s := entry(r.providers, provider)
	s.Calls++
	s.LastCallLatency = duration
	if err != nil {
		s.Errors++
	}
	r.mu.Unlock()

	r.otel.recordProviderAttempt(provider, duration, err)
}

// RecordRateLimit tracks a rate-limited upstream response and its Retry-After.
func (r *Recorder) RecordRateLimit(provider string, retryAfter time.Duration) {
	if r == nil {
		return
	}
	r.mu.Lock()
	s := entry(r.providers, provider)
	s.RateLimitHits++
	if retryAfter > 0 {
		s.LastRetryAfter = retryAfter
	}
	r.mu.Unlock()

	r.otel.recordRateLimit(provider, retryAfter)
}

// RecordFeed tracks the outcome of generating one team's feed.
func (r *Recorder) RecordFeed(slug string, res FeedResult) {
	if r == nil {
		return
	}
	r.mu.Lock()
	s := entry(r.feeds, slug)
	s.Runs++
	switch {
	case res.Err != nil:
		s.Failures++
	default:
		s.Events = res.Events
		s.Dropped += res.Dropped
		s.Duplicates += res.Duplicates
		if res.Changed {
			s.Writes++
		}
	}
	r.mu.Unlock()

	r.otel.recordFeed(slug, res)
}

// RecordHTTPRequest tracks basic HTTP metrics. Only OpenTelemetry keeps them.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// RecordRun tracks one full generation run across all teams.
func (r *Recorder) RecordRun(duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.otel.recordRun(duration, err)
}

// Snapshot returns a copy of the current stats for the provider.
func (r *Recorder) Snapshot(provider string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.providers[provider]; ok {
		return *s
	}
	return Snapshot{}
}

// FeedSnapshot returns a copy of the current stats for the feed.
func (r *Recorder) FeedSnapshot(slug string) FeedSnapshot {
	if r == nil {
		return FeedSnapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.feeds[slug]; ok {
		return *s
	}
	return FeedSnapshot{}
}

func (r *Recorder) ProviderCalls(provider string) int { return r.Snapshot(provider).Calls }

func (r *Recorder) ProviderErrors(provider string) int { return r.Snapshot(provider).Errors }

func (r *Recorder) RateLimitHits(provider string) int { return r.Snapshot(provider).RateLimitHits }

func (r *Recorder) LastRetryAfter(provider string) time.Duration {
	return r.Snapshot(provider).LastRetryAfter
}

func (r *Recorder) LastCallLatency(provider string) time.Duration {
	return r.Snapshot(provider).LastCallLatency
}
