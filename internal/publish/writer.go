package publish

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/league-ics/internal/logging"
)

const (
	contentTypeCalendar = "text/calendar; charset=utf-8"
	contentTypeJSON     = "application/json"
)

// Feed is one serialized calendar ready to publish.
type Feed struct {
	Slug     string
	Filename string
	Name     string
	Events   int
	Data     []byte
}

// Publisher persists generated feeds.
type Publisher interface {
	Publish(ctx context.Context, feed Feed) (bool, error)
}

// Writer publishes feeds to a Backend and keeps manifest.json in step. Unchanged
// feeds are not rewritten, and the manifest is only rewritten when an entry changes,
// so a run over an unchanged schedule touches nothing.
type Writer struct {
	backend Backend
	logger  *slog.Logger
	now     func() time.Time
	mu      sync.Mutex
}

// NewWriter constructs a writer over backend.
func NewWriter(backend Backend, logger *slog.Logger) *Writer {
	return &Writer{
		backend: backend,
		logger:  logger,
		now:     time.Now,
	}
}

// NewFileWriter publishes into dir.
func NewFileWriter(dir string, logger *slog.Logger) *Writer {
	return NewWriter(NewDirBackend(dir), logger)
}

// NewGCSWriter publishes into a Cloud Storage bucket. The returned close function
// releases the Storage client.
func NewGCSWriter(ctx context.Context, cfg GCSConfig, logger *slog.Logger) (*Writer, func() error, error) {
	backend, err := NewGCSBackend(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return NewWriter(backend, logger), backend.Close, nil
}

// Backend exposes the storage the writer publishes to.
func (w *Writer) Backend() Backend {
	if w == nil {
		return nil
	}
	return w.backend
}

// Publish writes feed when its bytes differ from what is already published and
// reports whether anything was written.
func (w *Writer) Publish(ctx context.Context, feed Feed) (bool, error) {
	if w == nil || w.backend == nil {
		return false, errors.New("feed publisher not configured")
	}
	if feed.Slug == "" || feed.Filename == "" {
		return false, fmt.Errorf("publish: slug and filename required")
	}

	changed := true
	existing, err := w.backend.Read(ctx, feed.Filename)
	switch {
	case err == nil:
		changed = !bytes.Equal(existing, feed.Data)
	case !errors.Is(err, fs.ErrNotExist):
		logging.Warn(w.logger, "reading published feed failed; rewriting",
			logging.FieldSlug, feed.Slug,
			logging.FieldError, err,
		)
	}

	if changed {
		if err := w.backend.Write(ctx, feed.Filename, feed.Data, contentTypeCalendar); err != nil {
			return false, fmt.Errorf("publish %s: %w", w.backend.Location(feed.Filename), err)
		}
	}

	sum := sha256.Sum256(feed.Data)
	entry := FeedEntry{
		Slug:     feed.Slug,
		Filename: feed.Filename,
		Name:     feed.Name,
		Events:   feed.Events,
		SHA256:   hex.EncodeToString(sum[:]),
	}
	if err := w.updateManifest(ctx, entry, changed); err != nil {
		return changed, fmt.Errorf("publish manifest: %w", err)
	}

	logging.Info(w.logger, "feed published",
		logging.FieldSlug, feed.Slug,
		logging.FieldCount, feed.Events,
		logging.FieldChanged, changed,
		"location", w.backend.Location(feed.Filename),
	)
	return changed, nil
}

func (w *Writer) updateManifest(ctx context.Context, entry FeedEntry, changed bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	m, err := readManifest(ctx, w.backend)
	if err != nil {
		logging.Warn(w.logger, "manifest unreadable; rebuilding", logging.FieldError, err)
	}

	now := w.now().UTC()
	prev, ok := m.Feed(entry.Slug)
	entry.LastChanged = prev.LastChanged
	if changed || !ok || prev.SHA256 != entry.SHA256 {
		entry.LastChanged = now
	}
	if ok && prev == entry {
		return nil
	}

	m.upsert(entry)
	m.UpdatedAt = now
	return writeManifest(ctx, w.backend, m)
}

// Retain drops manifest entries for slugs no longer configured. Their feed files
// are left in place so existing subscribers keep the last published schedule.
func (w *Writer) Retain(ctx context.Context, slugs []string) error {
	if w == nil || w.backend == nil {
		return errors.New("feed publisher not configured")
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	m, err := readManifest(ctx, w.backend)
	if err != nil {
		return err
	}
	keep := make(map[string]struct{}, len(slugs))
	for _, s := range slugs {
		keep[s] = struct{}{}
	}

	kept := make([]FeedEntry, 0, len(m.Feeds))
	for _, f := range m.Feeds {
		if _, ok := keep[f.Slug]; ok {
			kept = append(kept, f)
			continue
		}
		logging.Info(w.logger, "dropping unconfigured feed from manifest", logging.FieldSlug, f.Slug)
	}
	if len(kept) == len(m.Feeds) {
		return nil
	}
	m.Feeds = kept
	m.UpdatedAt = w.now().UTC()
	return writeManifest(ctx, w.backend, m)
}
