package publish

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"sort"
	"time"
)

const (
	manifestName    = "manifest.json"
	manifestVersion = 1
)

// Manifest lists every published feed.
type Manifest struct {
	Version int `json:"version"`
	// UpdatedAt is the last time any entry changed.
	UpdatedAt time.Time   `json:"updatedAt"`
	Feeds     []FeedEntry `json:"feeds"`
}

// FeedEntry describes one published feed file.
type FeedEntry struct {
	Slug        string    `json:"slug"`
	Filename    string    `json:"filename"`
	Name        string    `json:"name"`
	Events      int       `json:"events"`
	SHA256      string    `json:"sha256"`
	LastChanged time.Time `json:"lastChanged"`
}

// Feed returns the entry for slug.
func (m Manifest) Feed(slug string) (FeedEntry, bool) {
	for _, f := range m.Feeds {
		if f.Slug == slug {
			return f, true
		}
	}
	return FeedEntry{}, false
}

func (m *Manifest) upsert(entry FeedEntry) {
	for i, f := range m.Feeds {
		if f.Slug == entry.Slug {
			m.Feeds[i] = entry
			return
		}
	}
	m.Feeds = append(m.Feeds, entry)
	sort.Slice(m.Feeds, func(i, j int) bool {
		return m.Feeds[i].Slug < m.Feeds[j].Slug
	})
}

func defaultManifest() Manifest {
	return Manifest{
		Version: manifestVersion,
		Feeds:   []FeedEntry{},
	}
}

// readManifest loads the manifest, returning an empty one when none exists yet.
func readManifest(ctx context.Context, backend Backend) (Manifest, error) {
	data, err := backend.Read(ctx, manifestName)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaultManifest(), nil
		}
		return defaultManifest(), err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return defaultManifest(), err
	}
	if m.Feeds == nil {
		m.Feeds = []FeedEntry{}
	}
	return m, nil
}

func writeManifest(ctx context.Context, backend Backend, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return backend.Write(ctx, manifestName, append(data, '\n'), contentTypeJSON)
}
