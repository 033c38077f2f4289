package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/preston-bernstein/league-ics/internal/domain/calendar"
)

// ErrFeedNotFound is returned for slugs absent from the manifest.
var ErrFeedNotFound = errors.New("feed not found")

// Store reads published feeds back for serving.
type Store struct {
	backend Backend
}

// NewStore reads from backend.
func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// NewFSStore reads feeds published into dir.
func NewFSStore(dir string) *Store {
	return NewStore(NewDirBackend(dir))
}

// Manifest returns the current manifest; an empty one when nothing is published.
func (s *Store) Manifest(ctx context.Context) (Manifest, error) {
	if s == nil || s.backend == nil {
		return defaultManifest(), errors.New("feed store not configured")
	}
	return readManifest(ctx, s.backend)
}

// LoadFeed returns the published iCalendar bytes for slug.
func (s *Store) LoadFeed(ctx context.Context, slug string) ([]byte, FeedEntry, error) {
	m, err := s.Manifest(ctx)
	if err != nil {
		return nil, FeedEntry{}, err
	}
	entry, ok := m.Feed(slug)
	if !ok {
		return nil, FeedEntry{}, fmt.Errorf("%w: %s", ErrFeedNotFound, slug)
	}
	data, err := s.backend.Read(ctx, entry.Filename)
	if err != nil {
		return nil, FeedEntry{}, err
	}
	return data, entry, nil
}

// LoadEvents parses the published feed for slug back into calendar events.
func (s *Store) LoadEvents(ctx context.Context, slug string) (calendar.Feed, error) {
	data, entry, err := s.LoadFeed(ctx, slug)
	if err != nil {
		return calendar.Feed{}, err
	}
	feed, err := ParseFeed(data)
	if err != nil {
		return calendar.Feed{}, fmt.Errorf("parse %s: %w", entry.Filename, err)
	}
	if feed.Name == "" {
		feed.Name = entry.Name
	}
	return feed, nil
}

// ParseFeed decodes iCalendar text into a Feed. Times keep the zone named by TZID.
func ParseFeed(data []byte) (calendar.Feed, error) {
	cal, err := ical.NewDecoder(bytes.NewReader(data)).Decode()
	if err != nil {
		return calendar.Feed{}, err
	}

	feed := calendar.Feed{
		Name:     propText(cal.Props, "X-WR-CALNAME"),
		Timezone: propText(cal.Props, "X-WR-TIMEZONE"),
		Events:   []calendar.Event{},
	}
	loc := time.UTC
	if feed.Timezone != "" {
		if l, err := time.LoadLocation(feed.Timezone); err == nil {
			loc = l
		}
	}

	for _, comp := range cal.Children {
		if comp.Name != ical.CompEvent {
			continue
		}
		ev := calendar.Event{
			UID:         propText(comp.Props, ical.PropUID),
			Title:       propText(comp.Props, ical.PropSummary),
			Location:    propText(comp.Props, ical.PropLocation),
			Description: propText(comp.Props, ical.PropDescription),
		}
		if prop := comp.Props.Get(ical.PropDateTimeStart); prop != nil {
			if ev.Start, err = prop.DateTime(loc); err != nil {
				return calendar.Feed{}, fmt.Errorf("event %s: %w", ev.UID, err)
			}
		}
		if prop := comp.Props.Get(ical.PropDateTimeEnd); prop != nil {
			if ev.End, err = prop.DateTime(loc); err != nil {
				return calendar.Feed{}, fmt.Errorf("event %s: %w", ev.UID, err)
			}
		}
		feed.Events = append(feed.Events, ev)
	}
	return feed, nil
}

func propText(props ical.Props, name string) string {
	prop := props.Get(name)
	if prop == nil {
		return ""
	}
	if text, err := prop.Text(); err == nil {
		return text
	}
	return strings.TrimSpace(prop.Value)
}
