package handlers

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	nethttp "net/http"
	"strconv"
	"strings"
	"time"

	appfeeds "github.com/preston-bernstein/league-ics/internal/app/feeds"
	"github.com/preston-bernstein/league-ics/internal/domain/calendar"
	"github.com/preston-bernstein/league-ics/internal/logging"
	"github.com/preston-bernstein/league-ics/internal/poller"
	"github.com/preston-bernstein/league-ics/internal/publish"
)

const calendarContentType = "text/calendar; charset=utf-8"

// FeedStore reads published feeds.
type FeedStore interface {
	Manifest(ctx context.Context) (publish.Manifest, error)
	LoadFeed(ctx context.Context, slug string) ([]byte, publish.FeedEntry, error)
	LoadEvents(ctx context.Context, slug string) (calendar.Feed, error)
}

// Handler serves health probes and the published feeds.
type Handler struct {
	store    FeedStore
	logger   *slog.Logger
	statusFn func() poller.Status
	reportFn func() (appfeeds.RunReport, bool)
}

// NewHandler constructs a Handler. statusFn and reportFn may be nil when no
// refresh loop runs in-process.
func NewHandler(store FeedStore, logger *slog.Logger, statusFn func() poller.Status, reportFn func() (appfeeds.RunReport, bool)) *Handler {
	return &Handler{
		store:    store,
		logger:   logger,
		statusFn: statusFn,
		reportFn: reportFn,
	}
}

func (h *Handler) ServeHTTP(w nethttp.ResponseWriter, r *nethttp.Request) {
	switch {
	case r.URL.Path == "/health":
		h.Health(w, r)
	case r.URL.Path == "/ready":
		h.Ready(w, r)
	case r.URL.Path == "/feeds" || r.URL.Path == "/feeds/":
		h.Feeds(w, r)
	case strings.HasPrefix(r.URL.Path, "/feeds/"):
		h.Feed(w, r)
	default:
		writeError(w, r, nethttp.StatusNotFound, "not found", h.logger)
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness once a refresh has published feeds.
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	if h.statusFn == nil {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	status := h.statusFn()
	if status.IsReady() {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, nethttp.StatusServiceUnavailable, msg, h.logger)
}

type feedsResponse struct {
	UpdatedAt time.Time           `json:"updatedAt"`
	Feeds     []publish.FeedEntry `json:"feeds"`
	LastRun   *appfeeds.RunReport `json:"lastRun,omitempty"`
}

// Feeds lists the published feeds and the most recent run.
func (h *Handler) Feeds(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	logger := loggerFromContext(r, h.logger)
	if h.store == nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "feed store not configured", logger)
		return
	}
	m, err := h.store.Manifest(r.Context())
	if err != nil {
		logging.Error(logger, "manifest unavailable", err)
		writeError(w, r, nethttp.StatusBadGateway, "manifest unavailable", logger)
		return
	}

	resp := feedsResponse{UpdatedAt: m.UpdatedAt, Feeds: m.Feeds}
	if resp.Feeds == nil {
		resp.Feeds = []publish.FeedEntry{}
	}
	if h.reportFn != nil {
		if report, ok := h.reportFn(); ok {
			resp.LastRun = &report
		}
	}
	writeJSON(w, nethttp.StatusOK, resp, logger)
}

// Feed serves /feeds/{slug}.ics as iCalendar and /feeds/{slug}.json as parsed events.
func (h *Handler) Feed(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	logger := loggerFromContext(r, h.logger)
	if h.store == nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "feed store not configured", logger)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/feeds/")
	switch {
	case strings.HasSuffix(name, ".ics"):
		if slug, ok := feedSlug(name, ".ics"); ok {
			h.serveCalendar(w, r, slug, logger)
			return
		}
	case strings.HasSuffix(name, ".json"):
		if slug, ok := feedSlug(name, ".json"); ok {
			h.serveEvents(w, r, slug, logger)
			return
		}
	}
	writeError(w, r, nethttp.StatusNotFound, "feed not found", logger)
}

func (h *Handler) serveCalendar(w nethttp.ResponseWriter, r *nethttp.Request, slug string, logger *slog.Logger) {
	data, entry, err := h.store.LoadFeed(r.Context(), slug)
	if err != nil {
		h.writeStoreError(w, r, slug, err, logger)
		return
	}

	etag := strconv.Quote(entry.SHA256)
	w.Header().Set("ETag", etag)
	if !entry.LastChanged.IsZero() {
		w.Header().Set("Last-Modified", entry.LastChanged.UTC().Format(nethttp.TimeFormat))
	}
	if match := r.Header.Get("If-None-Match"); entry.SHA256 != "" && match == etag {
		w.WriteHeader(nethttp.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", calendarContentType)
	w.Header().Set("Content-Disposition", `inline; filename="`+entry.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(nethttp.StatusOK)
	if r.Method == nethttp.MethodHead {
		return
	}
	if _, err := w.Write(data); err != nil {
		logging.Warn(logger, "feed write interrupted", logging.FieldSlug, slug, logging.FieldError, err)
	}
}

func (h *Handler) serveEvents(w nethttp.ResponseWriter, r *nethttp.Request, slug string, logger *slog.Logger) {
	feed, err := h.store.LoadEvents(r.Context(), slug)
	if err != nil {
		h.writeStoreError(w, r, slug, err, logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, feed, logger)
}

func (h *Handler) writeStoreError(w nethttp.ResponseWriter, r *nethttp.Request, slug string, err error, logger *slog.Logger) {
	if errors.Is(err, publish.ErrFeedNotFound) || errors.Is(err, fs.ErrNotExist) {
		writeError(w, r, nethttp.StatusNotFound, "feed not found", logger)
		return
	}
	logging.Error(logger, "feed unavailable", err, logging.FieldSlug, slug)
	writeError(w, r, nethttp.StatusBadGateway, "feed unavailable", logger)
}

func feedSlug(name, ext string) (string, bool) {
	slug := strings.TrimSuffix(name, ext)
	if slug == "" || strings.ContainsAny(slug, `/\ `) || slug == "." || slug == ".." {
		return "", false
	}
	return slug, true
}
