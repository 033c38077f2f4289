package handlers

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"

	appfeeds "github.com/preston-bernstein/league-ics/internal/app/feeds"
	"github.com/preston-bernstein/league-ics/internal/http/requestutil"
	"github.com/preston-bernstein/league-ics/internal/logging"
)

// Refresher regenerates every feed on demand.
type Refresher interface {
	RunOnce(ctx context.Context) (appfeeds.RunReport, error)
}

// AdminHandler exposes admin-only endpoints.
type AdminHandler struct {
	refresher Refresher
	token     string
	logger    *slog.Logger
}

// NewAdminHandler constructs an AdminHandler. An empty token disables every admin route.
func NewAdminHandler(refresher Refresher, token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		refresher: refresher,
		token:     token,
		logger:    logger,
	}
}

// Refresh regenerates all feeds immediately and returns the run report.
func (h *AdminHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost, h.logger) {
		return
	}
	logger := loggerFromContext(r, h.logger)
	if !h.authorize(r) {
		logging.Warn(logger, "admin unauthorized",
			slog.String(logging.FieldPath, r.URL.Path),
			slog.String(logging.FieldClientIP, requestutil.ClientIP(r)),
		)
		writeError(w, r, http.StatusUnauthorized, "unauthorized", logger)
		return
	}
	if h.refresher == nil {
		writeError(w, r, http.StatusServiceUnavailable, "refresh not configured", logger)
		return
	}

	report, err := h.refresher.RunOnce(r.Context())
	status := http.StatusOK
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		writeError(w, r, http.StatusServiceUnavailable, "refresh interrupted", logger)
		return
	default:
		status = http.StatusBadGateway
	}

	logging.Info(logger, "admin refresh complete",
		"succeeded", report.Succeeded(),
		"failed", report.Failed(),
	)
	writeJSON(w, status, report, logger)
}

func (h *AdminHandler) authorize(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	want := []byte("Bearer " + h.token)
	got := []byte(r.Header.Get("Authorization"))
	return subtle.ConstantTimeCompare(got, want) == 1
}
