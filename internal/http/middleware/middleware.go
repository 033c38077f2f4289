package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/preston-bernstein/league-ics/internal/http/requestutil"
	"github.com/preston-bernstein/league-ics/internal/logging"
	"github.com/preston-bernstein/league-ics/internal/metrics"
)

type requestIDKey struct{}

// LoggingMiddleware assigns a request id, attaches a request-scoped logger to the
// context, and records one access log line and one HTTP metric per request.
func LoggingMiddleware(baseLogger *slog.Logger, recorder *metrics.Recorder, next http.Handler) http.Handler {
	if baseLogger == nil {
		baseLogger = slog.Default()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := requestutil.SanitizeRequestID(r.Header.Get(requestutil.HeaderRequestID))
		w.Header().Set(requestutil.HeaderRequestID, id)

		logger := requestLogger(baseLogger, r, id)
		r = r.WithContext(withRequestID(logging.WithLogger(r.Context(), logger), id))

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		elapsed := time.Since(start)
		recorder.RecordHTTPRequest(r.Method, normalizePath(r.URL.Path), sw.status, elapsed)
		logger.Info("request complete",
			slog.Int(logging.FieldStatusCode, sw.status),
			slog.Int64(logging.FieldDurationMS, elapsed.Milliseconds()),
		)
	})
}

func requestLogger(base *slog.Logger, r *http.Request, id string) *slog.Logger {
	return base.With(
		slog.String(logging.FieldRequestID, id),
		slog.String(logging.FieldMethod, r.Method),
		slog.String(logging.FieldPath, r.URL.Path),
		slog.String(logging.FieldClientIP, requestutil.ClientIP(r)),
	)
}

// statusWriter remembers the status code handed to WriteHeader.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// RequestIDFromContext returns the id assigned by LoggingMiddleware, or "".
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// feedRouteSuffixes maps per-feed path suffixes to bounded metric labels.
var feedRouteSuffixes = []struct{ suffix, label string }{
	{".ics", "/feeds/:slug.ics"},
	{".json", "/feeds/:slug.json"},
}

// normalizePath collapses per-feed paths so metric label cardinality stays bounded.
func normalizePath(path string) string {
	path, _, _ = strings.Cut(path, "?")
	if path == "/feeds/" {
		return "/feeds"
	}
	if !strings.HasPrefix(path, "/feeds/") {
		return path
	}
	for _, r := range feedRouteSuffixes {
		if strings.HasSuffix(path, r.suffix) {
			return r.label
		}
	}
	return "/feeds/:other"
}
