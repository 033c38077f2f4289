package http

import (
	nethttp "net/http"

	"github.com/preston-bernstein/league-ics/internal/http/handlers"
)

// NewRouter registers HTTP routes on a ServeMux. The admin route is mounted only when admin is non-nil.
func NewRouter(handler *handlers.Handler, admin *handlers.AdminHandler) nethttp.Handler {
	mux := nethttp.NewServeMux()
	mux.HandleFunc("/health", handler.Health)
	mux.HandleFunc("/ready", handler.Ready)
	mux.HandleFunc("/feeds", handler.Feeds)
	mux.HandleFunc("/feeds/", handler.Feed)
	if admin != nil {
		mux.HandleFunc("/admin/refresh", admin.Refresh)
	}
	return mux
}
