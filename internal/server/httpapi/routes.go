package httpapi

import (
	"net/http"

	"github.com/landchain/landchain/internal/server/models"
)

// Routes returns the full handler tree with middleware applied.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.home)
	mux.HandleFunc("POST /register", h.register)
	mux.HandleFunc("POST /login", h.login)
	mux.HandleFunc("GET /logout", h.logout)
	mux.HandleFunc("POST /logout", h.logout)

	for _, role := range models.Roles {
		mux.HandleFunc("GET "+role.DashboardPath(), h.dashboard(role))
	}

	mux.HandleFunc("GET /api/me", h.me)
	mux.HandleFunc("GET /api/healthz", h.healthz)

	return h.withRecover(h.withLogging(h.withSession(mux)))
}
