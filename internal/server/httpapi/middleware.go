package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/landchain/landchain/internal/common"
	"github.com/landchain/landchain/internal/server/models"
)

type ctxKey string

const sessionKey ctxKey = "session"

func sessionFrom(ctx context.Context) *models.Session {
	s, _ := ctx.Value(sessionKey).(*models.Session)
	return s
}

// withSession resolves the session cookie, if any, into the request
// context. An unusable cookie is treated as no session.
func (h *Handler) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(common.SessionCookieName)
		if err == nil && c.Value != "" {
			if sess, err := h.sessions.Resolve(r.Context(), c.Value); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), sessionKey, sess))
			}
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

func (h *Handler) withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				h.logger.Error(r.Context(), "panic in handler", "panic", p, "path", r.URL.Path)
				writeError(w, http.StatusInternalServerError, "Internal server error.")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
