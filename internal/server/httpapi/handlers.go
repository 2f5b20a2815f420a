// Package httpapi is the web front of LandChain: registration, login,
// logout and the three role dashboards, served as JSON over net/http with
// the session kept in a signed cookie.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/landchain/landchain/internal/common"
	"github.com/landchain/landchain/internal/logging"
	"github.com/landchain/landchain/internal/server/dto"
	"github.com/landchain/landchain/internal/server/models"
	"github.com/landchain/landchain/internal/server/services"
)

type AccountService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*services.RegisterResult, error)
	Login(ctx context.Context, req dto.LoginRequest) (*models.Session, error)
}

type SessionService interface {
	Issue(ctx context.Context, sess *models.Session) (string, error)
	Resolve(ctx context.Context, token string) (*models.Session, error)
	AccessDashboard(ctx context.Context, sess *models.Session, requested models.Role) (*models.Dashboard, error)
	Logout(ctx context.Context, sess *models.Session)
}

// CookieOptions controls the session cookie.
type CookieOptions struct {
	Secure bool
	TTL    time.Duration
}

type Handler struct {
	accounts AccountService
	sessions SessionService
	logger   logging.Logger
	cookie   CookieOptions
}

func NewHandler(a AccountService, s SessionService, logger logging.Logger, cookie CookieOptions) *Handler {
	return &Handler{accounts: a, sessions: s, logger: logger.With("module", "http"), cookie: cookie}
}

const (
	loginPath = "/login"
	homePath  = "/"
)

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	routes := map[string]string{
		"register": "/register",
		"login":    loginPath,
		"logout":   "/logout",
	}
	for _, role := range models.Roles {
		routes[string(role)+"_dashboard"] = role.DashboardPath()
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "LandChain", Data: routes})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	req, err := bindRegister(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	req.Normalize()

	res, err := h.accounts.Register(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err, envelope{Fields: req.FieldValues()})
		return
	}

	writeJSON(w, http.StatusCreated, envelope{
		Success:  true,
		Message:  fmt.Sprintf("Registration successful! Your Unique ID: %s. It has been sent to your email.", res.UniqueID),
		Data:     map[string]string{"unique_id": res.UniqueID},
		Redirect: loginPath,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	req, err := bindLogin(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	req.Normalize()

	sess, err := h.accounts.Login(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err, envelope{Fields: req.FieldValues()})
		return
	}

	token, err := h.sessions.Issue(r.Context(), sess)
	if err != nil {
		h.writeServiceError(w, r, err, envelope{})
		return
	}
	h.setSessionCookie(w, token)

	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: fmt.Sprintf("Welcome back, %s!", sess.Username),
		Data: map[string]string{
			"username":  sess.Username,
			"role":      string(sess.Role),
			"unique_id": sess.UniqueID,
		},
		Redirect: sess.Role.DashboardPath(),
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout(r.Context(), sessionFrom(r.Context()))
	h.clearSessionCookie(w)
	http.Redirect(w, r, homePath, http.StatusSeeOther)
}

// dashboard serves role's page to sessions of that role. Everyone else
// loses their cookie and is sent to the login page.
func (h *Handler) dashboard(role models.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := h.sessions.AccessDashboard(r.Context(), sessionFrom(r.Context()), role)
		if err != nil {
			if !errors.Is(err, common.ErrorUnauthorized) {
				h.writeServiceError(w, r, err, envelope{})
				return
			}
			h.clearSessionCookie(w)
			http.Redirect(w, r, loginPath, http.StatusSeeOther)
			return
		}
		writeJSON(w, http.StatusOK, envelope{Success: true, Data: d})
	}
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, messageFor(common.ErrorUnauthorized))
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Data: map[string]string{
			"username":  sess.Username,
			"role":      string(sess.Role),
			"unique_id": sess.UniqueID,
		},
		Redirect: sess.Role.DashboardPath(),
	})
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "ok"})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, body envelope) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		body.Fields = nil
	}
	if status == http.StatusConflict {
		body.Redirect = loginPath
	}
	body.Success = false
	body.Message = messageFor(err)
	writeJSON(w, status, body)
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.cookie.TTL.Seconds()),
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
