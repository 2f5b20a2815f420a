package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/landchain/landchain/internal/common"
)

// envelope is the body of every JSON response.
type envelope struct {
	Success  bool              `json:"success"`
	Message  string            `json:"message,omitempty"`
	Data     any               `json:"data,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

// statusFor maps service errors to HTTP statuses. Anything unknown is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrMissingField),
		errors.Is(err, common.ErrInvalidRole),
		errors.Is(err, common.ErrInvalidEmail),
		errors.Is(err, common.ErrPasswordMismatch),
		errors.Is(err, common.ErrWeakPassword):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrEmailAlreadyRegistered):
		return http.StatusConflict
	case errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// messageFor returns the client-facing text for err. Internal errors are
// never described.
func messageFor(err error) string {
	switch {
	case errors.Is(err, common.ErrEmailAlreadyRegistered):
		return "Email already registered! Try logging in."
	case errors.Is(err, common.ErrInvalidCredentials):
		return "Invalid credentials! Check your ID, password, and role."
	case errors.Is(err, common.ErrorUnauthorized):
		return "Unauthorized access."
	}
	if statusFor(err) == http.StatusBadRequest {
		return err.Error()
	}
	return "Internal server error."
}
