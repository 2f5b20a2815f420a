// Package common defines shared constants and sentinel errors used across
// the LandChain server and client. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound   = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicate key")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Registration validation errors, checked in this order.
	ErrMissingField     = errors.New("all fields are required")
	ErrInvalidRole      = errors.New("role must be one of admin, user, government")
	ErrInvalidEmail     = errors.New("please enter a valid email address")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrWeakPassword     = errors.New("password must be 8+ chars with uppercase, lowercase, number, special char")

	// ErrEmailAlreadyRegistered tells the caller to send the user to login.
	ErrEmailAlreadyRegistered = errors.New("email already registered")

	// ErrInvalidCredentials is returned for every failed login, whichever
	// of unique id, password or role was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Session token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
