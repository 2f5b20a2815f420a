// Package dto holds the request types accepted at the API boundary and
// their validation.
package dto

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/landchain/landchain/internal/common"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("landchain_email", func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	})
	_ = v.RegisterValidation("strong_password", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
	return v
}

// RegisterRequest is the registration form.
type RegisterRequest struct {
	Username        string `json:"username" validate:"required"`
	Email           string `json:"email" validate:"required,landchain_email"`
	Password        string `json:"password" validate:"required,strong_password"`
	ConfirmPassword string `json:"confirm_password" validate:"eqfield=Password"`
	Role            string `json:"role" validate:"required,oneof=admin user government"`
}

// Normalize trims the free-text fields and lowercases the role. Passwords
// are left as typed.
func (r *RegisterRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	r.Role = strings.ToLower(strings.TrimSpace(r.Role))
}

// Validate reports the first failing rule, checked in this order:
// missing field, unknown role, email format, password confirmation,
// password strength.
func (r *RegisterRequest) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	failed := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		failed[fe.Field()] = fe.Tag()
	}

	for _, field := range []string{"Username", "Email", "Password", "Role"} {
		if failed[field] == "required" {
			return common.ErrMissingField
		}
	}

	switch {
	case failed["Role"] != "":
		return common.ErrInvalidRole
	case failed["Email"] != "":
		return common.ErrInvalidEmail
	case failed["ConfirmPassword"] != "":
		return common.ErrPasswordMismatch
	case failed["Password"] != "":
		return common.ErrWeakPassword
	}
	return err
}

// FieldValues returns the non-secret fields, echoed back so the client can
// refill its form.
func (r *RegisterRequest) FieldValues() map[string]string {
	return map[string]string{
		"username": r.Username,
		"email":    r.Email,
		"role":     r.Role,
	}
}

// LoginRequest is the login form.
type LoginRequest struct {
	UniqueID string `json:"unique_id" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

// Normalize trims the unique ID and role and uppercases the unique ID so
// that "ab12cd34" finds "AB12CD34".
func (r *LoginRequest) Normalize() {
	r.UniqueID = strings.ToUpper(strings.TrimSpace(r.UniqueID))
	r.Role = strings.ToLower(strings.TrimSpace(r.Role))
}

// Validate only checks presence; everything else is a credentials failure.
func (r *LoginRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return common.ErrMissingField
	}
	return nil
}

func (r *LoginRequest) FieldValues() map[string]string {
	return map[string]string{
		"unique_id": r.UniqueID,
		"role":      r.Role,
	}
}
