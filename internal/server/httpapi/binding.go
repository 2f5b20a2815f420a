package httpapi

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/landchain/landchain/internal/server/dto"
)

const maxBodyBytes = 1 << 20

var errBadBody = errors.New("invalid request body")

func isJSON(r *http.Request) bool {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mt == "application/json"
}

// decodeJSON reads a single JSON object of at most maxBodyBytes.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errBadBody
	}
	return nil
}

func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return errBadBody
	}
	return nil
}

// bindRegister accepts a JSON body or an HTML form.
func bindRegister(w http.ResponseWriter, r *http.Request) (dto.RegisterRequest, error) {
	var req dto.RegisterRequest
	if isJSON(r) {
		return req, decodeJSON(w, r, &req)
	}
	if err := parseForm(w, r); err != nil {
		return req, err
	}
	req.Username = r.PostForm.Get("username")
	req.Email = r.PostForm.Get("email")
	req.Password = r.PostForm.Get("password")
	req.ConfirmPassword = r.PostForm.Get("confirm_password")
	req.Role = r.PostForm.Get("role")
	return req, nil
}

func bindLogin(w http.ResponseWriter, r *http.Request) (dto.LoginRequest, error) {
	var req dto.LoginRequest
	if isJSON(r) {
		return req, decodeJSON(w, r, &req)
	}
	if err := parseForm(w, r); err != nil {
		return req, err
	}
	req.UniqueID = r.PostForm.Get("unique_id")
	req.Password = r.PostForm.Get("password")
	req.Role = r.PostForm.Get("role")
	return req, nil
}
