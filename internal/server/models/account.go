package models

import "time"

// Account is a registered user. Accounts are written once and never
// updated or deleted.
type Account struct {
	ID           int64     `db:"id"`
	UniqueID     string    `db:"unique_id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         Role      `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
}

// Session is what a logged-in client carries between requests.
type Session struct {
	Username string
	Role     Role
	UniqueID string
}

// Dashboard is the view returned for a role's landing page.
type Dashboard struct {
	Role     Role   `json:"role"`
	Username string `json:"username"`
	UniqueID string `json:"unique_id"`
	Path     string `json:"path"`
}
