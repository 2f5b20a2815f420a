package services

import (
	"strings"

	"github.com/google/uuid"
)

// NewUniqueID returns the first 8 hex digits of a random UUID, uppercased.
// Collisions are possible and are resolved by the store's unique constraint.
func NewUniqueID() string {
	return strings.ToUpper(uuid.NewString()[:8])
}
