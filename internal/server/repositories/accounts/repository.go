// Package accounts stores LandChain user accounts.
package accounts

import (
	"context"
	"fmt"

	"github.com/landchain/landchain/internal/common"
	"github.com/landchain/landchain/internal/server/models"
)

// Repository is the credential store. Accounts are only ever inserted and
// looked up; lookups miss with common.ErrorNotFound.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByUniqueIDAndRole(ctx context.Context, uniqueID string, role models.Role) (*models.Account, error)
	// Create inserts account and fills in ID and CreatedAt. A unique
	// violation is reported as *DuplicateKeyError.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
}

// Columns carrying a unique constraint.
const (
	ColumnEmail    = "email"
	ColumnUniqueID = "unique_id"
)

// DuplicateKeyError reports which unique column an insert collided on.
type DuplicateKeyError struct {
	Column string
	Err    error
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key on %s: %v", e.Column, e.Err)
}

func (e *DuplicateKeyError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, common.ErrDuplicateKey) hold.
func (e *DuplicateKeyError) Is(target error) bool {
	return target == common.ErrDuplicateKey
}
