package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/landchain/landchain/internal/dbx"
	"github.com/landchain/landchain/internal/server/models"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func (r *SQLiteRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query :=
		`INSERT INTO accounts (unique_id, username, email, password_hash, role, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 `

	createdAt := r.now().UTC().Truncate(time.Second)
	res, err := r.db.ExecContext(ctx, query,
		account.UniqueID, account.Username, account.Email, account.PasswordHash, string(account.Role), createdAt)
	if err != nil {
		if dup := sqliteDuplicate(err); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	account.ID = id
	account.CreatedAt = createdAt
	return account, nil
}

func (r *SQLiteRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	query :=
		`SELECT id, unique_id, username, email, password_hash, role, created_at FROM accounts
		 WHERE email = ?
		 `

	return scanAccount(r.db.QueryRowContext(ctx, query, email))
}

func (r *SQLiteRepository) FindByUniqueIDAndRole(ctx context.Context, uniqueID string, role models.Role) (*models.Account, error) {
	query :=
		`SELECT id, unique_id, username, email, password_hash, role, created_at FROM accounts
		 WHERE unique_id = ? AND role = ?
		 `

	return scanAccount(r.db.QueryRowContext(ctx, query, uniqueID, string(role)))
}

func sqliteDuplicate(err error) *DuplicateKeyError {
	var sqErr *sqlite.Error
	if !errors.As(err, &sqErr) || sqErr.Code() != sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return nil
	}

	column := ColumnEmail
	if strings.Contains(sqErr.Error(), "accounts.unique_id") {
		column = ColumnUniqueID
	}
	return &DuplicateKeyError{Column: column, Err: err}
}
