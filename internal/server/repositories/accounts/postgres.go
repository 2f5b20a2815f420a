package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/landchain/landchain/internal/common"
	"github.com/landchain/landchain/internal/dbx"
	"github.com/landchain/landchain/internal/server/models"
)

const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query :=
		`INSERT INTO accounts (unique_id, username, email, password_hash, role)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.UniqueID, account.Username, account.Email, account.PasswordHash, string(account.Role)).
		Scan(&account.ID, &account.CreatedAt)

	if err != nil {
		if dup := pgDuplicate(err); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	query :=
		`SELECT id, unique_id, username, email, password_hash, role, created_at FROM accounts
		 WHERE email = $1
		 `

	return scanAccount(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) FindByUniqueIDAndRole(ctx context.Context, uniqueID string, role models.Role) (*models.Account, error) {
	query :=
		`SELECT id, unique_id, username, email, password_hash, role, created_at FROM accounts
		 WHERE unique_id = $1 AND role = $2
		 `

	return scanAccount(r.db.QueryRowContext(ctx, query, uniqueID, string(role)))
}

func pgDuplicate(err error) *DuplicateKeyError {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return nil
	}

	column := ColumnEmail
	if pgErr.ConstraintName == "accounts_unique_id_key" {
		column = ColumnUniqueID
	}
	return &DuplicateKeyError{Column: column, Err: err}
}

func scanAccount(row *sql.Row) (*models.Account, error) {
	a := &models.Account{}
	var role string

	err := row.Scan(&a.ID, &a.UniqueID, &a.Username, &a.Email, &a.PasswordHash, &role, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	a.Role = models.Role(role)
	return a, nil
}
