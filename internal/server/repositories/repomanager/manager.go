package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/landchain/landchain/internal/dbx"
	"github.com/landchain/landchain/internal/server/repositories/accounts"
	"github.com/pressly/goose/v3"
)

// RepositoryManager vends repositories for one database dialect and knows
// how to bring its schema up to date.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// openDB is a seam for testing dbx.Open.
var openDB = dbx.Open

// Open connects to the database named by driver and dsn and returns the
// matching manager. Migrations are not run.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, RepositoryManager, error) {
	switch strings.ToLower(driver) {
	case DriverPostgres, "pgx":
		db, err := openDB(ctx, "pgx", dsn, 0)
		if err != nil {
			return nil, nil, err
		}
		m, err := NewPostgresRepositoryManager(db)
		return db, m, err

	case DriverSQLite, "sqlite3":
		if err := ensureSQLiteDir(dsn); err != nil {
			return nil, nil, err
		}
		db, err := openDB(ctx, "sqlite", dsn, 1)
		if err != nil {
			return nil, nil, err
		}
		m, err := NewSQLiteRepositoryManager(db)
		return db, m, err
	}

	return nil, nil, fmt.Errorf("unsupported database driver %q", driver)
}
