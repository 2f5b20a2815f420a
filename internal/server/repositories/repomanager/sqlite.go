package repomanager

import (
	"context"
	"database/sql"
	"strings"

	"github.com/landchain/landchain/internal/dbx"
	"github.com/landchain/landchain/internal/filex"
	"github.com/landchain/landchain/internal/server/migrations"
	"github.com/landchain/landchain/internal/server/repositories/accounts"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLiteRepositoryManager vends SQLite-backed repositories. It is the
// default for single-node deployments.
type SQLiteRepositoryManager struct{}

func (m *SQLiteRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, migrations.SQLiteDir)
}

func NewSQLiteRepositoryManager(db *sql.DB) (RepositoryManager, error) {
	return &SQLiteRepositoryManager{}, nil
}

// ensureSQLiteDir creates the directory of a plain file DSN. URI and
// in-memory DSNs are left alone.
func ensureSQLiteDir(dsn string) error {
	if dsn == ":memory:" || strings.HasPrefix(dsn, "file:") {
		return nil
	}
	_, err := filex.EnsureParentDir(dsn)
	return err
}
