package repomanager

import (
	"context"
	"database/sql"
	"io/fs"

	"github.com/samber/oops"

	"github.com/metalex84/loginkeeper/internal/dbx"
	"github.com/metalex84/loginkeeper/internal/migrations"
	"github.com/metalex84/loginkeeper/internal/repositories/accounts"
)

// SQLRepositoryManager serves the database/sql backends (PostgreSQL via pgx,
// SQLite via modernc). Each WithAccounts call runs in its own transaction.
type SQLRepositoryManager struct {
	db      *sql.DB
	backend string
	dialect string
	fsys    fs.FS
	dir     string
	newRepo func(dbx.DBTX) accounts.Repository
}

// NewPostgresRepositoryManager wraps a pgx-backed *sql.DB.
func NewPostgresRepositoryManager(db *sql.DB) *SQLRepositoryManager {
	return &SQLRepositoryManager{
		db:      db,
		backend: "postgres",
		dialect: "pgx",
		fsys:    migrations.Postgres,
		dir:     "postgres",
		newRepo: func(tx dbx.DBTX) accounts.Repository { return accounts.NewPostgresRepository(tx) },
	}
}

// NewSQLiteRepositoryManager wraps a modernc SQLite *sql.DB.
func NewSQLiteRepositoryManager(db *sql.DB) *SQLRepositoryManager {
	return &SQLRepositoryManager{
		db:      db,
		backend: "sqlite",
		dialect: "sqlite3",
		fsys:    migrations.SQLite,
		dir:     "sqlite",
		newRepo: func(tx dbx.DBTX) accounts.Repository { return accounts.NewSQLiteRepository(tx) },
	}
}

// RunMigrations creates or upgrades the accounts schema.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context) error {
	if err := runMigrations(ctx, m.db, m.fsys, m.dialect, m.dir); err != nil {
		return oops.Code("MIGRATION_FAILED").With("backend", m.backend).Wrap(err)
	}
	return nil
}

func (m *SQLRepositoryManager) WithAccounts(ctx context.Context, fn func(ctx context.Context, repo accounts.Repository) error) error {
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, m.newRepo(tx))
	})
}

func (m *SQLRepositoryManager) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *SQLRepositoryManager) Close() error {
	return m.db.Close()
}
