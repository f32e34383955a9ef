package repomanager

import (
	"context"
	"database/sql"

	"github.com/samber/oops"

	"github.com/metalex84/loginkeeper/internal/dbx"
	"github.com/metalex84/loginkeeper/internal/migrations"
	"github.com/metalex84/loginkeeper/internal/repositories/metadata"
)

// StateManager owns the client's local SQLite state database.
type StateManager struct {
	db *sql.DB
}

// OpenState opens (creating if needed) the local state database at path and
// applies the local migrations.
func OpenState(ctx context.Context, path string) (*StateManager, error) {
	db, err := dbx.Open(ctx, "sqlite", path, dbx.OpenOptions{})
	if err != nil {
		return nil, oops.Code("STATE_UNAVAILABLE").With("path", path).Wrap(err)
	}
	db.SetMaxOpenConns(1)

	if err := runMigrations(ctx, db, migrations.Local, "sqlite3", "local"); err != nil {
		_ = db.Close()
		return nil, oops.Code("MIGRATION_FAILED").With("backend", "state").Wrap(err)
	}

	return &StateManager{db: db}, nil
}

// Metadata returns the key/value repository over the state database.
func (s *StateManager) Metadata() metadata.Repository {
	return metadata.NewSQLiteRepository(s.db)
}

func (s *StateManager) Close() error {
	return s.db.Close()
}
