package accounts

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/metalex84/loginkeeper/internal/dbx"
	"github.com/metalex84/loginkeeper/internal/models"
)

const backendSQLite = "sqlite"

// SQLiteRepository stores accounts in a local SQLite file. Timestamps are
// written in UTC so the last-access check constraint compares like with like.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	query :=
		`SELECT id, username, email, password_hash, created_at, last_access_at, active
		 FROM accounts
		 WHERE username = ?`

	a, err := scanAccount(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundError(backendSQLite, username)
		}
		return nil, queryError(backendSQLite, "find_by_username", err)
	}

	return a, nil
}

func (r *SQLiteRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE username = ?)`, username).Scan(&exists)
	if err != nil {
		return false, queryError(backendSQLite, "exists_by_username", err)
	}
	return exists, nil
}

func (r *SQLiteRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE email = ?)`, email).Scan(&exists)
	if err != nil {
		return false, queryError(backendSQLite, "exists_by_email", err)
	}
	return exists, nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, a *models.Account) (*models.Account, error) {
	query :=
		`INSERT INTO accounts (id, username, email, password_hash, created_at, last_access_at, active)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`

	a.ID = ensureID(a.ID)
	a.CreatedAt = a.CreatedAt.UTC()

	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.Username, a.Email, a.PasswordHash, a.CreatedAt, utcOrNil(a), a.Active)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			return nil, duplicateError(backendSQLite, a.Username, constraint)
		}
		return nil, queryError(backendSQLite, "insert", err)
	}

	return a, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, a *models.Account) error {
	query :=
		`UPDATE accounts
		 SET email = ?, password_hash = ?, last_access_at = ?, active = ?
		 WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query, a.Email, a.PasswordHash, utcOrNil(a), a.Active, a.ID)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			return duplicateError(backendSQLite, a.Username, constraint)
		}
		return queryError(backendSQLite, "save", err)
	}

	return checkAffected(res, backendSQLite, a.Username)
}

func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n); err != nil {
		return 0, queryError(backendSQLite, "count", err)
	}
	return n, nil
}

// uniqueViolation reports a SQLITE_CONSTRAINT_UNIQUE error and returns the
// driver message, which names the violated column ("accounts.email").
func uniqueViolation(err error) (string, bool) {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) || sqliteErr.Code() != sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return "", false
	}
	msg := sqliteErr.Error()
	if strings.Contains(msg, "accounts.email") {
		return ConstraintEmail, true
	}
	return ConstraintUsername, true
}

func utcOrNil(a *models.Account) any {
	if a.LastAccessAt == nil {
		return nil
	}
	return a.LastAccessAt.UTC()
}
