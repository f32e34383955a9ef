package accounts

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/metalex84/loginkeeper/internal/dbx"
	"github.com/metalex84/loginkeeper/internal/models"
)

const backendPostgres = "postgres"

// PostgresRepository stores accounts in PostgreSQL through database/sql and
// the pgx stdlib driver.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	query :=
		`SELECT id, username, email, password_hash, created_at, last_access_at, active
		 FROM accounts
		 WHERE username = $1`

	a, err := scanAccount(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundError(backendPostgres, username)
		}
		return nil, queryError(backendPostgres, "find_by_username", err)
	}

	return a, nil
}

func (r *PostgresRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, queryError(backendPostgres, "exists_by_username", err)
	}
	return exists, nil
}

func (r *PostgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, queryError(backendPostgres, "exists_by_email", err)
	}
	return exists, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, a *models.Account) (*models.Account, error) {
	query :=
		`INSERT INTO accounts (id, username, email, password_hash, created_at, last_access_at, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`

	a.ID = ensureID(a.ID)

	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.Username, a.Email, a.PasswordHash, a.CreatedAt, a.LastAccessAt, a.Active)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, duplicateError(backendPostgres, a.Username, pgErr.ConstraintName)
		}
		return nil, queryError(backendPostgres, "insert", err)
	}

	return a, nil
}

func (r *PostgresRepository) Save(ctx context.Context, a *models.Account) error {
	query :=
		`UPDATE accounts
		 SET email = $2, password_hash = $3, last_access_at = $4, active = $5
		 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, a.ID, a.Email, a.PasswordHash, a.LastAccessAt, a.Active)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return duplicateError(backendPostgres, a.Username, pgErr.ConstraintName)
		}
		return queryError(backendPostgres, "save", err)
	}

	return checkAffected(res, backendPostgres, a.Username)
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n); err != nil {
		return 0, queryError(backendPostgres, "count", err)
	}
	return n, nil
}

// scanAccount reads the column list shared by every SQL backend.
func scanAccount(row *sql.Row) (*models.Account, error) {
	a := &models.Account{}
	var lastAccess sql.NullTime

	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.CreatedAt, &lastAccess, &a.Active)
	if err != nil {
		return nil, err
	}

	if lastAccess.Valid {
		t := lastAccess.Time
		a.LastAccessAt = &t
	}

	return a, nil
}

func checkAffected(res sql.Result, backend, username string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return queryError(backend, "save", err)
	}
	if n == 0 {
		return notFoundError(backend, username)
	}
	return nil
}
