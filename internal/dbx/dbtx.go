// Package dbx holds the database/sql plumbing shared by the SQL account
// stores: the DBTX handle, transaction scoping and connection opening.
package dbx

import (
	"context"
	"database/sql"
	"errors"

	"github.com/samber/oops"
)

// DBTX is the subset of database/sql the repositories use. *sql.DB and
// *sql.Tx both satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside one transaction. It commits when fn returns nil and
// rolls back otherwise; a rollback failure is joined to fn's error. A panic
// in fn rolls back and is re-raised.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    return accounts.NewSQLiteRepository(tx).Save(ctx, acc)
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return oops.Code("TX_BEGIN_FAILED").Wrap(err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = errors.Join(err, oops.Code("TX_ROLLBACK_FAILED").Wrap(rbErr))
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = oops.Code("TX_COMMIT_FAILED").Wrap(cErr)
		}
	}()

	return fn(ctx, tx)
}
