// Package repomanager opens an account store, brings its schema up to date
// and scopes every unit of work to a session (SQL transaction, GORM
// transaction or in-memory lock) that is released on every exit path.
package repomanager

import (
	"context"

	"github.com/metalex84/loginkeeper/internal/repositories/accounts"
)

// RepositoryManager vends account repositories bound to a session.
type RepositoryManager interface {
	// WithAccounts runs fn with a repository bound to a fresh session. The
	// session commits when fn returns nil and rolls back when it returns an
	// error or panics; panics are re-raised.
	WithAccounts(ctx context.Context, fn func(ctx context.Context, repo accounts.Repository) error) error
	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
	// Close releases the underlying connection pool.
	Close() error
}
