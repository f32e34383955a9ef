package dbx

import (
	"context"
	"database/sql"
	"time"

	"github.com/sethvargo/go-retry"
)

// OpenOptions bound how long Open keeps trying to reach the database.
type OpenOptions struct {
	// Retries is the number of extra ping attempts after the first one.
	Retries int
	// Timeout caps each ping attempt.
	Timeout time.Duration
	// BaseDelay is the first backoff step; it doubles on every retry.
	BaseDelay time.Duration
}

// Open opens driverName/dsn and pings it, retrying with exponential backoff
// up to opts.Retries times. The handle is closed when every attempt fails.
func Open(ctx context.Context, driverName, dsn string, opts OpenOptions) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}

	if err := Ping(ctx, db, opts); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Ping checks db the same way Open does.
func Ping(ctx context.Context, db *sql.DB, opts OpenOptions) error {
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 200 * time.Millisecond
	}

	b := retry.WithMaxRetries(uint64(opts.Retries), retry.NewExponential(opts.BaseDelay))

	return retry.Do(ctx, b, func(ctx context.Context) error {
		pingCtx := ctx
		if opts.Timeout > 0 {
			var cancel context.CancelFunc
			pingCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
			defer cancel()
		}

		if err := db.PingContext(pingCtx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}
