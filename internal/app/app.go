// Package app wires configuration, storage and services into the loginkeeper
// terminal client and runs it until the user exits or a signal arrives.
package app

import (
	"context"
	"errors"
	"io"

	"github.com/metalex84/loginkeeper/internal/cli"
	"github.com/metalex84/loginkeeper/internal/config"
	"github.com/metalex84/loginkeeper/internal/credentials"
	"github.com/metalex84/loginkeeper/internal/cryptox"
	"github.com/metalex84/loginkeeper/internal/filex"
	"github.com/metalex84/loginkeeper/internal/logging"
	"github.com/metalex84/loginkeeper/internal/repositories/repomanager"
	"github.com/metalex84/loginkeeper/internal/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	store  repomanager.RepositoryManager
	state  *repomanager.StateManager
	cli    *cli.App
}

// NewApp opens the account store and the local state, then builds the
// services and the REPL. Resources opened before a failure are released.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	hasher, err := cryptox.NewPolicyFromParams(cryptox.Params{
		Algorithm: c.HashAlgorithm,
		Argon2: cryptox.Argon2Params{
			Time:      c.Argon2Time,
			MemoryKiB: c.Argon2MemoryKiB,
			Threads:   c.Argon2Threads,
		},
		BcryptCost: c.BcryptCost,
	})
	if err != nil {
		return nil, err
	}

	store, err := repomanager.Open(ctx, c, logger)
	if err != nil {
		return nil, err
	}

	app := &App{config: c, logger: logger, store: store}

	var sessionStore credentials.Store = credentials.NopStore{}
	if c.StatePath != "" {
		sessionStore, err = app.openState(ctx)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
	} else {
		logger.Info(ctx, "remember me disabled: no state path configured")
	}

	auth := services.NewAuthService(store, hasher, logger,
		services.WithThrottle(c.LoginRate, c.LoginBurst),
		services.WithGenericCredentialErrors(c.GenericAuthErrors),
	)
	sessions := services.NewSessionService(sessionStore, auth, []byte(c.SecretKey), c.RememberFor, logger)

	app.cli = cli.NewApp(auth, sessions, c.MinPasswordLength, logger, in, out)
	return app, nil
}

func (app *App) openState(ctx context.Context) (credentials.Store, error) {
	if err := filex.EnsureParentDir(app.config.StatePath); err != nil {
		return nil, err
	}

	key, err := filex.LoadOrCreateKey(app.config.StateKeyFile, cryptox.KeySize)
	if err != nil {
		return nil, err
	}

	state, err := repomanager.OpenState(ctx, app.config.StatePath)
	if err != nil {
		return nil, err
	}
	app.state = state

	return credentials.NewEncryptedStore(state.Metadata(), key), nil
}

// Run blocks until the REPL ends or ctx is cancelled.
func (app *App) Run(ctx context.Context) {
	app.logger.Debug(ctx, "starting", "driver", app.config.DatabaseDriver, "hash", app.config.HashAlgorithm)

	done := make(chan struct{})
	go func() {
		defer close(done)
		app.cli.Run(ctx)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		app.logger.Info(ctx, "interrupted")
	}
}

// Close releases the account store and the local state.
func (app *App) Close() error {
	var errs []error
	if app.state != nil {
		errs = append(errs, app.state.Close())
	}
	if app.store != nil {
		errs = append(errs, app.store.Close())
	}
	return errors.Join(errs...)
}
