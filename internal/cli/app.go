package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/metalex84/loginkeeper/internal/common"
	"github.com/metalex84/loginkeeper/internal/logging"
	"github.com/metalex84/loginkeeper/internal/models"
	"github.com/metalex84/loginkeeper/internal/services"
)

// AccountService is the part of services.AuthService the CLI drives.
type AccountService interface {
	Register(ctx context.Context, username, email, password string) services.Result
	Authenticate(ctx context.Context, username, password string) services.Result
	GetAccount(ctx context.Context, username string) *models.Account
	TestConnection(ctx context.Context) services.Result
}

// SessionService is the part of services.SessionService the CLI drives.
type SessionService interface {
	Remember(ctx context.Context, username string) error
	Restore(ctx context.Context) (string, error)
	Forget(ctx context.Context) error
}

type App struct {
	accounts          AccountService
	sessions          SessionService
	minPasswordLength int
	log               logging.Logger
	reader            *bufio.Reader
	out               io.Writer
	userName          string
}

func NewApp(accounts AccountService, sessions SessionService, minPasswordLength int, log logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		accounts:          accounts,
		sessions:          sessions,
		minPasswordLength: minPasswordLength,
		log:               log,
		reader:            bufio.NewReader(in),
		out:               out,
	}
}

// Run restores a remembered session, if any, and runs the REPL until the
// user exits or input ends.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to loginkeeper (type 'help' for commands)")
	a.restoreSession(ctx)
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) restoreSession(ctx context.Context) {
	username, err := a.sessions.Restore(ctx)
	if err != nil {
		if !errors.Is(err, common.ErrLocalDataNotAvailable) {
			a.log.Info(ctx, "remembered session not restored", logging.ErrorAttrs(err)...)
			fmt.Fprintln(a.out, "Your remembered session could not be restored. Please sign in again.")
		}
		return
	}
	a.userName = username
	fmt.Fprintf(a.out, "Welcome back, %s.\n", username)
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userName)
}
