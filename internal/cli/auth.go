package cli

import (
	"context"
	"fmt"

	"github.com/metalex84/loginkeeper/internal/common"
	"github.com/metalex84/loginkeeper/internal/logging"
	"github.com/metalex84/loginkeeper/internal/validation"
)

// getSimpleText, getPassword and getYesNo are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getYesNo      = GetYesNo
)

func (a *App) printFailure(f *validation.Failure) {
	if f.Kind == common.KindSecurity {
		fmt.Fprintln(a.out, "Security check failed:", f.Message)
		return
	}
	fmt.Fprintln(a.out, f.Message)
}

// Register walks through the sign-up form, validates it locally and then
// creates the account.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirmation, err := getPassword("Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirmation)

	terms, err := getYesNo(a.reader, "Do you accept the terms and conditions?", a.out)
	if err != nil {
		return err
	}

	form := validation.Registration{
		Email:         email,
		Username:      username,
		Password:      string(password),
		Confirmation:  string(confirmation),
		AcceptedTerms: terms,
	}
	if f := validation.CheckRegistration(form, a.minPasswordLength); f != nil {
		a.printFailure(f)
		return f
	}

	res := a.accounts.Register(ctx, form.Username, form.Email, form.Password)
	fmt.Fprintln(a.out, res.Message)
	if !res.Success {
		return fmt.Errorf("register: %s", res.Kind)
	}
	return nil
}

// Login prompts for credentials, validates them locally and signs in. After
// a successful sign-in the user may opt in to remembering the session.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	username, f := validation.CheckLogin(username, string(password))
	if f != nil {
		a.printFailure(f)
		return f
	}

	res := a.accounts.Authenticate(ctx, username, string(password))
	fmt.Fprintln(a.out, res.Message)
	if !res.Success {
		return fmt.Errorf("login: %s", res.Kind)
	}
	a.userName = username

	remember, err := getYesNo(a.reader, "Remember me on this computer?", a.out)
	if err != nil {
		return err
	}
	if remember {
		if err := a.sessions.Remember(ctx, username); err != nil {
			a.log.Error(ctx, "remembering session failed", logging.ErrorAttrs(err)...)
			fmt.Fprintln(a.out, "Could not remember this session.")
			return err
		}
	}
	return nil
}

// Logout signs out and forgets any remembered session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.sessions.Forget(ctx); err != nil {
		return err
	}
	a.userName = ""
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

// Forget drops the remembered session but keeps the user signed in.
func (a *App) Forget(ctx context.Context) error {
	if err := a.sessions.Forget(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Remembered session removed.")
	return nil
}

// WhoAmI prints the signed-in account.
func (a *App) WhoAmI(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not signed in.")
		return nil
	}

	acc := a.accounts.GetAccount(ctx, a.userName)
	if acc == nil {
		fmt.Fprintln(a.out, "Account details are not available.")
		return nil
	}

	fmt.Fprintf(a.out, "Username:    %s\n", acc.Username)
	fmt.Fprintf(a.out, "Email:       %s\n", acc.Email)
	fmt.Fprintf(a.out, "Created:     %s\n", acc.CreatedAt.Local().Format("2006-01-02 15:04"))
	if acc.LastAccessAt != nil {
		fmt.Fprintf(a.out, "Last access: %s\n", acc.LastAccessAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

// Ping checks that the account store is reachable.
func (a *App) Ping(ctx context.Context) error {
	res := a.accounts.TestConnection(ctx)
	fmt.Fprintln(a.out, res.Message)
	if !res.Success {
		return res.Err
	}
	return nil
}
