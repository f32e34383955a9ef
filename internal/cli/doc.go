// Package cli provides the interactive loginkeeper terminal client.
//
// It wires the account and session services into a small REPL. Typical
// flow: restore a remembered session if there is one, then read commands
// until the user exits.
//
// Commands:
//   - register        create an account
//   - login           sign in, optionally remembering the session
//   - logout          sign out and forget the remembered session
//   - whoami          show the signed-in account
//   - ping            check that the account store is reachable
//   - forget          drop the remembered session, stay signed in
//   - exit | quit     leave the program
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
