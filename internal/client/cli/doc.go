// Package cli provides the interactive LandChain command-line client.
//
// Commands:
//   - register: create an account and print the assigned unique ID
//   - login: sign in with unique ID, password and role
//   - dashboard: show the dashboard of the signed-in role
//   - logout
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
