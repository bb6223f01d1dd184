// Package auth implements the login/logout gate described in spec §4.8:
// a clear-text username/password lookup against the user table, guarding
// every other task's access to the system per §4.6's "only scans connected
// ports after a user has successfully logged in" rule.
package auth

import (
	"switchcore/eventlog"
	"switchcore/sysstate"
	"switchcore/users"
)

// Login checks (username, password) against the table and, on success,
// marks the session authenticated and records the active user, mirroring
// InterpreterTask's authentication loop (clear-text compare, no hashing —
// the original has none and the corpus gives no grounds to invent one).
func Login(st *sysstate.State, logger *eventlog.Logger, username, password string) (*users.User, bool) {
	u, ok := st.Users().FindByCredentials(username, password)
	if !ok {
		return nil, false
	}
	st.SetActiveUser(u)
	if logger != nil {
		logger.Submit(eventlog.CodeUserLoggedIn)
	}
	return u, true
}

// Logout clears the session, matching COM_Logout's "Authenticated = false".
// Does not itself persist anything — a config save is a separate step.
func Logout(st *sysstate.State, logger *eventlog.Logger) {
	st.SetAuthenticated(false)
	if logger != nil {
		logger.Submit(eventlog.CodeUserLoggedOut)
	}
}
