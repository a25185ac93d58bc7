// Package session owns the client's authenticated identity: the login state
// machine, the persisted session record, and the password recovery flow.
package session

import "time"

// State is the position of the engine in its lifecycle.
//
//	Anonymous → Authenticating → Authenticated
//	                           → MustChangePassword → Authenticated
//	Authenticated/MustChangePassword → Anonymous (logout or expiry)
type State string

const (
	StateAnonymous          State = "anonymous"
	StateAuthenticating     State = "authenticating"
	StateAuthenticated      State = "authenticated"
	StateMustChangePassword State = "must_change_password"
)

// Session is the authenticated identity held by the client. It is persisted
// verbatim as one JSON record and re-hydrated on startup.
type Session struct {
	Username               string   `json:"username"`
	Roles                  []string `json:"roles"`
	Token                  string   `json:"token"`
	ExpiresAt              int64    `json:"expiresAt"` // epoch milliseconds, service-assigned
	PasswordChangeRequired bool     `json:"passwordChangeRequired"`
}

// Valid reports whether the session expiry is strictly in the future.
func (s Session) Valid(now time.Time) bool {
	return s.ExpiresAt > now.UnixMilli()
}

// HasRole reports whether the session carries the named role.
func (s Session) HasRole(role string) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}
