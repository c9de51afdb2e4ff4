// Package session owns the client-side authentication lifecycle: it
// decides when a token pair may be trusted, persisted and exposed as a
// logged-in user, and when it must be torn down.
package session

import "github.com/fiscalflow/client-go/authclient"

// Status is the derived answer to "am I logged in".
type Status string

const (
	// StatusBootstrapping is the launch state, before the stored policy
	// and refresh token have been examined. Consumers must render it as
	// its own state and never fall through to a default branch.
	StatusBootstrapping Status = "bootstrapping"
	StatusAuthenticated Status = "authenticated"

	StatusUnauthenticated Status = "unauthenticated"
)

// Session is the in-memory view of the current credentials. User is set
// if and only if AccessToken has been verified against the backend; a
// token may exist transiently while verification is in flight, but it is
// never persisted and Status never reports Authenticated until /me has
// vouched for it.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *authclient.User
	Status       Status
}

// LoggedIn reports whether the session holds a verified user.
func (s Session) LoggedIn() bool {
	return s.Status == StatusAuthenticated && s.User != nil
}

// snapshot returns a copy safe to hand to observers; the User pointer is
// deep-copied so consumers cannot mutate manager state.
func (s Session) snapshot() Session {
	copied := s
	if s.User != nil {
		user := *s.User
		copied.User = &user
	}
	return copied
}
