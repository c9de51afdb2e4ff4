// Package authclient is the REST client for the FiscalFlow backend's
// authentication endpoints: /login, /register, /refresh and /me.
package authclient

import "context"

// User is the authenticated profile returned by /me.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Valid reports whether the profile is substantial enough to trust: at
// least one of id, name or email must be present. An empty object from
// /me means the token did not resolve to a real user.
func (u User) Valid() bool {
	return u.ID != 0 || u.Name != "" || u.Email != ""
}

// Credentials is the canonical token pair after response normalization.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	IDToken      string
}

// API is the slice of the backend the session layer depends on.
type API interface {
	Login(ctx context.Context, email, password string) (*Credentials, error)
	Refresh(ctx context.Context, refreshToken string) (*Credentials, error)
	CurrentUser(ctx context.Context) (*User, error)
}

// TokenBinder attaches (or detaches, with the empty string) the access
// token used for the Authorization header on outgoing requests. The
// session manager is the only writer.
type TokenBinder interface {
	SetAuthToken(token string)
}
