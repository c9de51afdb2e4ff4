package session

import (
	clienterrors "github.com/fiscalflow/client-go/internal/errors"
	"github.com/fiscalflow/client-go/token"
	"golang.org/x/oauth2"
)

var _ oauth2.TokenSource = (*Manager)(nil)

// Token implements oauth2.TokenSource over the current session, so
// standard oauth2 transports can consume it. Expiry is read from the
// access token's exp claim when one is present.
func (m *Manager) Token() (*oauth2.Token, error) {
	current := m.Current()
	if current.Status != StatusAuthenticated || current.AccessToken == "" {
		return nil, clienterrors.ErrNotAuthenticated
	}

	oauthToken := &oauth2.Token{
		AccessToken:  current.AccessToken,
		RefreshToken: current.RefreshToken,
		TokenType:    "Bearer",
	}
	if claims, err := token.Parse(current.AccessToken); err == nil {
		oauthToken.Expiry = claims.ExpiresAt
	}
	return oauthToken, nil
}

// TokenExpired reports whether the current access token's exp claim has
// passed. An absent token, an opaque token, or one without an exp claim
// all report false; the backend remains the authority on validity.
func (m *Manager) TokenExpired() bool {
	current := m.Current()
	if current.AccessToken == "" {
		return false
	}
	claims, err := token.Parse(current.AccessToken)
	if err != nil {
		return false
	}
	return claims.Expired(m.nowTime())
}
