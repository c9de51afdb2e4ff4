package authclient

// tokenResponse tolerates every field-name variant the backend has used
// for the same credential pair across app revisions. normalize is the
// single place these shapes collapse into canonical Credentials; call
// sites never look at the raw fields.
type tokenResponse struct {
	// Access token variants, in order of precedence.
	Token            string `json:"token"`
	AccessToken      string `json:"accessToken"`
	AccessTokenSnake string `json:"access_token"`

	// Refresh token variants. The snake_case form is what the current
	// backend emits; the camelCase form appeared in earlier builds.
	RefreshTokenSnake string `json:"refresh_token"`
	RefreshToken      string `json:"refreshToken"`

	// IDToken is only present when the backend fronts an OIDC issuer.
	IDToken string `json:"id_token"`
}

func (tr tokenResponse) normalize() Credentials {
	return Credentials{
		AccessToken:  firstNonEmpty(tr.Token, tr.AccessToken, tr.AccessTokenSnake),
		RefreshToken: firstNonEmpty(tr.RefreshTokenSnake, tr.RefreshToken),
		IDToken:      tr.IDToken,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
