package token_test

import (
	"testing"
	"time"

	"github.com/fiscalflow/client-go/token"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestParseExtractsSubjectAndExpiry(t *testing.T) {
	expiry := time.Now().Add(15 * time.Minute).Truncate(time.Second)
	signed := signToken(t, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(expiry),
	})

	claims, err := token.Parse(signed)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.True(t, claims.ExpiresAt.Equal(expiry))
	require.False(t, claims.Expired(time.Now()))
	require.True(t, claims.Expired(expiry.Add(time.Second)))
}

func TestParseTokenWithoutExpiry(t *testing.T) {
	signed := signToken(t, jwt.RegisteredClaims{Subject: "user-1"})

	claims, err := token.Parse(signed)
	require.NoError(t, err)
	require.True(t, claims.ExpiresAt.IsZero())
	require.False(t, claims.Expired(time.Now().Add(100*time.Hour)))
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := token.Parse("not-a-jwt")
	require.Error(t, err)
}
