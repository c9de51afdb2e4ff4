package authclient

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizePrefersLegacyTokenField(t *testing.T) {
	tr := tokenResponse{
		Token:            "legacy",
		AccessToken:      "camel",
		AccessTokenSnake: "snake",
	}
	require.Equal(t, "legacy", tr.normalize().AccessToken)
}

func TestNormalizeFallsBackThroughAccessTokenVariants(t *testing.T) {
	require.Equal(t, "camel", tokenResponse{AccessToken: "camel", AccessTokenSnake: "snake"}.normalize().AccessToken)
	require.Equal(t, "snake", tokenResponse{AccessTokenSnake: "snake"}.normalize().AccessToken)
	require.Empty(t, tokenResponse{}.normalize().AccessToken)
}

func TestNormalizePrefersSnakeCaseRefreshToken(t *testing.T) {
	tr := tokenResponse{
		RefreshTokenSnake: "snake",
		RefreshToken:      "camel",
	}
	require.Equal(t, "snake", tr.normalize().RefreshToken)
	require.Equal(t, "camel", tokenResponse{RefreshToken: "camel"}.normalize().RefreshToken)
}
