package authclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fiscalflow/client-go/authclient"
	clienterrors "github.com/fiscalflow/client-go/internal/errors"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, handler http.Handler) (*authclient.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := authclient.New(server.URL, authclient.WithDeviceID("device-1"))
	require.NoError(t, err)
	return client, server
}

func TestLoginNormalizesLegacyTokenField(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/login", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Equal(t, "device-1", r.Header.Get("X-Device-ID"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "a@b.com", body["email"])

		// Legacy backend shape: "token" + snake_case refresh token.
		_ = json.NewEncoder(w).Encode(map[string]string{
			"token":         "T1",
			"refresh_token": "R1",
		})
	}))

	creds, err := client.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)
	require.Equal(t, "T1", creds.AccessToken)
	require.Equal(t, "R1", creds.RefreshToken)
}

func TestRefreshSendsRefreshToken(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/refresh", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "R1", body["refresh_token"])

		_ = json.NewEncoder(w).Encode(map[string]string{"accessToken": "T2"})
	}))

	creds, err := client.Refresh(context.Background(), "R1")
	require.NoError(t, err)
	require.Equal(t, "T2", creds.AccessToken)
	require.Empty(t, creds.RefreshToken)
}

func TestCurrentUserSendsBoundToken(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/me", r.URL.Path)
		require.Equal(t, "Bearer T1", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id": 1, "name": "A", "email": "a@b.com",
		})
	}))

	client.SetAuthToken("T1")
	user, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), user.ID)
	require.True(t, user.Valid())
}

func TestDetachedTokenSendsNoAuthorizationHeader(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": 1})
	}))

	client.SetAuthToken("T1")
	client.SetAuthToken("")
	_, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
}

func TestServerErrorSurfacesMessageFromBody(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
	}))

	_, err := client.Login(context.Background(), "a@b.com", "wrong")
	require.ErrorIs(t, err, clienterrors.ErrServerRejected)
	require.Contains(t, err.Error(), "invalid credentials")
}

func TestUnreachableBackendIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close() // connection refused from here on

	client, err := authclient.New(server.URL)
	require.NoError(t, err)

	_, err = client.Login(context.Background(), "a@b.com", "pw")
	require.ErrorIs(t, err, clienterrors.ErrTransport)
}

func TestRegister(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/register", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "A", body["name"])
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "created"})
	}))

	require.NoError(t, client.Register(context.Background(), "A", "a@b.com", "pw"))
}
