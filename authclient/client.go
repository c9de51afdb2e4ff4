package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	clienterrors "github.com/fiscalflow/client-go/internal/errors"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const defaultTimeout = 15 * time.Second

// Client talks to the FiscalFlow backend. It holds the process-wide auth
// token attachment: every request reads the currently bound access token
// and sends it as a bearer Authorization header, exactly like the app's
// fetch wrapper did.
type Client struct {
	baseURL    string
	httpClient *http.Client
	deviceID   string
	verifier   *oidc.IDTokenVerifier

	tokenMu   sync.RWMutex
	authToken string
}

var (
	_ API         = (*Client)(nil)
	_ TokenBinder = (*Client)(nil)
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client (primarily for tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithDeviceID overrides the generated per-installation device ID.
func WithDeviceID(deviceID string) Option {
	return func(c *Client) {
		c.deviceID = deviceID
	}
}

// WithIDTokenVerifier enables verification of ID tokens included in login
// and refresh responses. When set, a response carrying an id_token that
// fails verification is treated as an invalid response.
func WithIDTokenVerifier(verifier *oidc.IDTokenVerifier) Option {
	return func(c *Client) {
		c.verifier = verifier
	}
}

// NewIDTokenVerifier builds a verifier from an issuer URL via OIDC
// discovery, for use with WithIDTokenVerifier.
func NewIDTokenVerifier(ctx context.Context, issuer, clientID string) (*oidc.IDTokenVerifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, errors.Wrap(err, "[NewIDTokenVerifier] oidc discovery")
	}
	return provider.Verifier(&oidc.Config{ClientID: clientID}), nil
}

func New(baseURL string, options ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("[authclient.New] baseURL is required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		deviceID:   uuid.New().String(),
	}
	for _, opt := range options {
		opt(client)
	}
	return client, nil
}

// SetAuthToken binds the access token attached to outgoing requests.
// An empty string detaches it.
func (c *Client) SetAuthToken(token string) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()
	c.authToken = token
}

// AuthToken returns the currently bound access token.
func (c *Client) AuthToken() string {
	c.tokenMu.RLock()
	defer c.tokenMu.RUnlock()
	return c.authToken
}

// DeviceID returns the installation identifier sent with every request.
func (c *Client) DeviceID() string {
	return c.deviceID
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, email, password string) (*Credentials, error) {
	payload := map[string]string{"email": email, "password": password}
	var response tokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/login", payload, &response); err != nil {
		return nil, errors.Wrap(err, "[Client.Login]")
	}
	return c.credentialsFrom(ctx, response)
}

// Refresh exchanges a refresh token for a new token pair. The response
// may rotate only the access token; a missing refresh token is not an
// error here.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Credentials, error) {
	payload := map[string]string{"refresh_token": refreshToken}
	var response tokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/refresh", payload, &response); err != nil {
		return nil, errors.Wrap(err, "[Client.Refresh]")
	}
	return c.credentialsFrom(ctx, response)
}

// CurrentUser fetches the profile the bound access token resolves to.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.doJSON(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, errors.Wrap(err, "[Client.CurrentUser]")
	}
	return &user, nil
}

// Register creates a new account. It does not touch the session; callers
// log in afterwards.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	payload := map[string]string{"name": name, "email": email, "password": password}
	var response struct {
		Message string `json:"message"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/register", payload, &response); err != nil {
		return errors.Wrap(err, "[Client.Register]")
	}
	return nil
}

func (c *Client) credentialsFrom(ctx context.Context, response tokenResponse) (*Credentials, error) {
	creds := response.normalize()
	if c.verifier != nil && creds.IDToken != "" {
		if _, err := c.verifier.Verify(ctx, creds.IDToken); err != nil {
			log.Err(err).Msg("ID token verification failed")
			return nil, errors.Wrap(clienterrors.ErrInvalidIDToken, err.Error())
		}
	}
	return &creds, nil
}

// errorBody is the backend's error envelope; either field may carry the
// human-readable message.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, "marshal request")
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("X-Device-ID", c.deviceID)
	if token := c.AuthToken(); token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return errors.Wrap(clienterrors.ErrTransport, err.Error())
	}
	defer response.Body.Close()

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return errors.Wrap(clienterrors.ErrTransport, err.Error())
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		var envelope errorBody
		_ = json.Unmarshal(data, &envelope)
		message := firstNonEmpty(envelope.Error, envelope.Message, fmt.Sprintf("status %d", response.StatusCode))
		return errors.Wrapf(clienterrors.ErrServerRejected, "%s %s: %s", method, endpoint, message)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(clienterrors.ErrInvalidResponse, err.Error())
	}
	return nil
}
