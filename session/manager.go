package session

import (
	"context"
	"sync"
	"time"

	"github.com/fiscalflow/client-go/authclient"
	"github.com/fiscalflow/client-go/biometric"
	"github.com/fiscalflow/client-go/credentials"
	clienterrors "github.com/fiscalflow/client-go/internal/errors"
	"github.com/fiscalflow/client-go/settings"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const defaultBiometricPrompt = "Unlock FiscalFlow"

// Deps holds all collaborator dependencies for the Manager.
type Deps struct {
	Credentials credentials.Store      // Encrypted device storage for the token pair
	Settings    *settings.Store        // Auto-login / biometric policy flags
	API         authclient.API         // Backend auth endpoints
	Binder      authclient.TokenBinder // Outgoing-request token attachment
	Gate        biometric.Gate         // Device biometric challenge
}

// Manager owns the Session and is the only code that writes the
// persisted token pair (inside verifyAndCommit) or deletes it (inside
// logout). State-changing operations are serialized by a single-flight
// mutex; overlapping calls queue rather than interleave.
type Manager struct {
	deps    Deps
	nowTime func() time.Time
	prompt  string

	opMu         sync.Mutex // serializes bootstrap/login/refresh/logout
	bootstrapped bool

	stateMu sync.RWMutex
	session Session

	obsMu        sync.Mutex
	observers    map[int]func(Session)
	nextObserver int
}

// Option defines a function type to modify the Manager instance.
type Option func(*Manager)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// WithBiometricPrompt sets the message shown by the biometric challenge.
func WithBiometricPrompt(prompt string) Option {
	return func(m *Manager) {
		m.prompt = prompt
	}
}

// New initializes a Manager with required dependencies. The session
// starts in StatusBootstrapping; call Bootstrap once at launch.
func New(deps Deps, options ...Option) (*Manager, error) {
	if deps.Credentials == nil {
		return nil, errors.New("[session.New] credential store is required")
	}
	if deps.Settings == nil {
		return nil, errors.New("[session.New] settings store is required")
	}
	if deps.API == nil {
		return nil, errors.New("[session.New] API client is required")
	}
	if deps.Binder == nil {
		return nil, errors.New("[session.New] token binder is required")
	}
	if deps.Gate == nil {
		return nil, errors.New("[session.New] biometric gate is required")
	}

	manager := &Manager{
		deps:      deps,
		nowTime:   time.Now,
		prompt:    defaultBiometricPrompt,
		session:   Session{Status: StatusBootstrapping},
		observers: make(map[int]func(Session)),
	}
	for _, opt := range options {
		opt(manager)
	}
	return manager, nil
}

// Current returns a copy of the session state.
func (m *Manager) Current() Session {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.session.snapshot()
}

// Subscribe registers an observer called with a session snapshot after
// every state transition. The returned function cancels the
// subscription. Observers must not call back into the Manager.
func (m *Manager) Subscribe(fn func(Session)) (cancel func()) {
	m.obsMu.Lock()
	id := m.nextObserver
	m.nextObserver++
	m.observers[id] = fn
	m.obsMu.Unlock()

	return func() {
		m.obsMu.Lock()
		delete(m.observers, id)
		m.obsMu.Unlock()
	}
}

// Bootstrap restores a session from persisted state, once per process.
// It never fails: any problem is logged and the session lands on
// StatusUnauthenticated. A second call is a no-op returning the current
// status, with no further storage or network access.
func (m *Manager) Bootstrap(ctx context.Context) Status {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if m.bootstrapped {
		return m.Current().Status
	}
	m.bootstrapped = true

	autoLogin, err := m.deps.Settings.AutoLogin(ctx)
	if err != nil {
		log.Err(err).Msg("Bootstrap: failed to read auto-login flag")
		m.setSession(Session{Status: StatusUnauthenticated})
		return StatusUnauthenticated
	}

	refreshToken, err := m.deps.Credentials.Get(ctx, credentials.KeyRefreshToken)
	if err != nil {
		log.Err(err).Msg("Bootstrap: failed to read refresh token")
		m.setSession(Session{Status: StatusUnauthenticated})
		return StatusUnauthenticated
	}

	if !autoLogin || refreshToken == "" {
		m.setSession(Session{Status: StatusUnauthenticated})
		return StatusUnauthenticated
	}

	biometricLogin, err := m.deps.Settings.BiometricLogin(ctx)
	if err != nil {
		log.Err(err).Msg("Bootstrap: failed to read biometric flag")
		m.setSession(Session{Status: StatusUnauthenticated})
		return StatusUnauthenticated
	}
	if biometricLogin {
		// The biometric challenge is driven by the login surface, never
		// from bootstrap. Stay logged out until the user acts.
		m.setSession(Session{Status: StatusUnauthenticated})
		return StatusUnauthenticated
	}

	if err := m.refreshSession(ctx, refreshToken); err != nil {
		log.Err(err).Msg("Bootstrap: silent refresh failed")
	}
	return m.Current().Status
}

// Login authenticates with email and password. Any failure is returned
// as *AuthError and leaves the session unauthenticated.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	creds, err := m.deps.API.Login(ctx, email, password)
	if err != nil {
		return newAuthError(ReasonLoginFailed, err)
	}
	if creds == nil || creds.AccessToken == "" {
		return newAuthError(ReasonMissingToken, clienterrors.ErrMissingAccessToken)
	}

	if err := m.verifyAndCommit(ctx, creds); err != nil {
		if errors.Is(err, clienterrors.ErrInvalidProfile) {
			return newAuthError(ReasonInvalidProfile, err)
		}
		return newAuthError(ReasonLoginFailed, err)
	}
	return nil
}

// LoginWithBiometrics runs the biometric challenge and, on success,
// re-establishes the session from the stored refresh token. The outcome
// separates "user declined or nothing to restore" from "hardware cannot
// do this"; only the latter carries an error.
func (m *Manager) LoginWithBiometrics(ctx context.Context) (biometric.Outcome, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	hasHardware, err := m.deps.Gate.HasHardware(ctx)
	if err != nil {
		return biometric.OutcomeUnavailable, newAuthError(ReasonBiometricUnavailable, err)
	}
	enrolled, err := m.deps.Gate.IsEnrolled(ctx)
	if err != nil {
		return biometric.OutcomeUnavailable, newAuthError(ReasonBiometricUnavailable, err)
	}
	if !hasHardware || !enrolled {
		return biometric.OutcomeUnavailable, newAuthError(ReasonBiometricUnavailable, clienterrors.ErrBiometricUnavailable)
	}

	result, err := m.deps.Gate.Authenticate(ctx, m.prompt)
	if err != nil {
		log.Err(err).Msg("LoginWithBiometrics: challenge error")
		return biometric.OutcomeDeclined, nil
	}
	if !result.Success {
		log.Debug().Str("reason", result.Reason).Msg("LoginWithBiometrics: challenge declined")
		return biometric.OutcomeDeclined, nil
	}

	refreshToken, err := m.deps.Credentials.Get(ctx, credentials.KeyRefreshToken)
	if err != nil || refreshToken == "" {
		return biometric.OutcomeDeclined, nil
	}

	// A failed refresh is absorbed: the caller offers manual login.
	if err := m.refreshSession(ctx, refreshToken); err != nil {
		log.Err(err).Msg("LoginWithBiometrics: silent refresh failed")
		return biometric.OutcomeDeclined, nil
	}
	return biometric.OutcomeAuthenticated, nil
}

// Logout tears the session down. Best-effort: storage failures are
// logged, never returned. The refresh token is retained when the user
// opted into auto-login so a future bootstrap can restore the session.
func (m *Manager) Logout(ctx context.Context) {
	m.opMu.Lock()
	defer m.opMu.Unlock()
	m.logoutLocked(ctx)
}

// RefreshUser re-fetches the profile without touching tokens. On failure
// the user view is cleared but the session is not torn down, so the
// caller can offer a retry instead of forcing re-login.
func (m *Manager) RefreshUser(ctx context.Context) bool {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	user, err := m.deps.API.CurrentUser(ctx)
	if err != nil || user == nil || !user.Valid() {
		if err != nil {
			log.Err(err).Msg("RefreshUser: fetch failed")
		}
		m.updateSession(func(s *Session) { s.User = nil })
		return false
	}
	m.updateSession(func(s *Session) { s.User = user })
	return true
}

// refreshSession exchanges a refresh token for new credentials and runs
// verify-then-commit. Any failure performs a full logout. Callers hold
// opMu.
func (m *Manager) refreshSession(ctx context.Context, refreshToken string) error {
	creds, err := m.deps.API.Refresh(ctx, refreshToken)
	if err != nil {
		m.logoutLocked(ctx)
		return errors.Wrap(err, "[Manager.refreshSession] refresh request")
	}
	if creds == nil || creds.AccessToken == "" {
		m.logoutLocked(ctx)
		return errors.Wrap(clienterrors.ErrMissingAccessToken, "[Manager.refreshSession]")
	}

	if err := m.verifyAndCommit(ctx, creds); err != nil {
		m.logoutLocked(ctx)
		return errors.Wrap(err, "[Manager.refreshSession] verify")
	}
	return nil
}

// verifyAndCommit is the invariant-preserving core routine shared by the
// login and refresh paths. Ordering is the contract: stage the token in
// memory, verify it resolves to a real user, persist, and only then
// report Authenticated. Nothing reaches storage for a token the backend
// has not vouched for. Callers hold opMu.
func (m *Manager) verifyAndCommit(ctx context.Context, creds *authclient.Credentials) error {
	m.deps.Binder.SetAuthToken(creds.AccessToken)

	user, err := m.deps.API.CurrentUser(ctx)
	if err != nil {
		m.deps.Binder.SetAuthToken("")
		return errors.Wrap(err, "[Manager.verifyAndCommit] fetch current user")
	}
	if user == nil || !user.Valid() {
		m.deps.Binder.SetAuthToken("")
		return errors.Wrap(clienterrors.ErrInvalidProfile, "[Manager.verifyAndCommit]")
	}

	if err := m.deps.Credentials.Set(ctx, credentials.KeyAccessToken, creds.AccessToken); err != nil {
		m.deps.Binder.SetAuthToken("")
		return errors.Wrap(err, "[Manager.verifyAndCommit] persist access token")
	}
	// Some flows rotate only the access token; a missing refresh token
	// here is not an error and leaves the stored one in place.
	if creds.RefreshToken != "" {
		if err := m.deps.Credentials.Set(ctx, credentials.KeyRefreshToken, creds.RefreshToken); err != nil {
			m.deps.Binder.SetAuthToken("")
			return errors.Wrap(err, "[Manager.verifyAndCommit] persist refresh token")
		}
	}

	m.updateSession(func(s *Session) {
		s.AccessToken = creds.AccessToken
		if creds.RefreshToken != "" {
			s.RefreshToken = creds.RefreshToken
		}
		s.User = user
		s.Status = StatusAuthenticated
	})
	return nil
}

// logoutLocked clears memory first, then storage. Callers hold opMu.
func (m *Manager) logoutLocked(ctx context.Context) {
	m.deps.Binder.SetAuthToken("")
	m.setSession(Session{Status: StatusUnauthenticated})

	if err := m.deps.Credentials.Delete(ctx, credentials.KeyAccessToken); err != nil {
		log.Err(err).Msg("Logout: failed to delete access token")
	}

	autoLogin, err := m.deps.Settings.AutoLogin(ctx)
	if err != nil {
		log.Err(err).Msg("Logout: failed to read auto-login flag, retaining refresh token")
		return
	}
	if !autoLogin {
		if err := m.deps.Credentials.Delete(ctx, credentials.KeyRefreshToken); err != nil {
			log.Err(err).Msg("Logout: failed to delete refresh token")
		}
	}
}

func (m *Manager) setSession(session Session) {
	m.stateMu.Lock()
	m.session = session
	m.stateMu.Unlock()
	m.notify()
}

func (m *Manager) updateSession(mutate func(*Session)) {
	m.stateMu.Lock()
	mutate(&m.session)
	m.stateMu.Unlock()
	m.notify()
}

func (m *Manager) notify() {
	snapshot := m.Current()

	m.obsMu.Lock()
	observers := make([]func(Session), 0, len(m.observers))
	for _, fn := range m.observers {
		observers = append(observers, fn)
	}
	m.obsMu.Unlock()

	for _, fn := range observers {
		fn(snapshot)
	}
}
