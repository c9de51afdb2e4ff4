package session

import "fmt"

// Machine-readable reasons carried by AuthError. The UI keys its
// messaging off these, so they are stable strings.
const (
	ReasonLoginFailed          = "login_failed"
	ReasonMissingToken         = "missing_token"
	ReasonInvalidProfile       = "invalid_profile"
	ReasonBiometricUnavailable = "biometric_unavailable"
)

// AuthError is the only error type surfaced to callers of Login and
// LoginWithBiometrics. Background flows (bootstrap, silent refresh)
// absorb failures into state transitions instead of returning them.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return e.Reason
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func newAuthError(reason string, err error) *AuthError {
	return &AuthError{Reason: reason, Err: err}
}
