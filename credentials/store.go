// Package credentials provides the secure key-value store the session layer
// persists its token pair and policy flags into.
package credentials

import "context"

// Stable storage keys. These names are part of the on-device contract:
// changing them orphans previously persisted credentials.
const (
	KeyAccessToken    = "jwt_token"
	KeyRefreshToken   = "refresh_token"
	KeyAutoLogin      = "settings_auto_login"
	KeyBiometricLogin = "settings_biometric_login"
	KeyDeviceID       = "device_id"
)

// Store is a named-secret store backed by encrypted device storage.
// Get returns the empty string and a nil error for a key that was never
// set or has been deleted.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
