package errors

import (
	"errors"
	"fmt"
)

// Common error types for the FiscalFlow client
var (
	// Transport errors
	ErrTransport      = errors.New("transport error")
	ErrServerRejected = errors.New("server rejected request")

	// Credential response errors
	ErrInvalidResponse    = errors.New("invalid response payload")
	ErrMissingAccessToken = errors.New("response missing access token")
	ErrInvalidProfile     = errors.New("profile missing id, name and email")
	ErrInvalidIDToken     = errors.New("id token verification failed")

	// Session errors
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNoRefreshToken   = errors.New("no stored refresh token")

	// Biometric errors
	ErrBiometricUnavailable = errors.New("biometric hardware unavailable or not enrolled")

	// Storage errors
	ErrStoreCorrupt    = errors.New("credential store corrupt or wrong key")
	ErrStoreUnwritable = errors.New("credential store not writable")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
