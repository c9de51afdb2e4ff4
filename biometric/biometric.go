// Package biometric defines the device biometric challenge contract.
// The client core only consumes the Gate interface; real implementations
// live in the platform bindings that embed this SDK.
package biometric

import "context"

// Reason codes reported by a failed challenge.
const (
	ReasonLockout      = "lockout"
	ReasonNotEnrolled  = "not_enrolled"
	ReasonNotAvailable = "not_available"
	ReasonUserCancel   = "user_cancel"
	ReasonSystemCancel = "system_cancel"
)

// Result is the outcome of a single biometric challenge. Reason is set
// only when Success is false.
type Result struct {
	Success bool
	Reason  string
}

// Gate queries biometric hardware state and runs the challenge.
type Gate interface {
	HasHardware(ctx context.Context) (bool, error)
	IsEnrolled(ctx context.Context) (bool, error)
	Authenticate(ctx context.Context, promptMessage string) (Result, error)
}

// Outcome is the tagged result of a biometric login attempt, separating
// "user declined or challenge failed" from "hardware cannot do this at
// all" so callers can pick the right fallback.
type Outcome string

const (
	OutcomeAuthenticated Outcome = "authenticated"
	OutcomeDeclined      Outcome = "declined"
	OutcomeUnavailable   Outcome = "unavailable"
)

// ReasonMessage maps a reason code to operator-readable text.
func ReasonMessage(reason string) string {
	switch reason {
	case ReasonLockout:
		return "too many failed attempts, unlock the device and retry"
	case ReasonNotEnrolled:
		return "no fingerprint or face enrolled"
	case ReasonNotAvailable:
		return "biometric authentication not available on this device"
	case ReasonUserCancel, ReasonSystemCancel:
		return "authentication cancelled"
	default:
		return "authentication failed"
	}
}

// Unsupported is a Gate for platforms without biometric hardware.
type Unsupported struct{}

var _ Gate = Unsupported{}

func (Unsupported) HasHardware(context.Context) (bool, error) { return false, nil }
func (Unsupported) IsEnrolled(context.Context) (bool, error)  { return false, nil }

func (Unsupported) Authenticate(context.Context, string) (Result, error) {
	return Result{Success: false, Reason: ReasonNotAvailable}, nil
}
