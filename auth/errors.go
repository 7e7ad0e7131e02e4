package auth

import (
	"errors"
	"fmt"
)

// Flow outcomes surfaced to clients. Messages here are user-facing;
// handlers must return them verbatim so the enumeration-resistance
// guarantees hold byte-for-byte.
var (
	// ErrInvalidInput wraps a specific validator failure reason.
	ErrInvalidInput = errors.New("invalid input")

	ErrDuplicateEmail = errors.New("An account with this email already exists")

	// ErrInvalidCredentials is returned identically for a nonexistent
	// email, a wrong password, and an account with no password set.
	ErrInvalidCredentials = errors.New("Invalid email or password")

	ErrEmailNotVerified = errors.New("Please verify your email before logging in")
	ErrNotFound         = errors.New("Account not found")
	ErrInvalidCode      = errors.New("Invalid verification code")
	ErrCodeExpired      = errors.New("This code has expired")

	// ErrInvalidResetCode covers both "no such account" and "wrong code"
	// on the reset-submission path, so existence is not leaked there either.
	ErrInvalidResetCode = errors.New("Invalid reset code")

	ErrEmailDeliveryFailed = errors.New("Failed to send email")
	ErrInvalidGoogleToken  = errors.New("Invalid Google credential")
	ErrInvalidGoogleUser   = errors.New("Google account is missing required profile information")
	ErrGoogleAuthError     = errors.New("An error occurred during Google authentication")
	ErrUpstreamUnavailable = errors.New("Upstream service unavailable")
)

// invalidInput tags a validator failure so handlers can map it to a
// client-correctable response while keeping the specific reason.
func invalidInput(reason error) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, reason.Error())
}

// UserMessage returns the text a client should see for a flow error.
// For validation failures that is the specific reason; for everything
// else it is the sentinel's own message.
func UserMessage(err error) string {
	if errors.Is(err, ErrInvalidInput) {
		msg := err.Error()
		prefix := ErrInvalidInput.Error() + ": "
		if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
			return msg[len(prefix):]
		}
		return msg
	}
	for _, sentinel := range []error{
		ErrDuplicateEmail, ErrInvalidCredentials, ErrEmailNotVerified,
		ErrNotFound, ErrInvalidCode, ErrCodeExpired, ErrInvalidResetCode,
		ErrEmailDeliveryFailed, ErrInvalidGoogleToken, ErrInvalidGoogleUser,
		ErrGoogleAuthError, ErrUpstreamUnavailable,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "Internal Server Error"
}
