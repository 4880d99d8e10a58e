package authflow

import (
	"errors"
	"strings"
)

// errorKind is the single label assigned to a failed login attempt.
type errorKind uint8

const (
	kindUnknown errorKind = iota
	kindProfileIncomplete
	kindInvalidCredentials
	kindProviderRateLimited
	kindUserNotFound
	kindSessionConflict
)

// profileIncompleteMarker is the sentinel text providers embed when they
// can only signal the profile-completion redirect through an error value.
const profileIncompleteMarker = "PROFILE_INCOMPLETE"

// classifyError maps a provider failure onto the taxonomy. Typed errors
// are matched first via errors.Is; free-form text falls back to a
// case-sensitive substring match on the known provider phrases. First
// match wins, exactly one label per failure.
func classifyError(err error) errorKind {
	if err == nil {
		return kindUnknown
	}

	switch {
	case errors.Is(err, ErrProfileIncomplete):
		return kindProfileIncomplete
	case errors.Is(err, ErrInvalidCredentials):
		return kindInvalidCredentials
	case errors.Is(err, ErrProviderRateLimited):
		return kindProviderRateLimited
	case errors.Is(err, ErrUserNotFound):
		return kindUserNotFound
	case errors.Is(err, ErrSessionConflict):
		return kindSessionConflict
	}

	text := err.Error()
	switch {
	case strings.Contains(text, profileIncompleteMarker):
		return kindProfileIncomplete
	case strings.Contains(text, "Invalid login credentials"):
		return kindInvalidCredentials
	case strings.Contains(text, "rate limit"):
		return kindProviderRateLimited
	case strings.Contains(text, "User not found"):
		return kindUserNotFound
	case strings.Contains(text, "session conflict"):
		return kindSessionConflict
	default:
		return kindUnknown
	}
}

// message returns the fixed user-facing string for the kind.
func (k errorKind) message() string {
	switch k {
	case kindInvalidCredentials:
		return "Invalid email or password. Please check your credentials and try again."
	case kindProviderRateLimited:
		return "Too many requests. Please wait a moment and try again."
	case kindUserNotFound:
		return "No account found with this email address."
	case kindSessionConflict:
		return "You already have an active session. Please sign out and try again."
	default:
		return "Login failed. Please try again."
	}
}

// sentinel returns the exported error value the kind maps to.
func (k errorKind) sentinel() error {
	switch k {
	case kindProfileIncomplete:
		return ErrProfileIncomplete
	case kindInvalidCredentials:
		return ErrInvalidCredentials
	case kindProviderRateLimited:
		return ErrProviderRateLimited
	case kindUserNotFound:
		return ErrUserNotFound
	case kindSessionConflict:
		return ErrSessionConflict
	default:
		return ErrLoginFailed
	}
}
