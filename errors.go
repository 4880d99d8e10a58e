package authflow

import "errors"

var (
	// ErrFlowBusy is returned when Login or Logout is called while
	// another flow is still in flight.
	ErrFlowBusy = errors.New("auth flow already in progress")

	// ErrLoginRateLimited is returned when the local attempt gate is
	// closed. The session provider is never contacted in that case.
	ErrLoginRateLimited = errors.New("login rate limited")

	// Login failure taxonomy. The classifier picks exactly one of these
	// per failed attempt.
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrProviderRateLimited = errors.New("provider rate limited")
	ErrUserNotFound        = errors.New("user not found")
	ErrSessionConflict     = errors.New("session conflict")
	ErrProfileIncomplete   = errors.New("profile incomplete")
	ErrLoginFailed         = errors.New("login failed")

	ErrLogoutFailed = errors.New("logout failed")
)
