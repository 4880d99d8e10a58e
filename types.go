package authflow

import (
	"context"
	"time"
)

// LoginCredentials is the caller-supplied input to Login.
type LoginCredentials struct {
	Email      string
	Password   string
	RememberMe bool
}

// SavedCredentials is the persisted remember-me preference. Email is
// empty whenever RememberMe is false.
type SavedCredentials struct {
	Email      string
	RememberMe bool
}

// Session is the handle returned by a successful provider login. The
// controller never stores it; the provider owns the session lifecycle.
type Session struct {
	ID          string
	AccessToken string
	ExpiresAt   time.Time
}

// Identity is the authenticated user fetched after session creation.
type Identity struct {
	UserID          string
	Email           string
	Name            string
	ProfileComplete bool
}

// LoginResult is the tagged outcome of a provider login. A nil error
// with NeedsProfileCompletion set means the session was created but
// required profile data is missing; the controller routes that to the
// profile-completion destination instead of the landing page.
type LoginResult struct {
	Session                *Session
	Identity               *Identity
	NeedsProfileCompletion bool
}

// FlowState is a point-in-time snapshot of the controller state. Fields
// are copies; mutating a snapshot has no effect on the controller.
type FlowState struct {
	Step         Step
	IsLoading    bool
	IsValidating bool
	Err          string
	Attempts     int
	LastAttempt  time.Time
}

// SessionProvider is the external collaborator owning the identity and
// session lifecycle. Login performs the full remote sequence (create the
// session, then fetch the authenticated identity) and reports the
// profile-completion condition on the result tag rather than through an
// error.
type SessionProvider interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context) error

	// Loading reports the provider's own in-flight state; FlowState
	// snapshots merge it with the controller's IsLoading.
	Loading() bool

	// ClearError clears any error state owned by the provider side.
	ClearError()
}

// CredentialStore persists the remember-me preference across sessions.
type CredentialStore interface {
	Load(ctx context.Context) (SavedCredentials, error)
	// Save stores the email with RememberMe set.
	Save(ctx context.Context, email string) error
	// Clear removes the saved email and resets RememberMe.
	Clear(ctx context.Context) error
}

// Navigator receives the navigation signal emitted at the end of a
// successful or profile-incomplete login. The concrete mechanism (router
// push, redirect, message to a UI layer) belongs to the embedder.
type Navigator interface {
	Navigate(ctx context.Context, path string)
}

// NavigatorFunc adapts a plain function to the Navigator interface.
type NavigatorFunc func(ctx context.Context, path string)

// Navigate calls f.
func (f NavigatorFunc) Navigate(ctx context.Context, path string) {
	f(ctx, path)
}

// ConfirmFunc asks the user to confirm a logout. Returning false aborts
// the logout with no state change.
type ConfirmFunc func(ctx context.Context) bool
