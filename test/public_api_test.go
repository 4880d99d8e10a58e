package test

import (
	"context"
	"testing"

	"github.com/goodwiins/authflow"
)

// This test intentionally guards public API compile-compat for consumers.
func TestPublicAPISurfaceCompile(t *testing.T) {
	_ = authflow.New

	var _ *authflow.Controller
	var _ *authflow.Builder
	var _ authflow.Config
	var _ authflow.FlowState
	var _ authflow.Step
	var _ authflow.LoginCredentials
	var _ authflow.SavedCredentials
	var _ authflow.LoginResult
	var _ *authflow.Session
	var _ *authflow.Identity
	var _ authflow.Notification
	var _ authflow.MetricsSnapshot
	var _ authflow.SessionProvider
	var _ authflow.CredentialStore
	var _ authflow.Navigator
	var _ authflow.Notifier
	var _ authflow.ConfirmFunc

	var _ error = authflow.ErrFlowBusy
	var _ error = authflow.ErrLoginRateLimited
	var _ error = authflow.ErrInvalidCredentials
	var _ error = authflow.ErrProviderRateLimited
	var _ error = authflow.ErrUserNotFound
	var _ error = authflow.ErrSessionConflict
	var _ error = authflow.ErrProfileIncomplete
	var _ error = authflow.ErrLoginFailed
	var _ error = authflow.ErrLogoutFailed

	var _ func(*authflow.Controller, context.Context, authflow.LoginCredentials) error = (*authflow.Controller).Login
	var _ func(*authflow.Controller, context.Context, bool) error = (*authflow.Controller).Logout
	var _ func(*authflow.Controller) authflow.FlowState = (*authflow.Controller).State
	var _ func(*authflow.Controller) bool = (*authflow.Controller).CanAttemptAuth
	var _ func(*authflow.Controller) int = (*authflow.Controller).Progress
	var _ func(*authflow.Controller) string = (*authflow.Controller).LoadingMessage
	var _ func(*authflow.Controller) = (*authflow.Controller).ClearError
	var _ func(*authflow.Controller, context.Context) authflow.SavedCredentials = (*authflow.Controller).SavedCredentials
	var _ func(*authflow.Controller) authflow.MetricsSnapshot = (*authflow.Controller).MetricsSnapshot
	var _ func(*authflow.Controller) uint64 = (*authflow.Controller).NotificationsDropped
	var _ func(*authflow.Controller) = (*authflow.Controller).Close

	var _ authflow.Navigator = authflow.NavigatorFunc(nil)
	var _ authflow.Notifier = authflow.NoOpNotifier{}
	var _ authflow.Notifier = (*authflow.ChannelNotifier)(nil)
	var _ authflow.Notifier = (*authflow.SlogNotifier)(nil)
}
