// Package authflow is an embeddable client-side orchestration controller
// for login and logout sequences. It wraps an externally owned session
// provider with a step state machine, a local attempt gate, an error
// classifier, remember-me persistence, transient notifications, and a
// navigation signal for the embedding UI.
//
// The package is designed for interactive clients: one flow runs at a
// time, overlapping calls fail fast with [ErrFlowBusy], and callers
// observe progress through [Controller.State] snapshots rather than
// callbacks.
//
// # Architecture boundaries
//
// authflow is the public surface. It exposes [Controller], [Builder],
// [Config], the collaborator contracts ([SessionProvider],
// [CredentialStore], [Navigator], [Notifier]), and value types. The
// attempt gate lives under internal/ and is never exported.
//
// # What this package must NOT do
//
//   - Own identity or session state. The provider does; the controller
//     only orchestrates and observes.
//   - Perform navigation, rendering, or transport itself; those arrive
//     through the injected collaborators.
//   - Import any sub-package that re-imports authflow (no import
//     cycles).
//
// # Blocking contract
//
// Login and Logout run on the caller's goroutine and block for the
// provider calls plus the configured pacing pauses. Notifications are
// delivered asynchronously and never block the flow beyond the
// dispatcher buffer.
package authflow
