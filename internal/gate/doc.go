// Package gate implements the local login attempt gate: a non-decaying
// attempt counter combined with a cooldown window.
//
// The gate is coarse and is not a sliding-window limiter.
// It closes after MaxAttempts recorded attempts and re-opens once the
// cooldown has elapsed since the most recent attempt, while the counter
// itself survives until a successful login resets it. A failure right
// after the window re-opens re-arms the full cooldown at the same or
// higher count.
//
// # Architecture boundaries
//
// The gate is process-local state. It performs no I/O and holds no
// references to collaborators.
//
// # What this package must NOT do
//
//   - Import authflow or any sibling package.
//   - Decide consequences. The flow controller turns a closed gate into
//     a user-facing error.
package gate
