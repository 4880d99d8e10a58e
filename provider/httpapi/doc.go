// Package httpapi is the reference SessionProvider: a JSON client for
// an identity service exposing session create, identity fetch, and
// session delete endpoints.
//
// Login performs the two dependent remote operations the controller
// expects from a provider: POST the session, then GET the authenticated
// identity with the issued token. The profile-completion condition is
// reported on the LoginResult tag, never as an error.
//
// # Architecture boundaries
//
// The client owns the current access token and nothing else. Flow
// state, attempt counting, pacing, and navigation live in the root
// package; retry policy belongs to the embedder's http.Client.
//
// # What this package must NOT do
//
//   - Verify token signatures. The client only peeks at unauthenticated
//     claims for display-grade expiry; the service is the verifier.
//   - Persist credentials or tokens.
//   - Classify errors for display; it maps status codes onto the root
//     taxonomy and leaves wording to the controller.
package httpapi
