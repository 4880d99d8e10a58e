// Package credstore ships CredentialStore backends for the remember-me
// preference: process-local memory, a JSON file, and Redis.
//
// All three persist the same two logical fields, the remember-me flag
// and the saved email, and treat a missing record as the zero value
// rather than an error.
//
// # Architecture boundaries
//
// This package implements the authflow.CredentialStore contract and
// depends only on the root package types. It never inspects passwords;
// a store that sees a password is a bug in the caller.
//
// # What this package must NOT do
//
//   - Store passwords or tokens of any kind.
//   - Decide when to save or clear; the controller owns that protocol.
//   - Swallow backend outages: those surface as ErrUnavailable so the
//     caller can degrade.
package credstore
