// Package identitystub is a self-contained identity backend for demos
// and integration tests. It speaks the same wire contract the httpapi
// provider consumes: session creation, identity lookup, and session
// deletion, with bcrypt users loaded from YAML fixtures.
//
// # Behavior
//
//   - POST /v1/sessions issues an HS256 access token and enforces one
//     active session per account plus a fixed-window per-email attempt
//     limit.
//   - GET /v1/users/me resolves the bearer token to the fixture user.
//   - DELETE /v1/sessions/current ends the session; unknown tokens get
//     401 so clients can treat the logout as already done.
//   - GET /healthz and GET /metrics expose liveness and Prometheus
//     counters.
//
// # What this package must NOT do
//
//   - Persist anything. All state is in memory and dies with the server.
//   - Be imported outside this module.
package identitystub
