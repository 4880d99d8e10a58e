package identitystub

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *stubClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func hashPassword(t *testing.T, plain string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt hash failed: %v", err)
	}
	return string(h)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newStubServer builds a server with two fixture users: ada (complete
// profile, password "correct horse") and newbie (incomplete profile,
// password "first steps").
func newStubServer(t *testing.T, opts Options) (*Server, *stubClock) {
	t.Helper()

	clk := &stubClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	if opts.Clock == nil {
		opts.Clock = clk.Now
	}
	if opts.Logger == nil {
		opts.Logger = quietLogger()
	}

	users := []User{
		{Email: "ada@example.com", Name: "Ada", PasswordHash: hashPassword(t, "correct horse"), ProfileComplete: true},
		{Email: "newbie@example.com", Name: "Newbie", PasswordHash: hashPassword(t, "first steps"), ProfileComplete: false},
	}
	srv, err := New(users, []byte("test-signing-key"), opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return srv, clk
}

func postSession(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(w, req)
	return w
}

func doWithToken(t *testing.T, srv *Server, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	srv.Handler().ServeHTTP(w, req)
	return w
}

func decodeSession(t *testing.T, w *httptest.ResponseRecorder) sessionCreatedResponse {
	t.Helper()
	var resp sessionCreatedResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode session response: %v", err)
	}
	return resp
}

func TestCreateSessionIssuesToken(t *testing.T) {
	srv, clk := newStubServer(t, Options{})

	w := postSession(t, srv, `{"email":"ada@example.com","password":"correct horse"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %q)", w.Code, w.Body.String())
	}

	resp := decodeSession(t, w)
	if resp.SessionID == "" {
		t.Fatal("expected a session id")
	}
	if resp.AccessToken == "" {
		t.Fatal("expected an access token")
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(resp.AccessToken, &claims); err != nil {
		t.Fatalf("token does not parse: %v", err)
	}
	wantExp := clk.Now().Add(defaultTokenTTL).Truncate(time.Second)
	if claims.ExpiresAt == nil || !claims.ExpiresAt.Time.Equal(wantExp) {
		t.Fatalf("token exp = %v, want %v", claims.ExpiresAt, wantExp)
	}
}

func TestCreateSessionWrongPassword(t *testing.T) {
	srv, _ := newStubServer(t, Options{})

	w := postSession(t, srv, `{"email":"ada@example.com","password":"wrong"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid login credentials") {
		t.Fatalf("body %q missing credential error", w.Body.String())
	}
}

func TestCreateSessionUnknownUser(t *testing.T) {
	srv, _ := newStubServer(t, Options{})

	w := postSession(t, srv, `{"email":"ghost@example.com","password":"whatever"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "User not found") {
		t.Fatalf("body %q missing not-found error", w.Body.String())
	}
}

func TestCreateSessionSecondLoginConflicts(t *testing.T) {
	srv, _ := newStubServer(t, Options{})

	if w := postSession(t, srv, `{"email":"ada@example.com","password":"correct horse"}`); w.Code != http.StatusCreated {
		t.Fatalf("first login status = %d, want 201", w.Code)
	}

	w := postSession(t, srv, `{"email":"ada@example.com","password":"correct horse"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("second login status = %d, want 409", w.Code)
	}
	if !strings.Contains(w.Body.String(), "session conflict") {
		t.Fatalf("body %q missing conflict error", w.Body.String())
	}
}

func TestCreateSessionRateLimited(t *testing.T) {
	srv, _ := newStubServer(t, Options{RateLimit: 2, RateWindow: time.Hour})

	for i := 0; i < 2; i++ {
		if w := postSession(t, srv, `{"email":"ada@example.com","password":"wrong"}`); w.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d status = %d, want 401", i+1, w.Code)
		}
	}

	w := postSession(t, srv, `{"email":"ada@example.com","password":"correct horse"}`)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Email rate limit exceeded") {
		t.Fatalf("body %q missing rate limit error", w.Body.String())
	}

	// Other accounts keep their own window.
	if w := postSession(t, srv, `{"email":"newbie@example.com","password":"first steps"}`); w.Code != http.StatusCreated {
		t.Fatalf("other account status = %d, want 201", w.Code)
	}
}

func TestIdentityReturnsFixtureUser(t *testing.T) {
	srv, _ := newStubServer(t, Options{})

	sess := decodeSession(t, postSession(t, srv, `{"email":"newbie@example.com","password":"first steps"}`))

	w := doWithToken(t, srv, http.MethodGet, "/v1/users/me", sess.AccessToken)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var id identityPayload
	if err := json.Unmarshal(w.Body.Bytes(), &id); err != nil {
		t.Fatalf("decode identity: %v", err)
	}
	if id.Email != "newbie@example.com" {
		t.Fatalf("email = %q, want newbie@example.com", id.Email)
	}
	if id.Name != "Newbie" {
		t.Fatalf("name = %q, want Newbie", id.Name)
	}
	if id.ProfileComplete {
		t.Fatal("expected an incomplete profile")
	}
	if id.ID == "" {
		t.Fatal("expected a generated user id")
	}
}

func TestIdentityRejectsBadTokens(t *testing.T) {
	srv, _ := newStubServer(t, Options{})

	if w := doWithToken(t, srv, http.MethodGet, "/v1/users/me", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token status = %d, want 401", w.Code)
	}
	if w := doWithToken(t, srv, http.MethodGet, "/v1/users/me", "garbage"); w.Code != http.StatusUnauthorized {
		t.Fatalf("unknown token status = %d, want 401", w.Code)
	}
}

func TestDeleteSessionFreesAccount(t *testing.T) {
	srv, _ := newStubServer(t, Options{})

	sess := decodeSession(t, postSession(t, srv, `{"email":"ada@example.com","password":"correct horse"}`))

	if w := doWithToken(t, srv, http.MethodDelete, "/v1/sessions/current", sess.AccessToken); w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", w.Code)
	}
	if w := doWithToken(t, srv, http.MethodGet, "/v1/users/me", sess.AccessToken); w.Code != http.StatusUnauthorized {
		t.Fatalf("identity after delete status = %d, want 401", w.Code)
	}
	if w := doWithToken(t, srv, http.MethodDelete, "/v1/sessions/current", sess.AccessToken); w.Code != http.StatusUnauthorized {
		t.Fatalf("second delete status = %d, want 401", w.Code)
	}

	// The account is free for a new session.
	if w := postSession(t, srv, `{"email":"ada@example.com","password":"correct horse"}`); w.Code != http.StatusCreated {
		t.Fatalf("relogin status = %d, want 201", w.Code)
	}
}

func TestExpiredSessionDoesNotConflict(t *testing.T) {
	srv, clk := newStubServer(t, Options{TokenTTL: time.Minute})

	sess := decodeSession(t, postSession(t, srv, `{"email":"ada@example.com","password":"correct horse"}`))
	clk.Advance(2 * time.Minute)

	if w := doWithToken(t, srv, http.MethodGet, "/v1/users/me", sess.AccessToken); w.Code != http.StatusUnauthorized {
		t.Fatalf("expired identity status = %d, want 401", w.Code)
	}
	if w := postSession(t, srv, `{"email":"ada@example.com","password":"correct horse"}`); w.Code != http.StatusCreated {
		t.Fatalf("relogin after expiry status = %d, want 201", w.Code)
	}
}

func TestCreateSessionRejectsInvalidBody(t *testing.T) {
	srv, _ := newStubServer(t, Options{})

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{bad json}`},
		{"not an email", `{"email":"not-an-email","password":"x"}`},
		{"missing password", `{"email":"ada@example.com"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := postSession(t, srv, tc.body); w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := newStubServer(t, Options{})

	w := doWithToken(t, srv, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ok") {
		t.Fatalf("body %q missing ok", w.Body.String())
	}
}

func TestMetricsEndpointServes(t *testing.T) {
	Register()
	srv, _ := newStubServer(t, Options{})

	postSession(t, srv, `{"email":"ada@example.com","password":"correct horse"}`)

	w := doWithToken(t, srv, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "identitystub_login_attempts_total") {
		t.Fatal("expected stub counters in metrics output")
	}
}

func TestRegisterIsIdempotent(t *testing.T) {
	Register()
	Register()
}

func TestNewValidatesInput(t *testing.T) {
	users := []User{{Email: "a@example.com", PasswordHash: "x"}}

	if _, err := New(users, nil, Options{Logger: quietLogger()}); err == nil {
		t.Fatal("expected error for empty signing key")
	}

	dup := []User{
		{Email: "a@example.com", PasswordHash: "x"},
		{Email: "A@example.com", PasswordHash: "y"},
	}
	if _, err := New(dup, []byte("k"), Options{Logger: quietLogger()}); err == nil {
		t.Fatal("expected error for duplicate emails")
	}
}
