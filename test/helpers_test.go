//go:build integration
// +build integration

package test

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/goodwiins/authflow"
	"github.com/goodwiins/authflow/credstore"
	"github.com/goodwiins/authflow/internal/identitystub"
	"github.com/goodwiins/authflow/provider/httpapi"
)

const (
	adaEmail       = "ada@example.com"
	adaPassword    = "correct horse"
	newbieEmail    = "newbie@example.com"
	newbiePassword = "first steps"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixtureUsers(t *testing.T) []identitystub.User {
	t.Helper()
	hash := func(plain string) string {
		h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("bcrypt hash failed: %v", err)
		}
		return string(h)
	}
	return []identitystub.User{
		{Email: adaEmail, Name: "Ada", PasswordHash: hash(adaPassword), ProfileComplete: true},
		{Email: newbieEmail, Name: "Newbie", PasswordHash: hash(newbiePassword), ProfileComplete: false},
	}
}

type navRecorder struct {
	mu    sync.Mutex
	paths []string
}

func (n *navRecorder) Navigate(_ context.Context, path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *navRecorder) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.paths) == 0 {
		return ""
	}
	return n.paths[len(n.paths)-1]
}

type backend struct {
	controller *authflow.Controller
	events     *authflow.ChannelNotifier
	nav        *navRecorder
	redis      *miniredis.Miniredis
	rdb        *redis.Client
	baseURL    string
}

// newBackend spins up the full stack: the identity stub behind httptest,
// the httpapi provider against it, and a Redis-backed credential store
// on miniredis. Pacing is zeroed to keep tests fast.
func newBackend(t *testing.T, stubOpts identitystub.Options) *backend {
	t.Helper()

	if stubOpts.Logger == nil {
		stubOpts.Logger = discardLogger()
	}
	stub, err := identitystub.New(fixtureUsers(t), []byte("integration-signing-key"), stubOpts)
	if err != nil {
		t.Fatalf("stub build failed: %v", err)
	}
	srv := httptest.NewServer(stub.Handler())
	t.Cleanup(srv.Close)

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	events := authflow.NewChannelNotifier(32)
	nav := &navRecorder{}

	cfg := authflow.DefaultConfig()
	cfg.Pacing = authflow.PacingConfig{}

	controller, err := authflow.New().
		WithConfig(cfg).
		WithSessionProvider(httpapi.New(srv.URL, srv.Client(), discardLogger())).
		WithCredentialStore(credstore.NewRedis(rdb, "it")).
		WithNotifier(events).
		WithNavigator(nav).
		WithLogger(discardLogger()).
		Build()
	if err != nil {
		t.Fatalf("controller build failed: %v", err)
	}
	t.Cleanup(controller.Close)

	return &backend{
		controller: controller,
		events:     events,
		nav:        nav,
		redis:      mr,
		rdb:        rdb,
		baseURL:    srv.URL,
	}
}

// newBackendSharingStub builds a second controller against the same stub
// server, modelling another device logging into the same account.
func newBackendSharingStub(t *testing.T, base *backend) *backend {
	t.Helper()

	events := authflow.NewChannelNotifier(32)
	nav := &navRecorder{}

	cfg := authflow.DefaultConfig()
	cfg.Pacing = authflow.PacingConfig{}

	controller, err := authflow.New().
		WithConfig(cfg).
		WithSessionProvider(httpapi.New(base.baseURL, nil, discardLogger())).
		WithCredentialStore(credstore.NewMemory()).
		WithNotifier(events).
		WithNavigator(nav).
		WithLogger(discardLogger()).
		Build()
	if err != nil {
		t.Fatalf("second controller build failed: %v", err)
	}
	t.Cleanup(controller.Close)

	return &backend{
		controller: controller,
		events:     events,
		nav:        nav,
		baseURL:    base.baseURL,
	}
}

func (b *backend) login(t *testing.T, email, password string, remember bool) error {
	t.Helper()
	return b.controller.Login(context.Background(), authflow.LoginCredentials{
		Email:      email,
		Password:   password,
		RememberMe: remember,
	})
}

func waitEvent(t *testing.T, events *authflow.ChannelNotifier, name string) authflow.Notification {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case n := <-events.Events():
			if n.Event == name {
				return n
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", name)
		}
	}
}
