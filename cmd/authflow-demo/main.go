// Command authflow-demo wires the controller against a live identity
// backend and walks one failed login, one successful login, and a
// logout, printing state snapshots and the metrics exposition along
// the way. Without PROVIDER_URL it starts an embedded stub backend.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/redis/go-redis/v9"

	"github.com/goodwiins/authflow"
	"github.com/goodwiins/authflow/credstore"
	"github.com/goodwiins/authflow/internal/identitystub"
	promexport "github.com/goodwiins/authflow/metrics/export/prometheus"
	"github.com/goodwiins/authflow/provider/httpapi"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.slogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	baseURL := cfg.ProviderURL
	if baseURL == "" {
		url, stopStub, err := startEmbeddedStub(logger)
		if err != nil {
			log.Fatalf("embedded stub: %v", err)
		}
		defer stopStub()
		baseURL = url
	}

	store, cleanupStore, err := buildStore(cfg, logger)
	if err != nil {
		log.Fatalf("credential store: %v", err)
	}
	defer cleanupStore()

	controller, err := authflow.New().
		WithSessionProvider(httpapi.New(baseURL, nil, logger)).
		WithCredentialStore(store).
		WithNotifier(authflow.NewSlogNotifier(logger)).
		WithNavigator(authflow.NavigatorFunc(func(_ context.Context, path string) {
			logger.Info("navigate", "path", path)
		})).
		WithLogger(logger).
		Build()
	if err != nil {
		log.Fatalf("build controller: %v", err)
	}
	defer controller.Close()

	ctx := context.Background()

	// Wrong password first, to show the classified error surface.
	if err := controller.Login(ctx, authflow.LoginCredentials{
		Email:      cfg.Email,
		Password:   "definitely wrong",
		RememberMe: cfg.RememberMe,
	}); err != nil {
		logger.Info("expected failure", "error", err)
	}
	printState("after failed login", controller)

	if err := controller.Login(ctx, authflow.LoginCredentials{
		Email:      cfg.Email,
		Password:   cfg.Password,
		RememberMe: cfg.RememberMe,
	}); err != nil {
		log.Fatalf("login: %v", err)
	}
	printState("after login", controller)

	saved := controller.SavedCredentials(ctx)
	fmt.Printf("---- saved credentials ----\nremember_me=%v email=%q\n", saved.RememberMe, saved.Email)

	if err := controller.Logout(ctx, true); err != nil {
		log.Fatalf("logout: %v", err)
	}
	printState("after logout", controller)

	fmt.Println("---- metrics ----")
	fmt.Print(promexport.NewExporter(controller).Render())
}

func printState(label string, c *authflow.Controller) {
	st := c.State()
	fmt.Printf("---- %s ----\nstep=%s loading=%v attempts=%d err=%q progress=%d\n",
		label, st.Step, st.IsLoading, st.Attempts, st.Err, c.Progress())
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var handler slog.Handler
	if env == "local" {
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(handler)
}

// startEmbeddedStub serves the dev fixture users on a loopback port.
func startEmbeddedStub(logger *slog.Logger) (string, func(), error) {
	users, err := identitystub.DevUsers()
	if err != nil {
		return "", nil, err
	}
	stub, err := identitystub.New(users, []byte("authflow-demo-key"), identitystub.Options{Logger: logger})
	if err != nil {
		return "", nil, err
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, err
	}
	srv := &http.Server{Handler: stub.Handler()}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("embedded stub", "error", err)
		}
	}()

	url := "http://" + ln.Addr().String()
	logger.Info("embedded identity stub started", "url", url)

	stop := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
	return url, stop, nil
}

func buildStore(cfg *config, logger *slog.Logger) (authflow.CredentialStore, func(), error) {
	switch cfg.Store {
	case "file":
		path := cfg.StorePath
		if path == "" {
			path = filepath.Join(os.TempDir(), "authflow-demo-credstore.json")
		}
		logger.Info("using file credential store", "path", path)
		return credstore.NewFile(path), func() {}, nil

	case "redis":
		addr := cfg.RedisAddr
		var closers []func()
		if addr == "" {
			mr, err := miniredis.Run()
			if err != nil {
				return nil, nil, fmt.Errorf("start miniredis: %w", err)
			}
			addr = mr.Addr()
			closers = append(closers, mr.Close)
			logger.Info("using miniredis credential store", "addr", addr)
		} else {
			logger.Info("using redis credential store", "addr", addr)
		}
		client := redis.NewClient(&redis.Options{Addr: addr})
		closers = append(closers, func() { _ = client.Close() })
		cleanup := func() {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
		return credstore.NewRedis(client, "authflow-demo"), cleanup, nil

	default:
		return credstore.NewMemory(), func() {}, nil
	}
}
