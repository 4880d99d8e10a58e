// Command identity-stub runs the in-memory identity backend on a local
// port, serving the session API the httpapi provider talks to.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"

	"github.com/goodwiins/authflow/internal/identitystub"
)

func main() {
	var (
		addr       = flag.String("addr", ":8777", "listen address")
		fixtures   = flag.String("fixtures", "", "YAML user fixtures; built-in demo users if empty")
		key        = flag.String("key", "", "token signing key; IDENTITY_STUB_KEY env or a dev default if empty")
		tokenTTL   = flag.Duration("token-ttl", time.Hour, "access token lifetime")
		rateLimit  = flag.Int("rate-limit", 10, "session create attempts per email per window")
		rateWindow = flag.Duration("rate-window", time.Minute, "rate limit window")
		debug      = flag.Bool("debug", false, "log at debug level")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))

	signingKey := *key
	if signingKey == "" {
		signingKey = os.Getenv("IDENTITY_STUB_KEY")
	}
	if signingKey == "" {
		signingKey = "identity-stub-dev-key"
	}

	var (
		users []identitystub.User
		err   error
	)
	if *fixtures != "" {
		users, err = identitystub.LoadUsers(*fixtures)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load fixtures: %v\n", err)
			os.Exit(1)
		}
	} else {
		users, err = identitystub.DevUsers()
		if err != nil {
			fmt.Fprintf(os.Stderr, "build dev users: %v\n", err)
			os.Exit(1)
		}
	}

	gin.SetMode(gin.ReleaseMode)
	identitystub.Register()

	stub, err := identitystub.New(users, []byte(signingKey), identitystub.Options{
		TokenTTL:   *tokenTTL,
		RateLimit:  *rateLimit,
		RateWindow: *rateWindow,
		Logger:     logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "build stub: %v\n", err)
		os.Exit(1)
	}

	srv := &http.Server{Addr: *addr, Handler: stub.Handler()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("identity stub started", "addr", *addr, "users", len(users))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "serve: %v\n", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}
