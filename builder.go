package authflow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/goodwiins/authflow/internal/gate"
)

// Builder assembles a [Controller]. Collaborators are supplied through
// the With methods; Build validates the configuration and wires the
// parts. A Builder is single-use.
type Builder struct {
	config    Config
	provider  SessionProvider
	store     CredentialStore
	notifier  Notifier
	navigator Navigator
	confirm   ConfirmFunc
	logger    *slog.Logger
	clock     func() time.Time

	built bool
}

// New returns a Builder primed with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithSessionProvider sets the identity/session collaborator. Required.
func (b *Builder) WithSessionProvider(p SessionProvider) *Builder {
	b.provider = p
	return b
}

// WithCredentialStore sets the remember-me store. Required.
func (b *Builder) WithCredentialStore(s CredentialStore) *Builder {
	b.store = s
	return b
}

// WithNotifier sets the notification sink. Defaults to [NoOpNotifier].
func (b *Builder) WithNotifier(n Notifier) *Builder {
	b.notifier = n
	return b
}

// WithNavigator sets the navigation signal target. Defaults to a no-op.
func (b *Builder) WithNavigator(n Navigator) *Builder {
	b.navigator = n
	return b
}

// WithConfirm sets the logout confirmation callback. Defaults to
// confirming every request so non-interactive embedders need no wiring.
func (b *Builder) WithConfirm(f ConfirmFunc) *Builder {
	b.confirm = f
	return b
}

// WithLogger sets the logger used for best-effort warnings. Defaults to
// slog.Default.
func (b *Builder) WithLogger(l *slog.Logger) *Builder {
	b.logger = l
	return b
}

// WithClock overrides the time source. Meant for tests.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.clock = now
	return b
}

// WithMetricsEnabled toggles the in-process metrics collector.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration and wires the Controller. The
// initial saved-credentials read happens here so a misconfigured store
// surfaces early.
func (b *Builder) Build() (*Controller, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := b.config

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.provider == nil {
		return nil, errors.New("session provider required")
	}
	if b.store == nil {
		return nil, errors.New("credential store required")
	}

	now := b.clock
	if now == nil {
		now = time.Now
	}
	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}
	navigator := b.navigator
	if navigator == nil {
		navigator = NavigatorFunc(func(context.Context, string) {})
	}
	confirm := b.confirm
	if confirm == nil {
		confirm = func(context.Context) bool { return true }
	}

	c := &Controller{
		cfg:       cfg,
		provider:  b.provider,
		store:     b.store,
		navigator: navigator,
		confirm:   confirm,
		logger:    logger,
		now:       now,
	}

	c.gate = gate.New(gate.Policy{
		MaxAttempts: cfg.Gate.MaxAttempts,
		Cooldown:    cfg.Gate.Cooldown,
	}, now)
	c.metrics = NewMetrics(cfg.Metrics)
	c.notifier = newNotifyDispatcher(cfg.Notifications, b.notifier)

	// Warm the remember-me read; a failing store is reported, not fatal.
	if _, err := b.store.Load(context.Background()); err != nil {
		logger.Warn("load saved credentials at build", "err", err)
	}

	b.built = true

	return c, nil
}
