package authflow

import (
	"errors"
	"strings"
	"time"
)

// Config controls controller behavior. Start from [DefaultConfig] and
// override; a zero Config fails validation.
type Config struct {
	Gate          GateConfig
	Pacing        PacingConfig
	Routes        RouteConfig
	Notifications NotificationConfig
	Metrics       MetricsConfig
}

/*
====================================
GATE
====================================
*/

// GateConfig tunes the local attempt gate.
type GateConfig struct {
	// MaxAttempts is the attempt count at which the gate closes.
	MaxAttempts int
	// Cooldown is how long the gate stays closed after the most recent
	// attempt. The counter itself does not reset when it elapses.
	Cooldown time.Duration
}

/*
====================================
PACING
====================================
*/

// PacingConfig holds the fixed delays inserted into the login flow. Both
// are UI pacing, not network waits; zero disables a pause.
type PacingConfig struct {
	// Validating is the pause after entering the validating step so the
	// UI can render it before the flow moves on.
	Validating time.Duration
	// Redirect is the pause between the success notification and the
	// navigation signal.
	Redirect time.Duration
}

/*
====================================
ROUTES
====================================
*/

// RouteConfig names the destinations the controller signals to the
// Navigator.
type RouteConfig struct {
	Landing         string
	CompleteProfile string
}

/*
====================================
NOTIFICATIONS
====================================
*/

// NotificationConfig tunes the async notification dispatcher.
type NotificationConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull drops notifications instead of blocking the flow when
	// the buffer is full. Drops are counted and exposed via
	// [Controller.NotificationsDropped].
	DropIfFull bool
}

/*
====================================
METRICS
====================================
*/

// MetricsConfig tunes the in-process metrics collector.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULTS
====================================
*/

// DefaultConfig returns the configuration the controller ships with:
// five attempts per five-minute cooldown, short pacing pauses, and
// notifications plus metrics enabled.
func DefaultConfig() Config {
	return Config{
		Gate: GateConfig{
			MaxAttempts: 5,
			Cooldown:    5 * time.Minute,
		},
		Pacing: PacingConfig{
			Validating: 250 * time.Millisecond,
			Redirect:   750 * time.Millisecond,
		},
		Routes: RouteConfig{
			Landing:         "/",
			CompleteProfile: "/complete-profile",
		},
		Notifications: NotificationConfig{
			Enabled:    true,
			BufferSize: 64,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: true,
		},
	}
}

// StrictGateConfig returns a preset for surfaces that should tolerate
// very few bad attempts: three attempts per fifteen-minute cooldown and
// a longer pre-navigation pause so the success state is visible.
func StrictGateConfig() Config {
	cfg := DefaultConfig()
	cfg.Gate.MaxAttempts = 3
	cfg.Gate.Cooldown = 15 * time.Minute
	cfg.Pacing.Redirect = time.Second
	return cfg
}

// QuietConfig returns a preset for non-interactive embeddings: no
// pacing pauses, no notifications, no metrics.
func QuietConfig() Config {
	cfg := DefaultConfig()
	cfg.Pacing = PacingConfig{}
	cfg.Notifications = NotificationConfig{}
	cfg.Metrics = MetricsConfig{}
	return cfg
}

/*
====================================
VALIDATION
====================================
*/

// Validate rejects configurations the controller cannot run with.
func (c *Config) Validate() error {
	if c.Gate.MaxAttempts < 1 {
		return errors.New("Gate MaxAttempts must be >= 1")
	}
	if c.Gate.Cooldown <= 0 {
		return errors.New("Gate Cooldown must be > 0")
	}
	if c.Pacing.Validating < 0 {
		return errors.New("Pacing Validating must not be negative")
	}
	if c.Pacing.Redirect < 0 {
		return errors.New("Pacing Redirect must not be negative")
	}
	if !strings.HasPrefix(c.Routes.Landing, "/") {
		return errors.New("Routes Landing must be an absolute path")
	}
	if !strings.HasPrefix(c.Routes.CompleteProfile, "/") {
		return errors.New("Routes CompleteProfile must be an absolute path")
	}
	if c.Notifications.Enabled && c.Notifications.BufferSize < 0 {
		return errors.New("Notifications BufferSize must not be negative")
	}
	return nil
}
