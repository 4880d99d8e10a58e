package authflow

import (
	"context"
	"log/slog"
	"time"
)

// Stable event names carried on notifications.
const (
	EventLoginSuccess      = "login_success"
	EventLoginFailure      = "login_failure"
	EventLoginBlocked      = "login_blocked"
	EventProfileIncomplete = "profile_incomplete"
	EventLogoutSuccess     = "logout_success"
	EventLogoutFailure     = "logout_failure"
)

// NotificationLevel is the display flavor of a notification.
type NotificationLevel string

const (
	LevelInfo    NotificationLevel = "info"
	LevelSuccess NotificationLevel = "success"
	LevelError   NotificationLevel = "error"
)

// Notification is a transient user-facing message emitted by the
// controller. Sinks display it (toast, status line, log); they never
// influence the flow.
type Notification struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Event     string            `json:"event"`
	Level     NotificationLevel `json:"level"`
	Message   string            `json:"message"`
}

// Notifier consumes notifications. Delivery happens on the dispatcher
// goroutine, so implementations must be safe for use from a goroutine
// other than the caller's.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NoOpNotifier discards every notification.
type NoOpNotifier struct{}

// Notify does nothing.
func (NoOpNotifier) Notify(context.Context, Notification) {}

// ChannelNotifier forwards notifications to a channel, typically drained
// by a UI event loop or a test.
type ChannelNotifier struct {
	events chan Notification
}

// NewChannelNotifier creates a ChannelNotifier with the given buffer.
func NewChannelNotifier(buffer int) *ChannelNotifier {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelNotifier{
		events: make(chan Notification, buffer),
	}
}

// Notify sends the notification, giving up when ctx is done.
func (n *ChannelNotifier) Notify(ctx context.Context, event Notification) {
	select {
	case n.events <- event:
	case <-ctx.Done():
	}
}

// Events returns the receive side of the channel.
func (n *ChannelNotifier) Events() <-chan Notification {
	return n.events
}

// SlogNotifier writes notifications to a structured logger. LevelError
// maps to slog warnings, everything else to info.
type SlogNotifier struct {
	logger *slog.Logger
}

// NewSlogNotifier creates a SlogNotifier. A nil logger defaults to
// slog.Default.
func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogNotifier{logger: logger}
}

// Notify logs the notification.
func (n *SlogNotifier) Notify(ctx context.Context, event Notification) {
	if n == nil || n.logger == nil {
		return
	}

	level := slog.LevelInfo
	if event.Level == LevelError {
		level = slog.LevelWarn
	}

	n.logger.LogAttrs(ctx, level, event.Message,
		slog.String("event", event.Event),
		slog.String("level", string(event.Level)),
		slog.String("notification_id", event.ID),
	)
}
