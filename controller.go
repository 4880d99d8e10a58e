package authflow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goodwiins/authflow/internal/gate"
)

// Controller orchestrates the login/logout sequence against a
// SessionProvider: step state machine, attempt gate, error
// classification, remember-me persistence, notifications, and the
// navigation signal. Methods are safe for concurrent use; at most one
// flow runs at a time and overlapping calls fail with [ErrFlowBusy].
type Controller struct {
	cfg       Config
	provider  SessionProvider
	store     CredentialStore
	navigator Navigator
	confirm   ConfirmFunc
	logger    *slog.Logger
	now       func() time.Time

	gate     *gate.Gate
	metrics  *Metrics
	notifier *notifyDispatcher

	mu    sync.Mutex
	state FlowState
	busy  bool
}

// State returns a snapshot of the flow state. IsLoading is merged with
// the provider's own loading flag.
func (c *Controller) State() FlowState {
	c.mu.Lock()
	s := c.state
	c.mu.Unlock()

	if c.provider.Loading() {
		s.IsLoading = true
	}
	return s
}

// CanAttemptAuth reports whether the attempt gate admits another login.
// Read-only; the counter is advanced by Login itself.
func (c *Controller) CanAttemptAuth() bool {
	return c.gate.Allow()
}

// LoadingMessage returns the status line for the current step.
func (c *Controller) LoadingMessage() string {
	return c.step().LoadingMessage()
}

// Progress returns the completion percentage for the current step.
func (c *Controller) Progress() int {
	return c.step().Progress()
}

// ClearError clears the controller error and the provider-owned one.
func (c *Controller) ClearError() {
	c.mu.Lock()
	c.state.Err = ""
	c.mu.Unlock()

	c.provider.ClearError()
}

// SavedCredentials reads the persisted remember-me preference. A store
// failure is logged and reported as the zero value.
func (c *Controller) SavedCredentials(ctx context.Context) SavedCredentials {
	saved, err := c.store.Load(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "load saved credentials", "err", err)
		return SavedCredentials{}
	}
	return saved
}

// MetricsSnapshot returns a copy of the in-process metrics.
func (c *Controller) MetricsSnapshot() MetricsSnapshot {
	if c == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return c.metrics.Snapshot()
}

// NotificationsDropped returns how many notifications were discarded
// under dispatcher backpressure.
func (c *Controller) NotificationsDropped() uint64 {
	if c == nil {
		return 0
	}
	return c.notifier.Dropped()
}

// Close drains and stops the notification dispatcher. The controller
// must not be used after Close.
func (c *Controller) Close() {
	if c == nil {
		return
	}
	c.notifier.Close()
}

func (c *Controller) step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Step
}

// acquire marks the flow busy and raises IsLoading. Exactly one flow
// holds the guard at a time.
func (c *Controller) acquire() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return ErrFlowBusy
	}
	c.busy = true
	c.state.IsLoading = true
	return nil
}

// release ends the flow. Clearing IsLoading here keeps it the last
// mutation of every invocation, whatever the exit path was.
func (c *Controller) release() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.busy = false
	c.state.IsLoading = false
}

func (c *Controller) setStep(step Step) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Step = step
}

func (c *Controller) setError(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Err = msg
}

// syncGate copies the gate counters into the snapshot fields.
func (c *Controller) syncGate() {
	attempts, last := c.gate.Snapshot()

	c.mu.Lock()
	c.state.Attempts = attempts
	c.state.LastAttempt = last
	c.mu.Unlock()
}

// emit queues a notification for async delivery.
func (c *Controller) emit(ctx context.Context, event string, level NotificationLevel, message string) {
	c.notifier.Emit(ctx, Notification{
		ID:        uuid.NewString(),
		Timestamp: c.now(),
		Event:     event,
		Level:     level,
		Message:   message,
	})
}

// pause waits for the configured pacing delay. A done ctx cuts the wait
// short; the flow itself still runs to completion.
func (c *Controller) pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
