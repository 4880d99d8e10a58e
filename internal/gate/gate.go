package gate

import (
	"sync"
	"time"
)

// Policy holds the attempt gate tuning parameters.
type Policy struct {
	MaxAttempts int
	Cooldown    time.Duration
}

// Gate is a local guard against rapid repeated login attempts. The
// counter never decays: once MaxAttempts is reached the gate closes and
// re-opens only after Cooldown has passed since the most recent attempt,
// and the next recorded attempt re-arms the full cooldown at the same or
// higher count. Only Reset (successful login) clears the counter.
type Gate struct {
	policy Policy
	now    func() time.Time

	mu          sync.Mutex
	attempts    int
	lastAttempt time.Time
}

// New creates a Gate with the given policy. A nil clock defaults to
// time.Now.
func New(policy Policy, now func() time.Time) *Gate {
	if now == nil {
		now = time.Now
	}
	return &Gate{
		policy: policy,
		now:    now,
	}
}

// Allow reports whether another attempt may proceed. Read-only: the
// counter is advanced by Record, never here.
func (g *Gate) Allow() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.attempts < g.policy.MaxAttempts {
		return true
	}
	return g.now().Sub(g.lastAttempt) > g.policy.Cooldown
}

// Record counts an admitted attempt and stamps its time. Callers invoke
// it before the remote call so fast failures still land inside the
// cooldown window.
func (g *Gate) Record() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.attempts++
	g.lastAttempt = g.now()
}

// Reset zeroes the attempt counter. The last attempt timestamp is kept.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.attempts = 0
}

// Snapshot returns the current counter and the time of the most recent
// attempt (zero before the first Record).
func (g *Gate) Snapshot() (attempts int, lastAttempt time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.attempts, g.lastAttempt
}
