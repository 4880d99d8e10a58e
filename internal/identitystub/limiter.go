package identitystub

import (
	"sync"
	"time"
)

// emailLimiter is a fixed-window attempt counter per email: the first
// hit opens the window, later hits count against it until it expires.
type emailLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	hits   map[string]*windowCount
}

type windowCount struct {
	start time.Time
	count int
}

func newEmailLimiter(limit int, window time.Duration) *emailLimiter {
	return &emailLimiter{
		limit:  limit,
		window: window,
		hits:   make(map[string]*windowCount),
	}
}

func (l *emailLimiter) allow(email string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	wc, ok := l.hits[email]
	if !ok || now.Sub(wc.start) >= l.window {
		l.hits[email] = &windowCount{start: now, count: 1}
		return true
	}
	if wc.count >= l.limit {
		return false
	}
	wc.count++
	return true
}
