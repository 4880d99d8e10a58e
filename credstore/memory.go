package credstore

import (
	"context"
	"sync"

	"github.com/goodwiins/authflow"
)

// Memory is an in-process store. State is lost when the process exits,
// which suits tests and embedders without durable local storage.
type Memory struct {
	mu    sync.RWMutex
	saved authflow.SavedCredentials
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Load returns the saved preference.
func (m *Memory) Load(context.Context) (authflow.SavedCredentials, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saved, nil
}

// Save remembers the email and sets the remember-me flag.
func (m *Memory) Save(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = authflow.SavedCredentials{Email: email, RememberMe: true}
	return nil
}

// Clear forgets the saved preference.
func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = authflow.SavedCredentials{}
	return nil
}
