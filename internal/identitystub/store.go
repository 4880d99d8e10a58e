package identitystub

import (
	"errors"
	"sync"
	"time"
)

var errSessionConflict = errors.New("active session exists")

type session struct {
	id        string
	token     string
	userEmail string
	expiresAt time.Time
}

// sessionStore holds live sessions keyed by bearer token, with a
// per-account index enforcing one active session per email. Expired
// entries are reaped inline during create and lookup.
type sessionStore struct {
	mu      sync.Mutex
	byToken map[string]*session
	byEmail map[string]string
}

func newSessionStore() *sessionStore {
	return &sessionStore{
		byToken: make(map[string]*session),
		byEmail: make(map[string]string),
	}
}

func (s *sessionStore) create(sess *session, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token, ok := s.byEmail[sess.userEmail]; ok {
		existing := s.byToken[token]
		if existing != nil && now.Before(existing.expiresAt) {
			return errSessionConflict
		}
		delete(s.byToken, token)
		delete(s.byEmail, sess.userEmail)
	}

	s.byToken[sess.token] = sess
	s.byEmail[sess.userEmail] = sess.token
	return nil
}

func (s *sessionStore) lookup(token string, now time.Time) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byToken[token]
	if !ok {
		return nil, false
	}
	if !now.Before(sess.expiresAt) {
		delete(s.byToken, token)
		delete(s.byEmail, sess.userEmail)
		return nil, false
	}
	return sess, true
}

func (s *sessionStore) remove(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byToken[token]
	if !ok {
		return false
	}
	delete(s.byToken, token)
	if s.byEmail[sess.userEmail] == token {
		delete(s.byEmail, sess.userEmail)
	}
	return true
}

func (s *sessionStore) active(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, sess := range s.byToken {
		if now.Before(sess.expiresAt) {
			n++
		}
	}
	return n
}
