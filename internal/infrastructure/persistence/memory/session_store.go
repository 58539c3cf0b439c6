// Package memory provides an in-memory session store implementation
package memory

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/questkitchen/backend/internal/domain/session"
)

// SessionStore keeps sessions in process memory. Suitable for a single
// instance deployment; Redis backs multi-instance setups.
type SessionStore struct {
	sessions map[string]session.Session
	mu       sync.RWMutex
	logger   *zap.Logger
}

// NewSessionStore creates a new in-memory session store
func NewSessionStore(logger *zap.Logger) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]session.Session),
		logger:   logger,
	}
}

// Save stores a session, replacing any existing record with the same ID
func (s *SessionStore) Save(ctx context.Context, sess *session.Session) error {
	s.mu.Lock()
	s.sessions[sess.ID] = *sess
	s.mu.Unlock()

	return nil
}

// Find retrieves a session by ID. Expired sessions are removed on access
// and report session.ErrNotFound, same as unknown IDs.
func (s *SessionStore) Find(ctx context.Context, id string) (*session.Session, error) {
	s.mu.RLock()
	sess, exists := s.sessions[id]
	s.mu.RUnlock()

	if !exists {
		return nil, session.ErrNotFound
	}

	if sess.IsExpired() {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return nil, session.ErrNotFound
	}

	found := sess
	return &found, nil
}

// Delete removes a session. Deleting an unknown ID is a no-op.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	return nil
}

// DeleteExpired removes all expired sessions and returns the count removed
func (s *SessionStore) DeleteExpired(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	removed := 0
	for id, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}

	return removed, nil
}

// StartCleanup launches a goroutine that periodically removes expired
// sessions. The returned stop function terminates the goroutine and is
// safe to call more than once.
func (s *SessionStore) StartCleanup(interval time.Duration) (stop func()) {
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				removed, _ := s.DeleteExpired(context.Background())
				if removed > 0 {
					s.logger.Debug("Cleaned up expired sessions", zap.Int("removed", removed))
				}
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}

// Len reports the number of stored sessions, expired ones included
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
