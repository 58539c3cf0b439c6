// Package session defines the server-side session record binding an opaque
// token to an authenticated user, together with the CSRF token issued for it.
package session

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrTokenGeneration is returned when the system's entropy source fails.
	ErrTokenGeneration = errors.New("failed to generate random token")

	// ErrNotFound is returned by stores when a session is absent or expired.
	ErrNotFound = errors.New("session not found")
)

// Session represents a user session. Fields are exported because session
// records are serialized as JSON by external store backends.
type Session struct {
	ID        string    `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	CSRFToken string    `json:"csrf_token"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// New creates a session for the given user with a fresh session identifier
// and CSRF token, expiring after ttl.
func New(userID uuid.UUID, username string, ttl time.Duration) (*Session, error) {
	id, err := NewToken()
	if err != nil {
		return nil, err
	}

	csrfToken, err := NewToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Session{
		ID:        id,
		UserID:    userID,
		Username:  username,
		CSRFToken: csrfToken,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// IsExpired reports whether the session has passed its expiry time
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// TTL returns the remaining lifetime of the session
func (s *Session) TTL() time.Duration {
	return time.Until(s.ExpiresAt)
}

// ValidateCSRF compares a supplied token against the session's CSRF token.
// The comparison is constant-time so timing cannot narrow down the value.
func (s *Session) ValidateCSRF(supplied string) bool {
	if supplied == "" || s.CSRFToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.CSRFToken), []byte(supplied)) == 1
}

// NewToken generates an unpredictable opaque token: 32 bytes from the
// system CSPRNG, base64 URL encoded.
func NewToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", ErrTokenGeneration
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
