// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"

	"github.com/google/uuid"
	"github.com/questkitchen/backend/internal/domain/session"
)

// AuthService defines the use cases for registration, login and session
// bookkeeping. HTTP handlers and middleware are its driving adapters.
type AuthService interface {
	// Commands - operations that modify state
	Register(ctx context.Context, cmd RegisterCommand) (*AuthResult, error)
	Login(ctx context.Context, cmd LoginCommand) (*AuthResult, error)
	Logout(ctx context.Context, sessionID string) error

	// Queries - operations that read state
	ResolveSession(ctx context.Context, sessionID string) (*session.Session, error)
	CSRFToken(ctx context.Context, sessionID string) (string, error)
}

// Command objects for operations

// RegisterCommand contains data for creating a new account
type RegisterCommand struct {
	Username string
	Password string
}

// LoginCommand contains credentials for an existing account
type LoginCommand struct {
	Username string
	Password string
}

// Response DTOs

// UserDTO is the data transfer object for users
type UserDTO struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// AuthResult carries the authenticated user together with the freshly
// created session (whose CSRF token travels to the client as a cookie).
type AuthResult struct {
	User    UserDTO
	Session *session.Session
}
