// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"

	"github.com/google/uuid"
	"github.com/questkitchen/backend/internal/domain/recipe"
	"github.com/questkitchen/backend/internal/domain/session"
	"github.com/questkitchen/backend/internal/domain/user"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create persists a new user. Returns user.ErrUsernameTaken when the
	// username is already registered, including when a concurrent insert
	// wins the race.
	Create(ctx context.Context, u *user.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	FindByUsername(ctx context.Context, username string) (*user.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// RecipeRepository defines the interface for recipe persistence.
// Every read and write is scoped by the owning user; lookups for recipes
// owned by someone else report recipe.ErrRecipeNotFound.
type RecipeRepository interface {
	Create(ctx context.Context, r *recipe.Recipe) error
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*recipe.Recipe, error)

	// FindByOwner returns the owner's recipes newest first.
	// A limit of 0 means no limit.
	FindByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]*recipe.Recipe, error)

	// Update writes the recipe with optimistic locking on its version,
	// returning recipe.ErrVersionConflict when a concurrent writer won.
	Update(ctx context.Context, r *recipe.Recipe) error

	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// SessionStore defines the interface for session persistence. Backends may
// be in-process (development, tests) or external (Redis) so the session
// survives restarts and is shared across instances.
type SessionStore interface {
	// Save stores the session until its expiry time.
	Save(ctx context.Context, s *session.Session) error

	// Find returns the session for the given identifier, or
	// session.ErrNotFound when it is absent or expired.
	Find(ctx context.Context, id string) (*session.Session, error)

	// Delete removes a session. Deleting an absent session is not an error.
	Delete(ctx context.Context, id string) error

	// DeleteExpired reaps expired sessions, returning how many were removed.
	// Backends with native expiry may report zero.
	DeleteExpired(ctx context.Context) (int, error)
}

// RecipeGenerator defines the interface for the external generation service:
// query text in, recipe text out. Implementations report upstream failures
// and timeouts as errors without retrying.
type RecipeGenerator interface {
	Generate(ctx context.Context, query string) (string, error)
}
