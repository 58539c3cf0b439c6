// Package testutils provides mock implementations and test data factories
package testutils

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/questkitchen/backend/internal/domain/recipe"
	"github.com/questkitchen/backend/internal/domain/session"
	"github.com/questkitchen/backend/internal/domain/user"
)

// MockUserRepository provides a mock implementation of outbound.UserRepository
type MockUserRepository struct {
	mock.Mock
}

// Create persists a new user
func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

// FindByID finds a user by ID
func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

// FindByUsername finds a user by username
func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

// ExistsByUsername checks if a username is registered
func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

// MockRecipeRepository provides a mock implementation of outbound.RecipeRepository
type MockRecipeRepository struct {
	mock.Mock
}

// Create persists a new recipe
func (m *MockRecipeRepository) Create(ctx context.Context, r *recipe.Recipe) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

// FindByID finds a recipe owned by the given user
func (m *MockRecipeRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*recipe.Recipe, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recipe.Recipe), args.Error(1)
}

// FindByOwner finds recipes owned by a user, newest first
func (m *MockRecipeRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]*recipe.Recipe, error) {
	args := m.Called(ctx, ownerID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*recipe.Recipe), args.Error(1)
}

// Update persists recipe changes with optimistic locking
func (m *MockRecipeRepository) Update(ctx context.Context, r *recipe.Recipe) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

// Delete removes a recipe owned by the given user
func (m *MockRecipeRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

// MockSessionStore provides a mock implementation of outbound.SessionStore
type MockSessionStore struct {
	mock.Mock
}

// Save stores a session
func (m *MockSessionStore) Save(ctx context.Context, s *session.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

// Find retrieves a session by ID
func (m *MockSessionStore) Find(ctx context.Context, id string) (*session.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

// Delete removes a session
func (m *MockSessionStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// DeleteExpired reaps expired sessions
func (m *MockSessionStore) DeleteExpired(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockRecipeGenerator provides a mock implementation of outbound.RecipeGenerator
type MockRecipeGenerator struct {
	mock.Mock
}

// Generate produces recipe text for a query
func (m *MockRecipeGenerator) Generate(ctx context.Context, query string) (string, error) {
	args := m.Called(ctx, query)
	return args.String(0), args.Error(1)
}
