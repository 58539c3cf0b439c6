// Package recipe contains the core domain logic for saved recipes.
// A recipe is a generated (or user-edited) text artifact owned by exactly
// one user; ownership is enforced at every operation.
package recipe

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Recipe represents a saved recipe entity
type Recipe struct {
	// Aggregate root identifier
	id      uuid.UUID
	version int64 // Optimistic locking

	// Ownership
	userID uuid.UUID

	// Content
	title         string
	content       string
	originalQuery string

	// Metadata
	createdAt time.Time
	updatedAt time.Time
}

// NewRecipe creates a new Recipe with validation. IDs are freshly generated
// UUIDs, so an id is never reused after deletion.
func NewRecipe(userID uuid.UUID, title, content, originalQuery string) (*Recipe, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	if err := validateContent(content); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Recipe{
		id:            uuid.New(),
		version:       1,
		userID:        userID,
		title:         strings.TrimSpace(title),
		content:       content,
		originalQuery: originalQuery,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// Reconstitute rebuilds a recipe from persisted state without validation
func Reconstitute(id, userID uuid.UUID, title, content, originalQuery string, version int64, createdAt, updatedAt time.Time) *Recipe {
	return &Recipe{
		id:            id,
		version:       version,
		userID:        userID,
		title:         title,
		content:       content,
		originalQuery: originalQuery,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// ID returns the recipe's unique identifier
func (r *Recipe) ID() uuid.UUID {
	return r.id
}

// Version returns the recipe's optimistic-locking version
func (r *Recipe) Version() int64 {
	return r.version
}

// UserID returns the owning user's ID
func (r *Recipe) UserID() uuid.UUID {
	return r.userID
}

// Title returns the recipe's title
func (r *Recipe) Title() string {
	return r.title
}

// Content returns the recipe's text content
func (r *Recipe) Content() string {
	return r.content
}

// OriginalQuery returns the query text that produced the recipe
func (r *Recipe) OriginalQuery() string {
	return r.originalQuery
}

// CreatedAt returns when the recipe was created
func (r *Recipe) CreatedAt() time.Time {
	return r.createdAt
}

// UpdatedAt returns when the recipe was last updated
func (r *Recipe) UpdatedAt() time.Time {
	return r.updatedAt
}

// IsOwnedBy reports whether the recipe belongs to the given user
func (r *Recipe) IsOwnedBy(userID uuid.UUID) bool {
	return r.userID == userID
}

// UpdateTitle updates the recipe title with validation
func (r *Recipe) UpdateTitle(title string) error {
	if err := validateTitle(title); err != nil {
		return err
	}

	r.title = strings.TrimSpace(title)
	r.updatedAt = time.Now()
	return nil
}

// UpdateContent updates the recipe text with validation
func (r *Recipe) UpdateContent(content string) error {
	if err := validateContent(content); err != nil {
		return err
	}

	r.content = content
	r.updatedAt = time.Now()
	return nil
}

// BumpVersion records a successful persisted write. Called after a
// compare-and-set update so in-memory state matches the store.
func (r *Recipe) BumpVersion() {
	r.version++
}

// validateTitle validates recipe title
func validateTitle(title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return ErrTitleRequired
	}
	if len(trimmed) > 200 {
		return ErrTitleTooLong
	}
	return nil
}

// validateContent validates recipe content.
// Content may contain literal line breaks; only emptiness is rejected.
func validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrContentRequired
	}
	return nil
}
