package recipe

import "errors"

// Domain errors for recipe operations

var (
	// Entity validation errors
	ErrTitleRequired   = errors.New("recipe title must not be empty")
	ErrTitleTooLong    = errors.New("recipe title must not exceed 200 characters")
	ErrContentRequired = errors.New("recipe content must not be empty")

	// Persistence errors. ErrRecipeNotFound covers both a missing record and
	// a record owned by another user, so existence never leaks across owners.
	ErrRecipeNotFound  = errors.New("recipe not found")
	ErrVersionConflict = errors.New("recipe was modified concurrently")
)
