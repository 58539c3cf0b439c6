package inbound

import (
	"context"

	"github.com/google/uuid"
)

// RecipeService defines the use cases for recipe storage and generation.
// Every stored-recipe operation is scoped to the owning user.
type RecipeService interface {
	// Commands - operations that modify state
	CreateRecipe(ctx context.Context, cmd CreateRecipeCommand) (*RecipeDTO, error)
	UpdateRecipe(ctx context.Context, cmd UpdateRecipeCommand) (*RecipeDTO, error)
	DeleteRecipe(ctx context.Context, userID, recipeID uuid.UUID) error

	// Queries - operations that read state
	GetRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*RecipeDTO, error)
	ListRecipes(ctx context.Context, userID uuid.UUID, params PaginationParams) (*RecipeList, error)

	// Generation - delegates to the external workflow gateway
	GenerateRecipe(ctx context.Context, query string) (string, error)
}

// Command objects for operations

// CreateRecipeCommand contains data for saving a new recipe
type CreateRecipeCommand struct {
	UserID        uuid.UUID
	Title         string
	Content       string
	OriginalQuery string
}

// UpdateRecipeCommand contains data for editing a recipe. Nil fields keep
// their stored value.
type UpdateRecipeCommand struct {
	RecipeID uuid.UUID
	UserID   uuid.UUID
	Title    *string
	Content  *string
}

// PaginationParams for list queries. A zero Limit returns the full set.
type PaginationParams struct {
	Limit  int
	Offset int
}

// Response DTOs

// RecipeDTO is the data transfer object for recipes
type RecipeDTO struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	OriginalQuery string    `json:"original_query"`
	CreatedAt     string    `json:"created_at"`
	UpdatedAt     string    `json:"updated_at"`
}

// RecipeList wraps a list of recipes, newest first
type RecipeList struct {
	Recipes []RecipeDTO `json:"recipes"`
}
