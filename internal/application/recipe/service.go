// Package recipe provides the application layer for recipe storage and
// generation use cases.
package recipe

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/questkitchen/backend/internal/domain/recipe"
	"github.com/questkitchen/backend/internal/ports/inbound"
	"github.com/questkitchen/backend/internal/ports/outbound"
	errs "github.com/questkitchen/backend/pkg/errors"
)

// maxQueryLength bounds generation queries before they reach the workflow
const maxQueryLength = 2000

// updateAttempts bounds the optimistic-locking retry loop. Each retry
// re-reads the record, so a conflict only persists under pathological
// contention.
const updateAttempts = 3

// RecipeService implements recipe storage and generation use cases
type RecipeService struct {
	recipes   outbound.RecipeRepository
	generator outbound.RecipeGenerator
	logger    *zap.Logger
}

// NewRecipeService creates a new recipe service
func NewRecipeService(
	recipes outbound.RecipeRepository,
	generator outbound.RecipeGenerator,
	logger *zap.Logger,
) inbound.RecipeService {
	return &RecipeService{
		recipes:   recipes,
		generator: generator,
		logger:    logger.Named("recipe-service"),
	}
}

// CreateRecipe saves a new recipe for the user
func (s *RecipeService) CreateRecipe(ctx context.Context, cmd inbound.CreateRecipeCommand) (*inbound.RecipeDTO, error) {
	rec, err := recipe.NewRecipe(cmd.UserID, cmd.Title, cmd.Content, cmd.OriginalQuery)
	if err != nil {
		return nil, errs.NewValidationError(err.Error())
	}

	if err := s.recipes.Create(ctx, rec); err != nil {
		return nil, errs.Wrap(err, "failed to save recipe")
	}

	s.logger.Info("Recipe created",
		zap.String("recipe_id", rec.ID().String()),
		zap.String("user_id", cmd.UserID.String()),
	)

	dto := toDTO(rec)
	return &dto, nil
}

// GetRecipe returns a single recipe owned by the user
func (s *RecipeService) GetRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*inbound.RecipeDTO, error) {
	rec, err := s.recipes.FindByID(ctx, userID, recipeID)
	if err != nil {
		if errors.Is(err, recipe.ErrRecipeNotFound) {
			return nil, errs.NewNotFoundError("Recipe")
		}
		return nil, errs.Wrap(err, "failed to load recipe")
	}

	dto := toDTO(rec)
	return &dto, nil
}

// ListRecipes returns the user's recipes, newest first
func (s *RecipeService) ListRecipes(ctx context.Context, userID uuid.UUID, params inbound.PaginationParams) (*inbound.RecipeList, error) {
	records, err := s.recipes.FindByOwner(ctx, userID, params.Offset, params.Limit)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list recipes")
	}

	dtos := make([]inbound.RecipeDTO, len(records))
	for i, rec := range records {
		dtos[i] = toDTO(rec)
	}

	return &inbound.RecipeList{Recipes: dtos}, nil
}

// UpdateRecipe applies a partial edit to a recipe owned by the user. Writes
// use optimistic locking; on a version conflict the edit is retried against
// the fresh record so concurrent updates never silently overwrite each other.
func (s *RecipeService) UpdateRecipe(ctx context.Context, cmd inbound.UpdateRecipeCommand) (*inbound.RecipeDTO, error) {
	for attempt := 0; attempt < updateAttempts; attempt++ {
		rec, err := s.recipes.FindByID(ctx, cmd.UserID, cmd.RecipeID)
		if err != nil {
			if errors.Is(err, recipe.ErrRecipeNotFound) {
				return nil, errs.NewNotFoundError("Recipe")
			}
			return nil, errs.Wrap(err, "failed to load recipe")
		}

		// An edit with no fields set still succeeds and returns the record
		if cmd.Title == nil && cmd.Content == nil {
			dto := toDTO(rec)
			return &dto, nil
		}

		if cmd.Title != nil {
			if err := rec.UpdateTitle(*cmd.Title); err != nil {
				return nil, errs.NewValidationError(err.Error())
			}
		}
		if cmd.Content != nil {
			if err := rec.UpdateContent(*cmd.Content); err != nil {
				return nil, errs.NewValidationError(err.Error())
			}
		}

		err = s.recipes.Update(ctx, rec)
		if err == nil {
			rec.BumpVersion()

			s.logger.Info("Recipe updated",
				zap.String("recipe_id", rec.ID().String()),
				zap.String("user_id", cmd.UserID.String()),
			)

			dto := toDTO(rec)
			return &dto, nil
		}

		if errors.Is(err, recipe.ErrVersionConflict) {
			s.logger.Debug("Recipe update conflicted, retrying",
				zap.String("recipe_id", cmd.RecipeID.String()),
				zap.Int("attempt", attempt+1),
			)
			continue
		}

		if errors.Is(err, recipe.ErrRecipeNotFound) {
			return nil, errs.NewNotFoundError("Recipe")
		}

		return nil, errs.Wrap(err, "failed to update recipe")
	}

	return nil, errs.NewConflictError("Recipe is being modified concurrently, please retry")
}

// DeleteRecipe removes a recipe owned by the user
func (s *RecipeService) DeleteRecipe(ctx context.Context, userID, recipeID uuid.UUID) error {
	if err := s.recipes.Delete(ctx, userID, recipeID); err != nil {
		if errors.Is(err, recipe.ErrRecipeNotFound) {
			return errs.NewNotFoundError("Recipe")
		}
		return errs.Wrap(err, "failed to delete recipe")
	}

	s.logger.Info("Recipe deleted",
		zap.String("recipe_id", recipeID.String()),
		zap.String("user_id", userID.String()),
	)

	return nil
}

// GenerateRecipe forwards the query to the generation gateway and returns
// the recipe text. Any gateway failure surfaces as upstream-unavailable;
// the request is never retried.
func (s *RecipeService) GenerateRecipe(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", errs.NewValidationError("query must not be empty")
	}
	if len(query) > maxQueryLength {
		return "", errs.NewValidationError("query is too long")
	}

	text, err := s.generator.Generate(ctx, query)
	if err != nil {
		s.logger.Warn("Recipe generation failed", zap.Error(err))
		return "", errs.NewUpstreamUnavailableError("recipe generator", err)
	}

	return text, nil
}

// toDTO converts a recipe entity to its transfer object
func toDTO(rec *recipe.Recipe) inbound.RecipeDTO {
	return inbound.RecipeDTO{
		ID:            rec.ID(),
		Title:         rec.Title(),
		Content:       rec.Content(),
		OriginalQuery: rec.OriginalQuery(),
		CreatedAt:     rec.CreatedAt().UTC().Format(time.RFC3339),
		UpdatedAt:     rec.UpdatedAt().UTC().Format(time.RFC3339),
	}
}
