// Package gorm provides GORM-based repository implementations
package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/questkitchen/backend/internal/domain/recipe"
	"github.com/questkitchen/backend/internal/ports/outbound"
)

// RecipeRepository implements the recipe repository interface using GORM
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) outbound.RecipeRepository {
	return &RecipeRepository{db: db}
}

// Create creates a new recipe
func (r *RecipeRepository) Create(ctx context.Context, rec *recipe.Recipe) error {
	model := RecipeToModel(rec)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return result.Error
	}

	return nil
}

// FindByID finds a recipe owned by the given user. Recipes belonging to
// other users report recipe.ErrRecipeNotFound, same as missing records.
func (r *RecipeRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*recipe.Recipe, error) {
	var model RecipeModel

	result := r.db.WithContext(ctx).
		First(&model, "id = ? AND user_id = ?", id, ownerID)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, recipe.ErrRecipeNotFound
		}
		return nil, result.Error
	}

	return ModelToRecipe(&model), nil
}

// FindByOwner finds recipes owned by a user, newest first.
// A limit of zero or less returns the full set.
func (r *RecipeRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]*recipe.Recipe, error) {
	var models []RecipeModel

	query := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC")

	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	result := query.Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	recipes := make([]*recipe.Recipe, len(models))
	for i := range models {
		recipes[i] = ModelToRecipe(&models[i])
	}

	return recipes, nil
}

// Update persists recipe changes with optimistic locking. The update only
// applies when the stored version still matches the entity's version, and
// bumps the version in the same statement. A concurrent writer therefore
// surfaces as recipe.ErrVersionConflict instead of a silent lost update.
func (r *RecipeRepository) Update(ctx context.Context, rec *recipe.Recipe) error {
	model := RecipeToModel(rec)

	result := r.db.WithContext(ctx).
		Model(&RecipeModel{}).
		Where("id = ? AND user_id = ? AND version = ?", model.ID, model.UserID, model.Version).
		Updates(map[string]interface{}{
			"title":      model.Title,
			"content":    model.Content,
			"updated_at": model.UpdatedAt,
			"version":    model.Version + 1,
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		exists, err := r.exists(ctx, model.UserID, model.ID)
		if err != nil {
			return err
		}
		if !exists {
			return recipe.ErrRecipeNotFound
		}
		return recipe.ErrVersionConflict
	}

	return nil
}

// Delete deletes a recipe owned by the given user
func (r *RecipeRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&RecipeModel{}, "id = ? AND user_id = ?", id, ownerID)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return recipe.ErrRecipeNotFound
	}

	return nil
}

func (r *RecipeRepository) exists(ctx context.Context, ownerID, id uuid.UUID) (bool, error) {
	var count int64

	result := r.db.WithContext(ctx).Model(&RecipeModel{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}
