// Package gorm provides mapping between domain entities and GORM models
package gorm

import (
	"github.com/questkitchen/backend/internal/domain/recipe"
	"github.com/questkitchen/backend/internal/domain/user"
)

// UserToModel converts a domain user to a GORM model
func UserToModel(u *user.User) *UserModel {
	return &UserModel{
		ID:           u.ID(),
		Username:     u.Username(),
		PasswordHash: u.PasswordHash(),
		CreatedAt:    u.CreatedAt(),
	}
}

// ModelToUser converts a GORM model to a domain user
func ModelToUser(model *UserModel) *user.User {
	return user.Reconstitute(model.ID, model.Username, model.PasswordHash, model.CreatedAt)
}

// RecipeToModel converts a domain recipe to a GORM model
func RecipeToModel(r *recipe.Recipe) *RecipeModel {
	return &RecipeModel{
		ID:            r.ID(),
		Version:       r.Version(),
		UserID:        r.UserID(),
		Title:         r.Title(),
		Content:       r.Content(),
		OriginalQuery: r.OriginalQuery(),
		CreatedAt:     r.CreatedAt(),
		UpdatedAt:     r.UpdatedAt(),
	}
}

// ModelToRecipe converts a GORM model to a domain recipe
func ModelToRecipe(model *RecipeModel) *recipe.Recipe {
	return recipe.Reconstitute(
		model.ID,
		model.UserID,
		model.Title,
		model.Content,
		model.OriginalQuery,
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
