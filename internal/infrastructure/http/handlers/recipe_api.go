package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/questkitchen/backend/internal/infrastructure/http/middleware"
	"github.com/questkitchen/backend/internal/ports/inbound"
	errs "github.com/questkitchen/backend/pkg/errors"
)

// RecipeAPIHandlers handles recipe collection API requests
type RecipeAPIHandlers struct {
	recipeService inbound.RecipeService
	logger        *zap.Logger
}

// NewRecipeAPIHandlers creates a new recipe API handlers instance
func NewRecipeAPIHandlers(
	recipeService inbound.RecipeService,
	logger *zap.Logger,
) *RecipeAPIHandlers {
	return &RecipeAPIHandlers{
		recipeService: recipeService,
		logger:        logger,
	}
}

// CreateRecipeRequest represents a recipe creation request
type CreateRecipeRequest struct {
	Title         string `json:"title" validate:"required,max=200"`
	Content       string `json:"content" validate:"required"`
	OriginalQuery string `json:"original_query"`
}

// UpdateRecipeRequest represents a partial recipe update. Absent fields
// keep their stored values.
type UpdateRecipeRequest struct {
	Title   *string `json:"title" validate:"omitempty,max=200"`
	Content *string `json:"content"`
}

// ListRecipes handles GET /api/recipes
func (h *RecipeAPIHandlers) ListRecipes(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, errs.NewUnauthorizedError(""))
		return
	}

	params, err := paginationFromQuery(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	list, err := h.recipeService.ListRecipes(r.Context(), userID, params)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, list)
}

// CreateRecipe handles POST /api/recipes
func (h *RecipeAPIHandlers) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, errs.NewUnauthorizedError(""))
		return
	}

	var req CreateRecipeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	dto, err := h.recipeService.CreateRecipe(r.Context(), inbound.CreateRecipeCommand{
		UserID:        userID,
		Title:         req.Title,
		Content:       req.Content,
		OriginalQuery: req.OriginalQuery,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, dto)
}

// GetRecipe handles GET /api/recipes/{id}
func (h *RecipeAPIHandlers) GetRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, errs.NewUnauthorizedError(""))
		return
	}

	recipeID, err := recipeIDFromURL(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	dto, err := h.recipeService.GetRecipe(r.Context(), userID, recipeID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, dto)
}

// UpdateRecipe handles PUT /api/recipes/{id}
func (h *RecipeAPIHandlers) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, errs.NewUnauthorizedError(""))
		return
	}

	recipeID, err := recipeIDFromURL(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req UpdateRecipeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	dto, err := h.recipeService.UpdateRecipe(r.Context(), inbound.UpdateRecipeCommand{
		RecipeID: recipeID,
		UserID:   userID,
		Title:    req.Title,
		Content:  req.Content,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, dto)
}

// DeleteRecipe handles DELETE /api/recipes/{id}
func (h *RecipeAPIHandlers) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, errs.NewUnauthorizedError(""))
		return
	}

	recipeID, err := recipeIDFromURL(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.recipeService.DeleteRecipe(r.Context(), userID, recipeID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, MessageResponse{Message: "Recipe deleted"})
}

// recipeIDFromURL parses the {id} URL parameter. Malformed ids read as
// not-found rather than leaking the expected id format.
func recipeIDFromURL(r *http.Request) (uuid.UUID, error) {
	recipeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, errs.NewNotFoundError("Recipe")
	}

	return recipeID, nil
}

// paginationFromQuery reads the optional limit and offset query parameters
func paginationFromQuery(r *http.Request) (inbound.PaginationParams, error) {
	var params inbound.PaginationParams

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return params, errs.NewValidationError("limit must be a non-negative integer")
		}
		params.Limit = limit
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return params, errs.NewValidationError("offset must be a non-negative integer")
		}
		params.Offset = offset
	}

	return params, nil
}
