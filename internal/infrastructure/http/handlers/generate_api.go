package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/questkitchen/backend/internal/infrastructure/monitoring"
	"github.com/questkitchen/backend/internal/ports/inbound"
	errs "github.com/questkitchen/backend/pkg/errors"
)

// GenerateAPIHandlers handles recipe generation API requests
type GenerateAPIHandlers struct {
	recipeService inbound.RecipeService
	metrics       *monitoring.MetricsCollector
	logger        *zap.Logger
}

// NewGenerateAPIHandlers creates a new generation API handlers instance
func NewGenerateAPIHandlers(
	recipeService inbound.RecipeService,
	metrics *monitoring.MetricsCollector,
	logger *zap.Logger,
) *GenerateAPIHandlers {
	return &GenerateAPIHandlers{
		recipeService: recipeService,
		metrics:       metrics,
		logger:        logger,
	}
}

// GenerateRecipeRequest represents a recipe generation request
type GenerateRecipeRequest struct {
	ChatInput string `json:"chat_input" validate:"required,max=2000"`
}

// GenerateRecipeResponse carries the generated recipe text
type GenerateRecipeResponse struct {
	Recipe string `json:"recipe"`
}

// GenerateRecipe handles POST /api/recipe
func (h *GenerateAPIHandlers) GenerateRecipe(w http.ResponseWriter, r *http.Request) {
	var req GenerateRecipeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	recipe, err := h.recipeService.GenerateRecipe(r.Context(), req.ChatInput)
	if err != nil {
		// Rejected queries never reach the gateway, so only upstream
		// failures count as generation errors.
		if errs.GetCode(err) != errs.CodeValidationFailed {
			h.metrics.RecipeGeneration("error")
		}
		writeError(w, h.logger, err)
		return
	}

	h.metrics.RecipeGeneration("success")
	writeJSON(w, h.logger, http.StatusOK, GenerateRecipeResponse{Recipe: recipe})
}
