package recipe

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/questkitchen/backend/internal/domain/recipe"
	"github.com/questkitchen/backend/internal/ports/inbound"
	errs "github.com/questkitchen/backend/pkg/errors"
	"github.com/questkitchen/backend/test/testutils"
)

// RecipeServiceTestSuite provides test suite for recipe use cases
type RecipeServiceTestSuite struct {
	suite.Suite
	ctx context.Context
}

func (suite *RecipeServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
}

func (suite *RecipeServiceTestSuite) newService() (inbound.RecipeService, *testutils.MockRecipeRepository, *testutils.MockRecipeGenerator) {
	recipes := new(testutils.MockRecipeRepository)
	generator := new(testutils.MockRecipeGenerator)
	svc := NewRecipeService(recipes, generator, zap.NewNop())
	return svc, recipes, generator
}

func (suite *RecipeServiceTestSuite) TestCreateRecipe() {
	suite.Run("CreateRecipe_ValidInput_PersistsAndReturnsDTO", func() {
		// Arrange
		svc, recipes, _ := suite.newService()
		owner := uuid.New()
		recipes.On("Create", mock.Anything, mock.AnythingOfType("*recipe.Recipe")).Return(nil)

		// Act
		dto, err := svc.CreateRecipe(suite.ctx, inbound.CreateRecipeCommand{
			UserID:        owner,
			Title:         "Health Potion Soup",
			Content:       "Simmer red herbs for 20 minutes.",
			OriginalQuery: "something restorative",
		})

		// Assert
		require.NoError(suite.T(), err)
		assert.NotEqual(suite.T(), uuid.Nil, dto.ID)
		assert.Equal(suite.T(), "Health Potion Soup", dto.Title)
		assert.Equal(suite.T(), "Simmer red herbs for 20 minutes.", dto.Content)
		assert.Equal(suite.T(), "something restorative", dto.OriginalQuery)

		_, parseErr := time.Parse(time.RFC3339, dto.CreatedAt)
		assert.NoError(suite.T(), parseErr)
		recipes.AssertExpectations(suite.T())
	})

	suite.Run("CreateRecipe_EmptyTitle_ReturnsValidationError", func() {
		// Arrange
		svc, recipes, _ := suite.newService()

		// Act
		_, err := svc.CreateRecipe(suite.ctx, inbound.CreateRecipeCommand{
			UserID:  uuid.New(),
			Title:   "   ",
			Content: "some content",
		})

		// Assert
		assert.True(suite.T(), errs.Is(err, errs.CodeValidationFailed))
		recipes.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
	})

	suite.Run("CreateRecipe_TitleTooLong_ReturnsValidationError", func() {
		// Arrange
		svc, _, _ := suite.newService()

		// Act
		_, err := svc.CreateRecipe(suite.ctx, inbound.CreateRecipeCommand{
			UserID:  uuid.New(),
			Title:   strings.Repeat("x", 201),
			Content: "some content",
		})

		// Assert
		assert.True(suite.T(), errs.Is(err, errs.CodeValidationFailed))
	})

	suite.Run("CreateRecipe_EmptyContent_ReturnsValidationError", func() {
		// Arrange
		svc, _, _ := suite.newService()

		// Act
		_, err := svc.CreateRecipe(suite.ctx, inbound.CreateRecipeCommand{
			UserID: uuid.New(),
			Title:  "Elven Bread",
		})

		// Assert
		assert.True(suite.T(), errs.Is(err, errs.CodeValidationFailed))
	})

	suite.Run("CreateRecipe_RepositoryFailure_ReturnsInternalError", func() {
		// Arrange
		svc, recipes, _ := suite.newService()
		recipes.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		// Act
		_, err := svc.CreateRecipe(suite.ctx, inbound.CreateRecipeCommand{
			UserID:  uuid.New(),
			Title:   "Elven Bread",
			Content: "One bite fills the stomach of a grown man.",
		})

		// Assert
		assert.True(suite.T(), errs.Is(err, errs.CodeInternal))
	})
}

func (suite *RecipeServiceTestSuite) TestGetRecipe() {
	suite.Run("GetRecipe_OwnedRecipe_ReturnsDTO", func() {
		// Arrange
		svc, recipes, _ := suite.newService()
		owner := uuid.New()
		stored := testutils.NewRecipeBuilder().WithOwner(owner).WithTitle("Dragon Stew").Build()
		recipes.On("FindByID", mock.Anything, owner, stored.ID()).Return(stored, nil)

		// Act
		dto, err := svc.GetRecipe(suite.ctx, owner, stored.ID())

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), stored.ID(), dto.ID)
		assert.Equal(suite.T(), "Dragon Stew", dto.Title)
		recipes.AssertExpectations(suite.T())
	})

	suite.Run("GetRecipe_UnknownRecipe_ReturnsNotFound", func() {
		// Arrange
		svc, recipes, _ := suite.newService()
		owner := uuid.New()
		id := uuid.New()
		recipes.On("FindByID", mock.Anything, owner, id).Return(nil, recipe.ErrRecipeNotFound)

		// Act
		_, err := svc.GetRecipe(suite.ctx, owner, id)

		// Assert
		require.Error(suite.T(), err)
		assert.True(suite.T(), errs.Is(err, errs.CodeNotFound))
		assert.Equal(suite.T(), "Recipe not found", err.(*errs.AppError).Message)
	})
}

func (suite *RecipeServiceTestSuite) TestListRecipes() {
	suite.Run("ListRecipes_PassesPaginationAndPreservesOrder", func() {
		// Arrange
		svc, recipes, _ := suite.newService()
		owner := uuid.New()
		newer := testutils.NewRecipeBuilder().WithOwner(owner).WithTitle("Newest").Build()
		older := testutils.NewRecipeBuilder().WithOwner(owner).WithTitle("Oldest").Build()
		recipes.On("FindByOwner", mock.Anything, owner, 5, 10).
			Return([]*recipe.Recipe{newer, older}, nil)

		// Act
		list, err := svc.ListRecipes(suite.ctx, owner, inbound.PaginationParams{Limit: 10, Offset: 5})

		// Assert
		require.NoError(suite.T(), err)
		require.Len(suite.T(), list.Recipes, 2)
		assert.Equal(suite.T(), "Newest", list.Recipes[0].Title)
		assert.Equal(suite.T(), "Oldest", list.Recipes[1].Title)
		recipes.AssertExpectations(suite.T())
	})

	suite.Run("ListRecipes_NoRecipes_ReturnsEmptyNonNilSlice", func() {
		// Arrange
		svc, recipes, _ := suite.newService()
		owner := uuid.New()
		recipes.On("FindByOwner", mock.Anything, owner, 0, 0).
			Return([]*recipe.Recipe{}, nil)

		// Act
		list, err := svc.ListRecipes(suite.ctx, owner, inbound.PaginationParams{})

		// Assert
		require.NoError(suite.T(), err)
		assert.NotNil(suite.T(), list.Recipes)
		assert.Empty(suite.T(), list.Recipes)
	})
}

func (suite *RecipeServiceTestSuite) TestUpdateRecipe() {
	suite.Run("UpdateRecipe_TitleOnly_PersistsNewTitleAndKeepsContent", func() {
		// Arrange
		svc, recipes, _ := suite.newService()
		owner := uuid.New()
		stored := testutils.NewRecipeBuilder().
			WithOwner(owner).
			WithTitle("Old Title").
			WithContent("Keep this content.").
			Build()
		recipes.On("FindByID", mock.Anything, owner, stored.ID()).Return(stored, nil)
		recipes.On("Update", mock.Anything, mock.AnythingOfType("*recipe.Recipe")).Return(nil)

		newTitle := "Phoenix Feather Roast"

		// Act
		dto, err := svc.UpdateRecipe(suite.ctx, inbound.UpdateRecipeCommand{
			RecipeID: stored.ID(),
			UserID:   owner,
			Title:    &newTitle,
		})

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "Phoenix Feather Roast", dto.Title)
		assert.Equal(suite.T(), "Keep this content.", dto.Content)
		recipes.AssertNumberOfCalls(suite.T(), "Update", 1)
	})

	suite.Run("UpdateRecipe_NoFields_ReturnsCurrentWithoutWrite", func() {
		// Arrange
		svc, recipes, _ := suite.newService()
		owner := uuid.New()
		stored := testutils.NewRecipeBuilder().WithOwner(owner).WithTitle("Unchanged").Build()
		recipes.On("FindByID", mock.Anything, owner, stored.ID()).Return(stored, nil)

		// Act
		dto, err := svc.UpdateRecipe(suite.ctx, inbound.UpdateRecipeCommand{
			RecipeID: stored.ID(),
			UserID:   owner,
		})

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "Unchanged", dto.Title)
		recipes.AssertNotCalled(suite.T(), "Update", mock.Anything, mock.Anything)
	})

	suite.Run("UpdateRecipe_EmptyTitle_ReturnsValidationError", func() {
		// Arrange
		svc, recipes, _ := suite.newService()
		owner := uuid.New()
		stored := testutils.NewRecipeBuilder().WithOwner(owner).Build()
		recipes.On("FindByID", mock.Anything, owner, stored.ID()).Return(stored, nil)

		empty := ""

		// Act
		_, err := svc.UpdateRecipe(suite.ctx, inbound.UpdateRecipeCommand{
			RecipeID: stored.ID(),
			UserID:   owner,
			Title:    &empty,
		})

		// Assert
		assert.True(suite.T(), errs.Is(err, errs.CodeValidationFailed))
		recipes.AssertNotCalled(suite.T(), "Update", mock.Anything, mock.Anything)
	})

	suite.Run("UpdateRecipe_UnknownRecipe_ReturnsNotFound", func() {
		// Arrange
		svc, recipes, _ := suite.newService()
		owner := uuid.New()
		id := uuid.New()
		recipes.On("FindByID", mock.Anything, owner, id).Return(nil, recipe.ErrRecipeNotFound)

		title := "anything"

		// Act
		_, err := svc.UpdateRecipe(suite.ctx, inbound.UpdateRecipeCommand{
			RecipeID: id,
			UserID:   owner,
			Title:    &title,
		})

		// Assert
		assert.True(suite.T(), errs.Is(err, errs.CodeNotFound))
	})

	suite.Run("UpdateRecipe_VersionConflict_RefetchesAndRetries", func() {
		// Arrange
		svc, recipes, _ := suite.newService()
		owner := uuid.New()
		stored := testutils.NewRecipeBuilder().WithOwner(owner).Build()
		recipes.On("FindByID", mock.Anything, owner, stored.ID()).Return(stored, nil)
		recipes.On("Update", mock.Anything, mock.Anything).Return(recipe.ErrVersionConflict).Once()
		recipes.On("Update", mock.Anything, mock.Anything).Return(nil).Once()

		title := "Second Attempt Pie"

		// Act
		dto, err := svc.UpdateRecipe(suite.ctx, inbound.UpdateRecipeCommand{
			RecipeID: stored.ID(),
			UserID:   owner,
			Title:    &title,
		})

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "Second Attempt Pie", dto.Title)
		recipes.AssertNumberOfCalls(suite.T(), "Update", 2)
		recipes.AssertNumberOfCalls(suite.T(), "FindByID", 2)
	})

	suite.Run("UpdateRecipe_PersistentConflict_GivesUp", func() {
		// Arrange
		svc, recipes, _ := suite.newService()
		owner := uuid.New()
		stored := testutils.NewRecipeBuilder().WithOwner(owner).Build()
		recipes.On("FindByID", mock.Anything, owner, stored.ID()).Return(stored, nil)
		recipes.On("Update", mock.Anything, mock.Anything).Return(recipe.ErrVersionConflict)

		title := "Never Lands"

		// Act
		_, err := svc.UpdateRecipe(suite.ctx, inbound.UpdateRecipeCommand{
			RecipeID: stored.ID(),
			UserID:   owner,
			Title:    &title,
		})

		// Assert
		require.Error(suite.T(), err)
		assert.True(suite.T(), errs.Is(err, errs.CodeConflict))
		recipes.AssertNumberOfCalls(suite.T(), "Update", 3)
	})
}

func (suite *RecipeServiceTestSuite) TestDeleteRecipe() {
	suite.Run("DeleteRecipe_OwnedRecipe_Removes", func() {
		// Arrange
		svc, recipes, _ := suite.newService()
		owner := uuid.New()
		id := uuid.New()
		recipes.On("Delete", mock.Anything, owner, id).Return(nil)

		// Act
		err := svc.DeleteRecipe(suite.ctx, owner, id)

		// Assert
		assert.NoError(suite.T(), err)
		recipes.AssertExpectations(suite.T())
	})

	suite.Run("DeleteRecipe_UnknownRecipe_ReturnsNotFound", func() {
		// Arrange
		svc, recipes, _ := suite.newService()
		owner := uuid.New()
		id := uuid.New()
		recipes.On("Delete", mock.Anything, owner, id).Return(recipe.ErrRecipeNotFound)

		// Act
		err := svc.DeleteRecipe(suite.ctx, owner, id)

		// Assert
		assert.True(suite.T(), errs.Is(err, errs.CodeNotFound))
	})
}

func (suite *RecipeServiceTestSuite) TestGenerateRecipe() {
	suite.Run("GenerateRecipe_ValidQuery_ReturnsGeneratedText", func() {
		// Arrange
		svc, _, generator := suite.newService()
		generator.On("Generate", mock.Anything, "dragon stew").
			Return("Dragon Stew\n\n1. Slay dragon.\n2. Stew it.", nil)

		// Act
		text, err := svc.GenerateRecipe(suite.ctx, "  dragon stew  ")

		// Assert
		require.NoError(suite.T(), err)
		assert.Contains(suite.T(), text, "Dragon Stew")
		generator.AssertExpectations(suite.T())
	})

	suite.Run("GenerateRecipe_EmptyQuery_ReturnsValidationError", func() {
		// Arrange
		svc, _, generator := suite.newService()

		// Act
		_, err := svc.GenerateRecipe(suite.ctx, "   ")

		// Assert
		assert.True(suite.T(), errs.Is(err, errs.CodeValidationFailed))
		generator.AssertNotCalled(suite.T(), "Generate", mock.Anything, mock.Anything)
	})

	suite.Run("GenerateRecipe_QueryTooLong_ReturnsValidationError", func() {
		// Arrange
		svc, _, _ := suite.newService()

		// Act
		_, err := svc.GenerateRecipe(suite.ctx, strings.Repeat("a", 2001))

		// Assert
		assert.True(suite.T(), errs.Is(err, errs.CodeValidationFailed))
	})

	suite.Run("GenerateRecipe_UpstreamFailure_ReturnsUpstreamUnavailable", func() {
		// Arrange
		svc, _, generator := suite.newService()
		generator.On("Generate", mock.Anything, "beef wellington").
			Return("", errors.New("connection refused"))

		// Act
		_, err := svc.GenerateRecipe(suite.ctx, "beef wellington")

		// Assert
		require.Error(suite.T(), err)
		assert.True(suite.T(), errs.Is(err, errs.CodeUpstreamUnavailable))

		appErr := err.(*errs.AppError)
		assert.Equal(suite.T(), 502, appErr.StatusCode())
	})
}

// TestRecipeServiceTestSuite runs the recipe service test suite
func TestRecipeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RecipeServiceTestSuite))
}
