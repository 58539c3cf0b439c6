package recipe

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// RecipeTestSuite provides a test suite for the Recipe entity
type RecipeTestSuite struct {
	suite.Suite
}

// TestRecipeCreation tests recipe creation scenarios
func (suite *RecipeTestSuite) TestRecipeCreation() {
	suite.Run("ValidRecipe_ShouldCreateSuccessfully", func() {
		// Arrange
		ownerID := uuid.New()

		// Act
		rec, err := NewRecipe(ownerID, "Dragon Stew", "Simmer for three days.", "hearty adventurer meal")

		// Assert
		require.NoError(suite.T(), err)
		require.NotNil(suite.T(), rec)

		assert.NotEqual(suite.T(), uuid.Nil, rec.ID())
		assert.Equal(suite.T(), ownerID, rec.UserID())
		assert.Equal(suite.T(), "Dragon Stew", rec.Title())
		assert.Equal(suite.T(), "Simmer for three days.", rec.Content())
		assert.Equal(suite.T(), "hearty adventurer meal", rec.OriginalQuery())
		assert.Equal(suite.T(), int64(1), rec.version)
		assert.NotZero(suite.T(), rec.createdAt)
		assert.Equal(suite.T(), rec.createdAt, rec.updatedAt)
	})

	suite.Run("TwoRecipes_ShouldGetDistinctIDs", func() {
		// Arrange & Act
		first, err1 := NewRecipe(uuid.New(), "Title", "Content", "")
		second, err2 := NewRecipe(uuid.New(), "Title", "Content", "")

		// Assert
		require.NoError(suite.T(), err1)
		require.NoError(suite.T(), err2)
		assert.NotEqual(suite.T(), first.ID(), second.ID())
	})

	suite.Run("TitleWithSurroundingSpaces_ShouldBeTrimmed", func() {
		// Act
		rec, err := NewRecipe(uuid.New(), "  Elven Bread  ", "Content", "")

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "Elven Bread", rec.Title())
	})

	suite.Run("EmptyTitle_ShouldReturnError", func() {
		// Act
		rec, err := NewRecipe(uuid.New(), "   ", "Content", "")

		// Assert
		assert.Nil(suite.T(), rec)
		assert.Equal(suite.T(), ErrTitleRequired, err)
	})

	suite.Run("TitleTooLong_ShouldReturnError", func() {
		// Arrange
		title := strings.Repeat("x", 201) // More than 200 characters

		// Act
		rec, err := NewRecipe(uuid.New(), title, "Content", "")

		// Assert
		assert.Nil(suite.T(), rec)
		assert.Equal(suite.T(), ErrTitleTooLong, err)
	})

	suite.Run("TitleOfExactly200Characters_ShouldBeAccepted", func() {
		// Arrange
		title := strings.Repeat("x", 200)

		// Act
		_, err := NewRecipe(uuid.New(), title, "Content", "")

		// Assert
		assert.NoError(suite.T(), err)
	})

	suite.Run("EmptyContent_ShouldReturnError", func() {
		// Act
		rec, err := NewRecipe(uuid.New(), "Title", "", "")

		// Assert
		assert.Nil(suite.T(), rec)
		assert.Equal(suite.T(), ErrContentRequired, err)
	})

	suite.Run("MultilineContent_ShouldBeKeptVerbatim", func() {
		// Arrange
		content := "Ingredients:\n- 1 dragon\n\nSteps:\n1. Stew it."

		// Act
		rec, err := NewRecipe(uuid.New(), "Title", content, "")

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), content, rec.Content())
	})
}

// TestRecipeModification tests recipe editing scenarios
func (suite *RecipeTestSuite) TestRecipeModification() {
	suite.Run("UpdateTitle_ValidTitle_ShouldUpdateAndTouch", func() {
		// Arrange
		rec, _ := NewRecipe(uuid.New(), "Original Title", "Content", "")
		originalUpdatedAt := rec.updatedAt

		// Act
		time.Sleep(1 * time.Millisecond) // Ensure time difference
		err := rec.UpdateTitle("New Title")

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "New Title", rec.Title())
		assert.True(suite.T(), rec.updatedAt.After(originalUpdatedAt))
	})

	suite.Run("UpdateTitle_EmptyTitle_ShouldReturnErrorAndKeepOld", func() {
		// Arrange
		rec, _ := NewRecipe(uuid.New(), "Original Title", "Content", "")

		// Act
		err := rec.UpdateTitle("")

		// Assert
		assert.Equal(suite.T(), ErrTitleRequired, err)
		assert.Equal(suite.T(), "Original Title", rec.Title())
	})

	suite.Run("UpdateContent_ValidContent_ShouldUpdateAndTouch", func() {
		// Arrange
		rec, _ := NewRecipe(uuid.New(), "Title", "Old content", "")
		originalUpdatedAt := rec.updatedAt

		// Act
		time.Sleep(1 * time.Millisecond)
		err := rec.UpdateContent("New content")

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "New content", rec.Content())
		assert.True(suite.T(), rec.updatedAt.After(originalUpdatedAt))
	})

	suite.Run("UpdateContent_EmptyContent_ShouldReturnErrorAndKeepOld", func() {
		// Arrange
		rec, _ := NewRecipe(uuid.New(), "Title", "Old content", "")

		// Act
		err := rec.UpdateContent("   ")

		// Assert
		assert.Equal(suite.T(), ErrContentRequired, err)
		assert.Equal(suite.T(), "Old content", rec.Content())
	})

	suite.Run("BumpVersion_ShouldIncrement", func() {
		// Arrange
		rec, _ := NewRecipe(uuid.New(), "Title", "Content", "")

		// Act
		rec.BumpVersion()

		// Assert
		assert.Equal(suite.T(), int64(2), rec.Version())
	})
}

// TestRecipeOwnership tests ownership checks
func (suite *RecipeTestSuite) TestRecipeOwnership() {
	suite.Run("IsOwnedBy_Owner_ShouldReturnTrue", func() {
		// Arrange
		ownerID := uuid.New()
		rec, _ := NewRecipe(ownerID, "Title", "Content", "")

		// Act & Assert
		assert.True(suite.T(), rec.IsOwnedBy(ownerID))
	})

	suite.Run("IsOwnedBy_OtherUser_ShouldReturnFalse", func() {
		// Arrange
		rec, _ := NewRecipe(uuid.New(), "Title", "Content", "")

		// Act & Assert
		assert.False(suite.T(), rec.IsOwnedBy(uuid.New()))
	})
}

// TestReconstitute tests rebuilding from persisted state
func (suite *RecipeTestSuite) TestReconstitute() {
	suite.Run("Reconstitute_ShouldRestoreAllFieldsWithoutValidation", func() {
		// Arrange
		id := uuid.New()
		ownerID := uuid.New()
		createdAt := time.Now().Add(-time.Hour)
		updatedAt := time.Now().Add(-time.Minute)

		// Act
		rec := Reconstitute(id, ownerID, "Stored Title", "Stored content", "stored query", 7, createdAt, updatedAt)

		// Assert
		assert.Equal(suite.T(), id, rec.ID())
		assert.Equal(suite.T(), ownerID, rec.UserID())
		assert.Equal(suite.T(), "Stored Title", rec.Title())
		assert.Equal(suite.T(), "Stored content", rec.Content())
		assert.Equal(suite.T(), "stored query", rec.OriginalQuery())
		assert.Equal(suite.T(), int64(7), rec.Version())
		assert.Equal(suite.T(), createdAt, rec.CreatedAt())
		assert.Equal(suite.T(), updatedAt, rec.UpdatedAt())
	})
}

// TestRecipeTestSuite runs the recipe entity test suite
func TestRecipeTestSuite(t *testing.T) {
	suite.Run(t, new(RecipeTestSuite))
}
