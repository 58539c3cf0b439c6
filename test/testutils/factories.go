package testutils

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/questkitchen/backend/internal/domain/recipe"
	"github.com/questkitchen/backend/internal/domain/session"
	"github.com/questkitchen/backend/internal/domain/user"
)

// RandomUsername returns a valid random username
func RandomUsername() string {
	name := strings.ToLower(gofakeit.Username())
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	// Append digits so collisions across factory calls stay unlikely
	name = fmt.Sprintf("%s_%d", name, gofakeit.Number(100, 999))
	if len(name) > 50 {
		name = name[:50]
	}
	for len(name) < 3 {
		name += "x"
	}
	return name
}

// RandomPassword returns a valid random password
func RandomPassword() string {
	return gofakeit.Password(true, true, true, false, false, 16)
}

// NewTestUser builds a user entity with a known password. The hash uses
// bcrypt's minimum cost so test suites stay fast.
func NewTestUser(username, password string) *user.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return user.Reconstitute(uuid.New(), username, string(hash), time.Now())
}

// RecipeBuilder provides a fluent interface for building test recipes
type RecipeBuilder struct {
	id            uuid.UUID
	userID        uuid.UUID
	title         string
	content       string
	originalQuery string
	version       int64
	createdAt     time.Time
}

// NewRecipeBuilder creates a recipe builder with randomized defaults
func NewRecipeBuilder() *RecipeBuilder {
	return &RecipeBuilder{
		id:            uuid.New(),
		userID:        uuid.New(),
		title:         gofakeit.Dinner(),
		content:       gofakeit.Paragraph(2, 4, 8, "\n"),
		originalQuery: gofakeit.Sentence(5),
		version:       1,
		createdAt:     time.Now(),
	}
}

// WithOwner sets the owning user
func (rb *RecipeBuilder) WithOwner(userID uuid.UUID) *RecipeBuilder {
	rb.userID = userID
	return rb
}

// WithTitle sets the recipe title
func (rb *RecipeBuilder) WithTitle(title string) *RecipeBuilder {
	rb.title = title
	return rb
}

// WithContent sets the recipe content
func (rb *RecipeBuilder) WithContent(content string) *RecipeBuilder {
	rb.content = content
	return rb
}

// WithQuery sets the originating query text
func (rb *RecipeBuilder) WithQuery(query string) *RecipeBuilder {
	rb.originalQuery = query
	return rb
}

// WithCreatedAt sets the creation timestamp, useful for ordering tests
func (rb *RecipeBuilder) WithCreatedAt(t time.Time) *RecipeBuilder {
	rb.createdAt = t
	return rb
}

// Build constructs the recipe entity
func (rb *RecipeBuilder) Build() *recipe.Recipe {
	return recipe.Reconstitute(
		rb.id,
		rb.userID,
		rb.title,
		rb.content,
		rb.originalQuery,
		rb.version,
		rb.createdAt,
		rb.createdAt,
	)
}

// NewTestSession builds a live session for the given user
func NewTestSession(userID uuid.UUID, username string) *session.Session {
	sess, err := session.New(userID, username, time.Hour)
	if err != nil {
		panic(err)
	}
	return sess
}
