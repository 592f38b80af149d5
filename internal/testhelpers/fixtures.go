package testhelpers

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ladlelabs/ladle/backend/internal/models"
)

// TestPassword is the plaintext password behind every fixture user.
const TestPassword = "password123"

var userSeq int

// CreateTestUser inserts a user with a unique username and email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	userSeq++
	hashed, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := models.User{
		Username:     fmt.Sprintf("testuser%d_%s", userSeq, uuid.New().String()[:8]),
		Email:        fmt.Sprintf("testuser%d_%s@example.com", userSeq, uuid.New().String()[:8]),
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: string(hashed),
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return &user
}

// CreateTestRecipe inserts a recipe for the given author.
func CreateTestRecipe(t *testing.T, db *gorm.DB, author *models.User, name string) *models.Recipe {
	t.Helper()

	recipe := models.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Description: "test recipe",
		CookingTime: 30,
	}
	if err := db.Create(&recipe).Error; err != nil {
		t.Fatalf("failed to create test recipe: %v", err)
	}
	return &recipe
}

// CreateTestIngredient inserts an ingredient.
func CreateTestIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()

	ingredient := models.Ingredient{
		Name:            name,
		MeasurementUnit: unit,
	}
	if err := db.Create(&ingredient).Error; err != nil {
		t.Fatalf("failed to create test ingredient: %v", err)
	}
	return &ingredient
}

// CreateTestTag inserts a tag.
func CreateTestTag(t *testing.T, db *gorm.DB, name, slug string) *models.Tag {
	t.Helper()

	tag := models.Tag{
		Name:  name,
		Color: "#49B64E",
		Slug:  slug,
	}
	if err := db.Create(&tag).Error; err != nil {
		t.Fatalf("failed to create test tag: %v", err)
	}
	return &tag
}

// AddIngredientLine attaches an ingredient with an amount to a recipe.
func AddIngredientLine(t *testing.T, db *gorm.DB, recipe *models.Recipe, ingredient *models.Ingredient, amount int) {
	t.Helper()

	line := models.RecipeIngredient{
		RecipeID:     recipe.ID,
		IngredientID: ingredient.ID,
		Amount:       amount,
	}
	if err := db.Create(&line).Error; err != nil {
		t.Fatalf("failed to create ingredient line: %v", err)
	}
}
