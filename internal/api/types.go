package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/ladlelabs/ladle/backend/internal/models"
)

type RegisterRequest struct {
	Username  string `json:"username" binding:"required,max=150"`
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type IngredientLineRequest struct {
	ID     uuid.UUID `json:"id" binding:"required"`
	Amount int       `json:"amount" binding:"required,min=1"`
}

type RecipeRequest struct {
	Name        string                  `json:"name" binding:"required,max=200"`
	Description string                  `json:"description" binding:"max=2000"`
	Image       string                  `json:"image"` // base64 payload, optional
	CookingTime int                     `json:"cooking_time" binding:"required,min=1"`
	Tags        []uuid.UUID             `json:"tags"`
	Ingredients []IngredientLineRequest `json:"ingredients" binding:"dive"`
}

// UserResponse is the public view of a user. is_subscribed reflects the
// acting identity and is false for anonymous requests.
type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

// ShortRecipeResponse is the compact recipe payload returned by
// relation toggles and nested in subscription listings.
type ShortRecipeResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ImageURL    string    `json:"image_url"`
	CookingTime int       `json:"cooking_time"`
}

type IngredientLineResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

type RecipeResponse struct {
	ID                uuid.UUID                `json:"id"`
	Author            UserResponse             `json:"author"`
	Name              string                   `json:"name"`
	Description       string                   `json:"description"`
	ImageURL          string                   `json:"image_url"`
	CookingTime       int                      `json:"cooking_time"`
	CreatedAt         time.Time                `json:"created_at"`
	Tags              []models.Tag             `json:"tags"`
	Ingredients       []IngredientLineResponse `json:"ingredients"`
	IsFavorited       bool                     `json:"is_favorited"`
	IsInShoppingCart  bool                     `json:"is_in_shopping_cart"`
}

// SubscriptionResponse is one followed author with their recipes.
type SubscriptionResponse struct {
	UserResponse
	Recipes      []ShortRecipeResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}

func newUserResponse(user *models.User, isSubscribed bool) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: isSubscribed,
	}
}

func newShortRecipeResponse(recipe *models.Recipe) ShortRecipeResponse {
	return ShortRecipeResponse{
		ID:          recipe.ID,
		Name:        recipe.Name,
		ImageURL:    recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}
}

func newIngredientLines(lines []models.RecipeIngredient) []IngredientLineResponse {
	out := make([]IngredientLineResponse, 0, len(lines))
	for _, line := range lines {
		out = append(out, IngredientLineResponse{
			ID:              line.IngredientID,
			Name:            line.Ingredient.Name,
			MeasurementUnit: line.Ingredient.MeasurementUnit,
			Amount:          line.Amount,
		})
	}
	return out
}
