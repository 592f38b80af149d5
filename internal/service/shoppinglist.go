package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// shoppingListTimeFormat is day/month/year hour:minute, 24-hour clock.
const shoppingListTimeFormat = "02/01/2006 15:04"

// ShoppingItem is one aggregated shopping list entry: the summed amount
// of a single (ingredient name, measurement unit) pair across every
// recipe in the user's cart.
type ShoppingItem struct {
	Name            string `json:"name"`
	Amount          int    `json:"amount"`
	MeasurementUnit string `json:"measurement_unit"`
}

// ShoppingListService computes aggregated shopping lists from the cart
// relation.
type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// Aggregate sums ingredient amounts across all recipes in the user's
// cart, grouped by the exact (name, measurement unit) pair. Grouping is
// case-sensitive. The result is ordered by name, then unit, so identical
// carts always render identically. An empty cart yields an empty slice,
// not an error.
func (s *ShoppingListService) Aggregate(ctx context.Context, userID uuid.UUID) ([]ShoppingItem, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	var items []ShoppingItem
	err := s.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN cart_items ON cart_items.recipe_id = recipe_ingredients.recipe_id").
		Joins("JOIN recipes ON recipes.id = recipe_ingredients.recipe_id").
		Where("cart_items.user_id = ? AND recipes.deleted_at IS NULL", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name ASC, ingredients.measurement_unit ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// RenderShoppingList formats aggregated items into the downloadable
// text document. The caller supplies the generation time; the renderer
// never reads the clock, so identical input always produces identical
// output.
func RenderShoppingList(firstName string, items []ShoppingItem, generatedAt time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Shopping list for %s:\n\n", firstName)
	for _, item := range items {
		fmt.Fprintf(&b, "%s: %d %s\n", item.Name, item.Amount, item.MeasurementUnit)
	}
	fmt.Fprintf(&b, "\nGenerated %s.\n", generatedAt.Format(shoppingListTimeFormat))
	return b.String()
}

// ShoppingListFilename suggests the download filename for a user's list.
func ShoppingListFilename(username string) string {
	return username + "_shopping_list.txt"
}
