package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ladlelabs/ladle/backend/internal/models"
	"github.com/ladlelabs/ladle/backend/internal/service"
	"github.com/ladlelabs/ladle/backend/internal/testhelpers"
)

func TestAggregateSumsAcrossRecipes(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewShoppingListService(db)
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db)
	author := testhelpers.CreateTestUser(t, db)

	flour := testhelpers.CreateTestIngredient(t, db, "Flour", "g")
	salt := testhelpers.CreateTestIngredient(t, db, "Salt", "g")

	recipeA := testhelpers.CreateTestRecipe(t, db, author, "Bread")
	testhelpers.AddIngredientLine(t, db, recipeA, flour, 200)

	recipeB := testhelpers.CreateTestRecipe(t, db, author, "Pasta")
	testhelpers.AddIngredientLine(t, db, recipeB, flour, 300)
	testhelpers.AddIngredientLine(t, db, recipeB, salt, 5)

	require.NoError(t, db.Create(&models.CartItem{UserID: user.ID, RecipeID: recipeA.ID}).Error)
	require.NoError(t, db.Create(&models.CartItem{UserID: user.ID, RecipeID: recipeB.ID}).Error)

	items, err := svc.Aggregate(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []service.ShoppingItem{
		{Name: "Flour", Amount: 500, MeasurementUnit: "g"},
		{Name: "Salt", Amount: 5, MeasurementUnit: "g"},
	}, items)

	// aggregating an unchanged cart is idempotent
	again, err := svc.Aggregate(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, items, again)
}

func TestAggregateDistinguishesUnits(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewShoppingListService(db)

	user := testhelpers.CreateTestUser(t, db)
	author := testhelpers.CreateTestUser(t, db)

	milkMl := testhelpers.CreateTestIngredient(t, db, "Milk", "ml")
	milkG := testhelpers.CreateTestIngredient(t, db, "Milk", "g")

	recipe := testhelpers.CreateTestRecipe(t, db, author, "Porridge")
	testhelpers.AddIngredientLine(t, db, recipe, milkMl, 100)
	testhelpers.AddIngredientLine(t, db, recipe, milkG, 50)

	require.NoError(t, db.Create(&models.CartItem{UserID: user.ID, RecipeID: recipe.ID}).Error)

	items, err := svc.Aggregate(context.Background(), user.ID)
	require.NoError(t, err)
	// ties on name break by unit ascending
	assert.Equal(t, []service.ShoppingItem{
		{Name: "Milk", Amount: 50, MeasurementUnit: "g"},
		{Name: "Milk", Amount: 100, MeasurementUnit: "ml"},
	}, items)
}

func TestAggregateIsCaseSensitive(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewShoppingListService(db)

	user := testhelpers.CreateTestUser(t, db)
	author := testhelpers.CreateTestUser(t, db)

	lower := testhelpers.CreateTestIngredient(t, db, "flour", "g")
	upper := testhelpers.CreateTestIngredient(t, db, "Flour", "g")

	recipe := testhelpers.CreateTestRecipe(t, db, author, "Cake")
	testhelpers.AddIngredientLine(t, db, recipe, lower, 100)
	testhelpers.AddIngredientLine(t, db, recipe, upper, 200)

	require.NoError(t, db.Create(&models.CartItem{UserID: user.ID, RecipeID: recipe.ID}).Error)

	items, err := svc.Aggregate(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, items, 2, "names differing only in case do not merge")
}

func TestAggregateEmptyCart(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewShoppingListService(db)

	user := testhelpers.CreateTestUser(t, db)

	items, err := svc.Aggregate(context.Background(), user.ID)
	require.NoError(t, err, "an empty cart is not an error")
	assert.Empty(t, items)
}

func TestAggregateAnonymous(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewShoppingListService(db)

	_, err := svc.Aggregate(context.Background(), uuid.Nil)
	assert.ErrorIs(t, err, service.ErrUnauthenticated)
}

func TestAggregateIgnoresOtherCarts(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewShoppingListService(db)

	user := testhelpers.CreateTestUser(t, db)
	other := testhelpers.CreateTestUser(t, db)
	author := testhelpers.CreateTestUser(t, db)

	sugar := testhelpers.CreateTestIngredient(t, db, "Sugar", "g")
	recipe := testhelpers.CreateTestRecipe(t, db, author, "Jam")
	testhelpers.AddIngredientLine(t, db, recipe, sugar, 400)

	require.NoError(t, db.Create(&models.CartItem{UserID: other.ID, RecipeID: recipe.ID}).Error)

	items, err := svc.Aggregate(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAggregateSkipsDeletedRecipes(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewShoppingListService(db)

	user := testhelpers.CreateTestUser(t, db)
	author := testhelpers.CreateTestUser(t, db)

	butter := testhelpers.CreateTestIngredient(t, db, "Butter", "g")
	recipe := testhelpers.CreateTestRecipe(t, db, author, "Toast")
	testhelpers.AddIngredientLine(t, db, recipe, butter, 25)

	require.NoError(t, db.Create(&models.CartItem{UserID: user.ID, RecipeID: recipe.ID}).Error)
	require.NoError(t, db.Delete(&models.Recipe{}, "id = ?", recipe.ID).Error)

	items, err := svc.Aggregate(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRenderShoppingList(t *testing.T) {
	items := []service.ShoppingItem{
		{Name: "Flour", Amount: 500, MeasurementUnit: "g"},
	}
	generatedAt := time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC)

	document := service.RenderShoppingList("Anna", items, generatedAt)

	expected := "Shopping list for Anna:\n" +
		"\n" +
		"Flour: 500 g\n" +
		"\n" +
		"Generated 02/01/2024 03:04.\n"
	assert.Equal(t, expected, document)

	// identical input always renders identically
	assert.Equal(t, document, service.RenderShoppingList("Anna", items, generatedAt))
}

func TestShoppingListFilename(t *testing.T) {
	assert.Equal(t, "anna_shopping_list.txt", service.ShoppingListFilename("anna"))
}
