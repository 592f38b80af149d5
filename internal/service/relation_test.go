package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ladlelabs/ladle/backend/internal/models"
	"github.com/ladlelabs/ladle/backend/internal/service"
	"github.com/ladlelabs/ladle/backend/internal/testhelpers"
)

func TestToggleFavorite(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewRelationService(db)
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db)
	author := testhelpers.CreateTestUser(t, db)
	recipe := testhelpers.CreateTestRecipe(t, db, author, "Pancakes")

	result, err := svc.Toggle(ctx, user.ID, recipe.ID, service.RelationFavorite, true)
	require.NoError(t, err)
	require.NotNil(t, result.Recipe)
	assert.Equal(t, recipe.ID, result.Recipe.ID)
	assert.Equal(t, "Pancakes", result.Recipe.Name)

	// second add without an intervening removal
	_, err = svc.Toggle(ctx, user.ID, recipe.ID, service.RelationFavorite, true)
	assert.ErrorIs(t, err, service.ErrAlreadyExists)

	var count int64
	db.Model(&models.RecipeFavorite{}).Where("user_id = ? AND recipe_id = ?", user.ID, recipe.ID).Count(&count)
	assert.Equal(t, int64(1), count, "no duplicate row after conflicting add")

	_, err = svc.Toggle(ctx, user.ID, recipe.ID, service.RelationFavorite, false)
	require.NoError(t, err)

	db.Model(&models.RecipeFavorite{}).Where("user_id = ? AND recipe_id = ?", user.ID, recipe.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestToggleFavoriteRemoveAbsent(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewRelationService(db)

	user := testhelpers.CreateTestUser(t, db)
	author := testhelpers.CreateTestUser(t, db)
	recipe := testhelpers.CreateTestRecipe(t, db, author, "Soup")

	_, err := svc.Toggle(context.Background(), user.ID, recipe.ID, service.RelationFavorite, false)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestToggleFavoriteMissingRecipe(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewRelationService(db)

	user := testhelpers.CreateTestUser(t, db)

	_, err := svc.Toggle(context.Background(), user.ID, uuid.New(), service.RelationFavorite, true)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestToggleAnonymous(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewRelationService(db)

	author := testhelpers.CreateTestUser(t, db)
	recipe := testhelpers.CreateTestRecipe(t, db, author, "Stew")

	_, err := svc.Toggle(context.Background(), uuid.Nil, recipe.ID, service.RelationFavorite, true)
	assert.ErrorIs(t, err, service.ErrUnauthenticated)
}

func TestToggleCart(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewRelationService(db)
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db)
	author := testhelpers.CreateTestUser(t, db)
	recipe := testhelpers.CreateTestRecipe(t, db, author, "Curry")

	result, err := svc.Toggle(ctx, user.ID, recipe.ID, service.RelationCart, true)
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, result.Recipe.ID)

	exists, err := svc.Exists(ctx, user.ID, recipe.ID, service.RelationCart)
	require.NoError(t, err)
	assert.True(t, exists)

	// cart and favorite relations are independent
	exists, err = svc.Exists(ctx, user.ID, recipe.ID, service.RelationFavorite)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = svc.Toggle(ctx, user.ID, recipe.ID, service.RelationCart, false)
	require.NoError(t, err)

	_, err = svc.Toggle(ctx, user.ID, recipe.ID, service.RelationCart, false)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestToggleFollow(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewRelationService(db)
	ctx := context.Background()

	follower := testhelpers.CreateTestUser(t, db)
	followee := testhelpers.CreateTestUser(t, db)

	result, err := svc.Toggle(ctx, follower.ID, followee.ID, service.RelationFollow, true)
	require.NoError(t, err)
	require.NotNil(t, result.User)
	assert.Equal(t, followee.ID, result.User.ID)

	_, err = svc.Toggle(ctx, follower.ID, followee.ID, service.RelationFollow, true)
	assert.ErrorIs(t, err, service.ErrAlreadyExists)

	_, err = svc.Toggle(ctx, follower.ID, followee.ID, service.RelationFollow, false)
	require.NoError(t, err)

	_, err = svc.Toggle(ctx, follower.ID, followee.ID, service.RelationFollow, false)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestToggleSelfFollow(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewRelationService(db)

	user := testhelpers.CreateTestUser(t, db)

	_, err := svc.Toggle(context.Background(), user.ID, user.ID, service.RelationFollow, true)
	assert.ErrorIs(t, err, service.ErrInvalidOperation)

	var count int64
	db.Model(&models.UserFollow{}).Where("follower_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestToggleUnknownKind(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewRelationService(db)

	user := testhelpers.CreateTestUser(t, db)

	_, err := svc.Toggle(context.Background(), user.ID, uuid.New(), service.RelationKind("bookmark"), true)
	assert.ErrorIs(t, err, service.ErrInvalidOperation)
}
