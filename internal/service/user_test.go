package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ladlelabs/ladle/backend/internal/service"
	"github.com/ladlelabs/ladle/backend/internal/testhelpers"
)

func TestGetUser(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewUserService(db)
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db)

	found, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Username, found.Username)

	_, err = svc.GetUser(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestListUsersPagination(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewUserService(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		testhelpers.CreateTestUser(t, db)
	}

	users, total, err := svc.ListUsers(ctx, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, users, 2)

	rest, total, err := svc.ListUsers(ctx, 2, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, rest, 1)
}

func TestIsSubscribed(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	users := service.NewUserService(db)
	relations := service.NewRelationService(db)
	ctx := context.Background()

	follower := testhelpers.CreateTestUser(t, db)
	author := testhelpers.CreateTestUser(t, db)

	subscribed, err := users.IsSubscribed(ctx, follower.ID, author.ID)
	require.NoError(t, err)
	assert.False(t, subscribed)

	_, err = relations.Toggle(ctx, follower.ID, author.ID, service.RelationFollow, true)
	require.NoError(t, err)

	subscribed, err = users.IsSubscribed(ctx, follower.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, subscribed)

	// follow is one-directional
	subscribed, err = users.IsSubscribed(ctx, author.ID, follower.ID)
	require.NoError(t, err)
	assert.False(t, subscribed)

	// anonymous and self lookups short-circuit to false
	subscribed, err = users.IsSubscribed(ctx, uuid.Nil, author.ID)
	require.NoError(t, err)
	assert.False(t, subscribed)

	subscribed, err = users.IsSubscribed(ctx, author.ID, author.ID)
	require.NoError(t, err)
	assert.False(t, subscribed)
}

func TestSubscriptions(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	users := service.NewUserService(db)
	relations := service.NewRelationService(db)
	ctx := context.Background()

	follower := testhelpers.CreateTestUser(t, db)
	author := testhelpers.CreateTestUser(t, db)
	other := testhelpers.CreateTestUser(t, db)

	for i := 0; i < 3; i++ {
		testhelpers.CreateTestRecipe(t, db, author, fmt.Sprintf("Dish %d", i))
	}
	testhelpers.CreateTestRecipe(t, db, other, "Unrelated")

	_, err := relations.Toggle(ctx, follower.ID, author.ID, service.RelationFollow, true)
	require.NoError(t, err)

	subs, err := users.Subscriptions(ctx, follower.ID, 0)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, author.ID, subs[0].User.ID)
	assert.EqualValues(t, 3, subs[0].RecipesCount)
	assert.Len(t, subs[0].Recipes, 3)

	// recipesLimit caps the embedded recipes but not the count
	capped, err := users.Subscriptions(ctx, follower.ID, 2)
	require.NoError(t, err)
	require.Len(t, capped, 1)
	assert.EqualValues(t, 3, capped[0].RecipesCount)
	assert.Len(t, capped[0].Recipes, 2)
}

func TestSubscriptionsAnonymous(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewUserService(db)

	_, err := svc.Subscriptions(context.Background(), uuid.Nil, 0)
	assert.ErrorIs(t, err, service.ErrUnauthenticated)
}

func TestSubscriptionsEmpty(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewUserService(db)

	user := testhelpers.CreateTestUser(t, db)

	subs, err := svc.Subscriptions(context.Background(), user.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, subs)
}
