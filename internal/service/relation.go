package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ladlelabs/ladle/backend/internal/models"
)

// RelationKind selects which many-to-many relation a toggle operates on.
type RelationKind string

const (
	RelationFavorite RelationKind = "favorite"
	RelationCart     RelationKind = "cart"
	RelationFollow   RelationKind = "follow"
)

// ToggleResult carries a compact representation of the target entity
// after a successful add. Exactly one field is set, depending on the
// relation kind.
type ToggleResult struct {
	Recipe *models.Recipe
	User   *models.User
}

// RelationService maintains the user-to-recipe favorite and cart
// relations and the user-to-user follow relation. Relation rows are
// created and deleted here only.
type RelationService struct {
	db *gorm.DB
}

func NewRelationService(db *gorm.DB) *RelationService {
	return &RelationService{db: db}
}

// Toggle adds (desired=true) or removes (desired=false) one relation row.
// Adding an existing relation fails with ErrAlreadyExists, removing an
// absent one with ErrNotFound. Following yourself fails with
// ErrInvalidOperation.
func (s *RelationService) Toggle(ctx context.Context, userID, targetID uuid.UUID, kind RelationKind, desired bool) (*ToggleResult, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	switch kind {
	case RelationFavorite:
		return s.toggleRecipeRelation(ctx, userID, targetID, desired, func() relationRow {
			return &models.RecipeFavorite{UserID: userID, RecipeID: targetID}
		}, &models.RecipeFavorite{})
	case RelationCart:
		return s.toggleRecipeRelation(ctx, userID, targetID, desired, func() relationRow {
			return &models.CartItem{UserID: userID, RecipeID: targetID}
		}, &models.CartItem{})
	case RelationFollow:
		return s.toggleFollow(ctx, userID, targetID, desired)
	default:
		return nil, ErrInvalidOperation
	}
}

// Exists reports whether the relation row is present. Anonymous actors
// hold no relations.
func (s *RelationService) Exists(ctx context.Context, userID, targetID uuid.UUID, kind RelationKind) (bool, error) {
	if userID == uuid.Nil {
		return false, nil
	}
	db := s.db.WithContext(ctx)

	var count int64
	var err error
	switch kind {
	case RelationFavorite:
		err = db.Model(&models.RecipeFavorite{}).Where("user_id = ? AND recipe_id = ?", userID, targetID).Count(&count).Error
	case RelationCart:
		err = db.Model(&models.CartItem{}).Where("user_id = ? AND recipe_id = ?", userID, targetID).Count(&count).Error
	case RelationFollow:
		err = db.Model(&models.UserFollow{}).Where("follower_id = ? AND followee_id = ?", userID, targetID).Count(&count).Error
	default:
		return false, ErrInvalidOperation
	}
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

type relationRow interface{}

func (s *RelationService) toggleRecipeRelation(ctx context.Context, userID, recipeID uuid.UUID, desired bool, newRow func() relationRow, rowModel relationRow) (*ToggleResult, error) {
	db := s.db.WithContext(ctx)

	if !desired {
		res := db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(rowModel)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
		return &ToggleResult{}, nil
	}

	var recipe models.Recipe
	if err := db.First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var count int64
	if err := db.Model(rowModel).Where("user_id = ? AND recipe_id = ?", userID, recipeID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyExists
	}

	if err := db.Create(newRow()).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return &ToggleResult{Recipe: &recipe}, nil
}

func (s *RelationService) toggleFollow(ctx context.Context, followerID, followeeID uuid.UUID, desired bool) (*ToggleResult, error) {
	db := s.db.WithContext(ctx)

	if !desired {
		res := db.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).Delete(&models.UserFollow{})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
		return &ToggleResult{}, nil
	}

	if followerID == followeeID {
		return nil, ErrInvalidOperation
	}

	var target models.User
	if err := db.First(&target, "id = ?", followeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var count int64
	if err := db.Model(&models.UserFollow{}).Where("follower_id = ? AND followee_id = ?", followerID, followeeID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyExists
	}

	follow := models.UserFollow{FollowerID: followerID, FolloweeID: followeeID}
	if err := db.Create(&follow).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return &ToggleResult{User: &target}, nil
}

// isDuplicateKey reports whether err is a uniqueness-constraint violation.
// Covers gorm's translated error plus the raw postgres and sqlite messages,
// so a concurrent duplicate insert surfaces as ErrAlreadyExists instead of
// a storage error.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
