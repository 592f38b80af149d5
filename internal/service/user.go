package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ladlelabs/ladle/backend/internal/models"
)

// Subscription is one followed author together with their recipes.
type Subscription struct {
	User         models.User
	Recipes      []models.Recipe
	RecipesCount int64
}

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) ListUsers(ctx context.Context, page, limit int) ([]models.User, int64, error) {
	db := s.db.WithContext(ctx).Model(&models.User{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var users []models.User
	if err := db.Order("username ASC").Offset((page - 1) * limit).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// IsSubscribed reports whether follower follows followee. Anonymous
// actors and self-references are never subscribed.
func (s *UserService) IsSubscribed(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	if followerID == uuid.Nil || followerID == followeeID {
		return false, nil
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&models.UserFollow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Subscriptions lists the users the given user follows, each with their
// recipes. recipesLimit > 0 caps the recipes per author.
func (s *UserService) Subscriptions(ctx context.Context, userID uuid.UUID, recipesLimit int) ([]Subscription, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	db := s.db.WithContext(ctx)

	var authors []models.User
	err := db.
		Joins("JOIN user_follows ON user_follows.followee_id = users.id").
		Where("user_follows.follower_id = ?", userID).
		Order("users.username ASC").
		Find(&authors).Error
	if err != nil {
		return nil, err
	}

	subs := make([]Subscription, 0, len(authors))
	for _, author := range authors {
		var count int64
		if err := db.Model(&models.Recipe{}).Where("author_id = ?", author.ID).Count(&count).Error; err != nil {
			return nil, err
		}

		recipeQuery := db.Where("author_id = ?", author.ID).Order("created_at DESC")
		if recipesLimit > 0 {
			recipeQuery = recipeQuery.Limit(recipesLimit)
		}
		var recipes []models.Recipe
		if err := recipeQuery.Find(&recipes).Error; err != nil {
			return nil, err
		}

		subs = append(subs, Subscription{
			User:         author,
			Recipes:      recipes,
			RecipesCount: count,
		})
	}
	return subs, nil
}
