package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ladlelabs/ladle/backend/internal/models"
)

// IngredientService serves the read-only ingredient catalog.
type IngredientService struct {
	db *gorm.DB
}

func NewIngredientService(db *gorm.DB) *IngredientService {
	return &IngredientService{db: db}
}

func (s *IngredientService) List(ctx context.Context) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (s *IngredientService) Get(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ingredient, nil
}

// Search ranks ingredients in two tiers: names starting with the
// lower-cased query first, then names merely containing it, with no
// duplicates across the tiers. Each tier is ordered by name.
func (s *IngredientService) Search(ctx context.Context, query string) ([]models.Ingredient, error) {
	if query == "" {
		return s.List(ctx)
	}
	q := escapeLike(strings.ToLower(query))
	db := s.db.WithContext(ctx)

	var prefix []models.Ingredient
	if err := db.Where("LOWER(name) LIKE ? ESCAPE '\\'", q+"%").Order("name ASC").Find(&prefix).Error; err != nil {
		return nil, err
	}

	var contains []models.Ingredient
	if err := db.Where("LOWER(name) LIKE ? ESCAPE '\\' AND LOWER(name) NOT LIKE ? ESCAPE '\\'", "%"+q+"%", q+"%").
		Order("name ASC").Find(&contains).Error; err != nil {
		return nil, err
	}

	return append(prefix, contains...), nil
}

// escapeLike neutralizes LIKE metacharacters so the query matches them
// literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
