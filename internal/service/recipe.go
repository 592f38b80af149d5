package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ladlelabs/ladle/backend/internal/models"
)

// IngredientAmount is one requested ingredient line.
type IngredientAmount struct {
	IngredientID uuid.UUID
	Amount       int
}

// RecipeInput carries the full payload of a recipe create or update. A
// recipe is always written together with its complete tag and
// ingredient-line sets; updates replace both sets wholesale.
type RecipeInput struct {
	Name        string
	Description string
	ImageURL    string
	CookingTime int
	TagIDs      []uuid.UUID
	Ingredients []IngredientAmount
}

// RecipeFilter narrows a recipe listing.
type RecipeFilter struct {
	TagSlugs    []string
	AuthorID    *uuid.UUID
	FavoritedBy *uuid.UUID
	InCartOf    *uuid.UUID
	Page        int
	Limit       int
}

// RecipeService handles recipe operations
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

func (in *RecipeInput) validate() error {
	if in.CookingTime < 1 {
		return ErrInvalidOperation
	}
	seen := make(map[uuid.UUID]bool, len(in.Ingredients))
	for _, line := range in.Ingredients {
		if line.Amount < 1 {
			return ErrInvalidOperation
		}
		if seen[line.IngredientID] {
			return ErrInvalidOperation
		}
		seen[line.IngredientID] = true
	}
	return nil
}

// CreateRecipe persists a recipe with its tag and ingredient-line sets
// in one transaction. A recipe never exists without its lines.
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uuid.UUID, in *RecipeInput) (*models.Recipe, error) {
	if authorID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        in.Name,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		CookingTime: in.CookingTime,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := resolveTags(tx, in.TagIDs)
		if err != nil {
			return err
		}
		if err := ensureIngredientsExist(tx, in.Ingredients); err != nil {
			return err
		}
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		if len(tags) > 0 {
			if err := tx.Model(&recipe).Association("Tags").Append(tags); err != nil {
				return err
			}
		}
		return createIngredientLines(tx, recipe.ID, in.Ingredients)
	})
	if err != nil {
		return nil, err
	}
	return s.GetRecipe(ctx, recipe.ID)
}

// UpdateRecipe replaces a recipe's fields and its full tag and
// ingredient-line sets. Only the author may update.
func (s *RecipeService) UpdateRecipe(ctx context.Context, actorID, recipeID uuid.UUID, in *RecipeInput) (*models.Recipe, error) {
	if actorID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if recipe.AuthorID != actorID {
			return ErrUnauthorized
		}

		tags, err := resolveTags(tx, in.TagIDs)
		if err != nil {
			return err
		}
		if err := ensureIngredientsExist(tx, in.Ingredients); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"name":         in.Name,
			"description":  in.Description,
			"cooking_time": in.CookingTime,
		}
		if in.ImageURL != "" {
			updates["image_url"] = in.ImageURL
		}
		if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
			return err
		}

		if err := tx.Model(&recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return createIngredientLines(tx, recipe.ID, in.Ingredients)
	})
	if err != nil {
		return nil, err
	}
	return s.GetRecipe(ctx, recipeID)
}

// DeleteRecipe removes a recipe. Only the author may delete.
func (s *RecipeService) DeleteRecipe(ctx context.Context, actorID, recipeID uuid.UUID) error {
	if actorID == uuid.Nil {
		return ErrUnauthenticated
	}
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if recipe.AuthorID != actorID {
		return ErrUnauthorized
	}
	return s.db.WithContext(ctx).Delete(&recipe).Error
}

// GetRecipe retrieves a recipe with its author, tags and ingredient lines.
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// ListRecipes returns a page of recipes matching the filter, newest
// first, plus the total match count.
func (s *RecipeService) ListRecipes(ctx context.Context, filter *RecipeFilter) ([]models.Recipe, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{})

	// A recipe matching several requested slugs joins to several tag
	// rows; both the count and the page must collapse those duplicates.
	tagFiltered := len(filter.TagSlugs) > 0
	if tagFiltered {
		query = query.
			Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
	}
	if filter.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	if filter.FavoritedBy != nil {
		query = query.Joins("JOIN recipe_favorites ON recipe_favorites.recipe_id = recipes.id").
			Where("recipe_favorites.user_id = ?", *filter.FavoritedBy)
	}
	if filter.InCartOf != nil {
		query = query.Joins("JOIN cart_items ON cart_items.recipe_id = recipes.id").
			Where("cart_items.user_id = ?", *filter.InCartOf)
	}

	countQuery := query.Session(&gorm.Session{})
	if tagFiltered {
		// COUNT(DISTINCT recipes.*) is not valid SQL; count ids instead
		countQuery = countQuery.Distinct("recipes.id")
	}
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	listQuery := query.Session(&gorm.Session{})
	if tagFiltered {
		listQuery = listQuery.Distinct("recipes.*")
	}
	var recipes []models.Recipe
	err := listQuery.
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Order("recipes.created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

func resolveTags(tx *gorm.DB, ids []uuid.UUID) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []models.Tag
	if err := tx.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, ErrNotFound
	}
	return tags, nil
}

func ensureIngredientsExist(tx *gorm.DB, lines []IngredientAmount) error {
	if len(lines) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.IngredientID)
	}
	var count int64
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return ErrNotFound
	}
	return nil
}

func createIngredientLines(tx *gorm.DB, recipeID uuid.UUID, lines []IngredientAmount) error {
	for _, line := range lines {
		row := models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: line.IngredientID,
			Amount:       line.Amount,
		}
		if err := tx.Create(&row).Error; err != nil {
			if isDuplicateKey(err) {
				return ErrAlreadyExists
			}
			return err
		}
	}
	return nil
}
