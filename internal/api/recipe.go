package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ladlelabs/ladle/backend/internal/middleware"
	"github.com/ladlelabs/ladle/backend/internal/models"
	"github.com/ladlelabs/ladle/backend/internal/service"
)

type RecipeHandler struct {
	recipeService   *service.RecipeService
	relationService *service.RelationService
	shoppingService *service.ShoppingListService
	userService     *service.UserService
	imageService    *service.ImageService
	authService     *service.AuthService
}

func NewRecipeHandler(
	recipeService *service.RecipeService,
	relationService *service.RelationService,
	shoppingService *service.ShoppingListService,
	userService *service.UserService,
	imageService *service.ImageService,
	authService *service.AuthService,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService:   recipeService,
		relationService: relationService,
		shoppingService: shoppingService,
		userService:     userService,
		imageService:    imageService,
		authService:     authService,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.authService)
	optional := middleware.OptionalAuthMiddleware(h.authService)

	recipes := router.Group("/recipes")
	{
		recipes.GET("", optional, h.ListRecipes)
		recipes.GET("/:id", optional, h.GetRecipe)
		recipes.POST("", auth, h.CreateRecipe)
		recipes.PUT("/:id", auth, h.UpdateRecipe)
		recipes.DELETE("/:id", auth, h.DeleteRecipe)
		recipes.POST("/:id/favorite", auth, h.FavoriteRecipe)
		recipes.DELETE("/:id/favorite", auth, h.UnfavoriteRecipe)
		recipes.POST("/:id/shopping_cart", auth, h.AddToCart)
		recipes.DELETE("/:id/shopping_cart", auth, h.RemoveFromCart)
	}

	cart := router.Group("/shopping_cart", auth)
	{
		cart.GET("/download", h.DownloadShoppingList)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	userID := currentUserID(c)

	filter := service.RecipeFilter{
		TagSlugs: c.QueryArray("tags"),
	}
	if author := c.Query("author"); author != "" {
		authorID, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author"})
			return
		}
		filter.AuthorID = &authorID
	}
	// Membership filters only make sense for a resolved identity;
	// anonymous requests get the unfiltered public listing.
	if userID != uuid.Nil {
		if c.Query("is_favorited") == "1" {
			filter.FavoritedBy = &userID
		}
		if c.Query("is_in_shopping_cart") == "1" {
			filter.InCartOf = &userID
		}
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))

	recipes, total, err := h.recipeService.ListRecipes(c.Request.Context(), &filter)
	if err != nil {
		respondError(c, err)
		return
	}

	results := make([]RecipeResponse, 0, len(recipes))
	for i := range recipes {
		resp, err := h.buildRecipeResponse(c, &recipes[i])
		if err != nil {
			respondError(c, err)
			return
		}
		results = append(results, *resp)
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   total,
		"recipes": results,
	})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.buildRecipeResponse(c, recipe)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input, err := h.recipeInput(c, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), currentUserID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.buildRecipeResponse(c, recipe)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"recipe": resp})
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input, err := h.recipeInput(c, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), currentUserID(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.buildRecipeResponse(c, recipe)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": resp})
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), currentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Recipe deleted successfully",
		"id":      id,
	})
}

func (h *RecipeHandler) FavoriteRecipe(c *gin.Context) {
	h.toggleRecipeRelation(c, service.RelationFavorite, true)
}

func (h *RecipeHandler) UnfavoriteRecipe(c *gin.Context) {
	h.toggleRecipeRelation(c, service.RelationFavorite, false)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.toggleRecipeRelation(c, service.RelationCart, true)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.toggleRecipeRelation(c, service.RelationCart, false)
}

func (h *RecipeHandler) toggleRecipeRelation(c *gin.Context, kind service.RelationKind, desired bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.relationService.Toggle(c.Request.Context(), currentUserID(c), id, kind, desired)
	if err != nil {
		respondError(c, err)
		return
	}

	if !desired {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusCreated, newShortRecipeResponse(result.Recipe))
}

func (h *RecipeHandler) DownloadShoppingList(c *gin.Context) {
	userID := currentUserID(c)

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	items, err := h.shoppingService.Aggregate(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "shopping cart is empty"})
		return
	}

	document := service.RenderShoppingList(user.FirstName, items, time.Now())
	filename := service.ShoppingListFilename(user.Username)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(document))
}

func (h *RecipeHandler) recipeInput(c *gin.Context, req *RecipeRequest) (*service.RecipeInput, error) {
	input := service.RecipeInput{
		Name:        req.Name,
		Description: req.Description,
		CookingTime: req.CookingTime,
		TagIDs:      req.Tags,
	}
	for _, line := range req.Ingredients {
		input.Ingredients = append(input.Ingredients, service.IngredientAmount{
			IngredientID: line.ID,
			Amount:       line.Amount,
		})
	}
	if req.Image != "" {
		if h.imageService == nil {
			return nil, service.ErrInvalidOperation
		}
		url, err := h.imageService.UploadBase64(c.Request.Context(), req.Image)
		if err != nil {
			return nil, err
		}
		input.ImageURL = url
	}
	return &input, nil
}

func (h *RecipeHandler) buildRecipeResponse(c *gin.Context, recipe *models.Recipe) (*RecipeResponse, error) {
	ctx := c.Request.Context()
	userID := currentUserID(c)

	isFavorited, err := h.relationService.Exists(ctx, userID, recipe.ID, service.RelationFavorite)
	if err != nil {
		return nil, err
	}
	inCart, err := h.relationService.Exists(ctx, userID, recipe.ID, service.RelationCart)
	if err != nil {
		return nil, err
	}
	isSubscribed, err := h.userService.IsSubscribed(ctx, userID, recipe.AuthorID)
	if err != nil {
		return nil, err
	}

	tags := recipe.Tags
	if tags == nil {
		tags = []models.Tag{}
	}

	return &RecipeResponse{
		ID:               recipe.ID,
		Author:           newUserResponse(&recipe.Author, isSubscribed),
		Name:             recipe.Name,
		Description:      recipe.Description,
		ImageURL:         recipe.ImageURL,
		CookingTime:      recipe.CookingTime,
		CreatedAt:        recipe.CreatedAt,
		Tags:             tags,
		Ingredients:      newIngredientLines(recipe.Ingredients),
		IsFavorited:      isFavorited,
		IsInShoppingCart: inCart,
	}, nil
}
