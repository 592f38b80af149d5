package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ladlelabs/ladle/backend/internal/middleware"
	"github.com/ladlelabs/ladle/backend/internal/service"
)

type UserHandler struct {
	userService     *service.UserService
	relationService *service.RelationService
	authService     *service.AuthService
}

func NewUserHandler(userService *service.UserService, relationService *service.RelationService, authService *service.AuthService) *UserHandler {
	return &UserHandler{
		userService:     userService,
		relationService: relationService,
		authService:     authService,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.authService)
	optional := middleware.OptionalAuthMiddleware(h.authService)

	users := router.Group("/users")
	{
		users.GET("", optional, h.ListUsers)
		users.GET("/:id", optional, h.GetUser)
		users.POST("/:id/subscribe", auth, h.Subscribe)
		users.DELETE("/:id/subscribe", auth, h.Unsubscribe)
	}

	router.GET("/profile", auth, h.Profile)
	router.GET("/subscriptions", auth, h.Subscriptions)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	users, total, err := h.userService.ListUsers(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	actorID := currentUserID(c)
	results := make([]UserResponse, 0, len(users))
	for i := range users {
		subscribed, err := h.userService.IsSubscribed(c.Request.Context(), actorID, users[i].ID)
		if err != nil {
			respondError(c, err)
			return
		}
		results = append(results, newUserResponse(&users[i], subscribed))
	}

	c.JSON(http.StatusOK, gin.H{
		"count": total,
		"users": results,
	})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	subscribed, err := h.userService.IsSubscribed(c.Request.Context(), currentUserID(c), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user, subscribed))
}

func (h *UserHandler) Profile(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user, false))
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.relationService.Toggle(c.Request.Context(), currentUserID(c), id, service.RelationFollow, true)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newUserResponse(result.User, true))
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if _, err := h.relationService.Toggle(c.Request.Context(), currentUserID(c), id, service.RelationFollow, false); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	recipesLimit, _ := strconv.Atoi(c.Query("recipes_limit"))

	subs, err := h.userService.Subscriptions(c.Request.Context(), currentUserID(c), recipesLimit)
	if err != nil {
		respondError(c, err)
		return
	}

	results := make([]SubscriptionResponse, 0, len(subs))
	for i := range subs {
		recipes := make([]ShortRecipeResponse, 0, len(subs[i].Recipes))
		for j := range subs[i].Recipes {
			recipes = append(recipes, newShortRecipeResponse(&subs[i].Recipes[j]))
		}
		results = append(results, SubscriptionResponse{
			UserResponse: newUserResponse(&subs[i].User, true),
			Recipes:      recipes,
			RecipesCount: subs[i].RecipesCount,
		})
	}

	c.JSON(http.StatusOK, gin.H{"subscriptions": results})
}
