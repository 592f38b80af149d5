package router

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/ladlelabs/ladle/backend/internal/api"
	"github.com/ladlelabs/ladle/backend/internal/middleware"
)

// SetupRouter configures the application routes. The redis client is
// optional; without it mutating routes run without rate limiting.
func SetupRouter(
	authHandler *api.AuthHandler,
	userHandler *api.UserHandler,
	recipeHandler *api.RecipeHandler,
	tagHandler *api.TagHandler,
	ingredientHandler *api.IngredientHandler,
	redisClient *redis.Client,
) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORS())

	v1 := router.Group("/api/v1")

	if redisClient != nil {
		limiter := middleware.NewMutationRateLimiter(redisClient)
		v1.Use(rateLimitMutations(limiter))
	}

	authHandler.RegisterRoutes(v1)
	userHandler.RegisterRoutes(v1)
	recipeHandler.RegisterRoutes(v1)
	tagHandler.RegisterRoutes(v1)
	ingredientHandler.RegisterRoutes(v1)

	return router
}

// rateLimitMutations applies the limiter to write requests only.
func rateLimitMutations(limiter *middleware.RateLimiter) gin.HandlerFunc {
	limit := limiter.RateLimitMiddleware()
	return func(c *gin.Context) {
		switch c.Request.Method {
		case "GET", "HEAD", "OPTIONS":
			c.Next()
		default:
			limit(c)
		}
	}
}
