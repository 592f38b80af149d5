package server

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ladlelabs/ladle/backend/internal/api"
	"github.com/ladlelabs/ladle/backend/internal/router"
	"github.com/ladlelabs/ladle/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	engine *gin.Engine
	http   *http.Server
	db     *gorm.DB
}

// New wires services, handlers and routes into a runnable server. The
// image service may be nil when S3 is not configured; recipe image
// uploads are then rejected.
func New(db *gorm.DB, redisClient *redis.Client, imageService *service.ImageService, jwtSecret string) *Server {
	authService := service.NewAuthService(db, jwtSecret)
	userService := service.NewUserService(db)
	recipeService := service.NewRecipeService(db)
	relationService := service.NewRelationService(db)
	shoppingService := service.NewShoppingListService(db)
	tagService := service.NewTagService(db)
	ingredientService := service.NewIngredientService(db)

	engine := router.SetupRouter(
		api.NewAuthHandler(authService),
		api.NewUserHandler(userService, relationService, authService),
		api.NewRecipeHandler(recipeService, relationService, shoppingService, userService, imageService, authService),
		api.NewTagHandler(tagService),
		api.NewIngredientHandler(ingredientService),
		redisClient,
	)

	return &Server{
		engine: engine,
		db:     db,
	}
}

// Start starts the server and blocks until it stops.
func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.engine,
	}

	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}
