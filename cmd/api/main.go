package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ladlelabs/ladle/backend/config"
	"github.com/ladlelabs/ladle/backend/internal/database"
	"github.com/ladlelabs/ladle/backend/internal/server"
	"github.com/ladlelabs/ladle/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Redis unavailable, rate limiting disabled: %v", err)
		redisClient = nil
	}

	var imageService *service.ImageService
	if s3Cfg, err := config.NewS3Config(context.Background()); err != nil {
		log.Printf("S3 unavailable, image uploads disabled: %v", err)
	} else {
		imageService = service.NewImageService(s3Cfg)
	}

	srv := server.New(db, redisClient, imageService, cfg.JWTSecret)

	errChan := make(chan error, 1)
	go func() {
		log.Println("Starting server...")
		errChan <- srv.Start(cfg.ServerPort)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
