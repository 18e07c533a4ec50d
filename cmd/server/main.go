package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/pinhall/backend/internal/api"
	"github.com/pinhall/backend/internal/config"
	"github.com/pinhall/backend/internal/database"
	"github.com/pinhall/backend/internal/game"
	"github.com/pinhall/backend/internal/middleware"
	"github.com/pinhall/backend/internal/migrations"
	"github.com/pinhall/backend/internal/redis"
	"github.com/pinhall/backend/internal/ws"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations on start if requested
	if os.Getenv("MIGRATE_ON_START") == "true" {
		log.Println("↗ Running DB migrations on startup...")
		if err := migrations.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Initialize Redis
	rdb, err := redis.Connect(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer rdb.Close()

	// Initialize Game Manager with Redis and config
	game.InitializeManager(db, rdb, cfg)
	game.Manager.SetBroadcaster(ws.GameHub)

	// Wire Redis and start idle event subscriber in WS layer
	ws.SetRedisClient(rdb, cfg)
	ws.StartIdleEventSubscriber(context.Background())

	// Start idle worker (warning -> expiry) for idle detection
	game.StartIdleWorker(context.Background(), db, rdb, cfg)

	// Cancel sessions whose player never connects
	game.Manager.StartExpiryChecker(context.Background())

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.WebSocketCORSCheck(cfg))

	// Initialize API handlers
	api.SetupRoutes(router, db, rdb, cfg)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting Pinhall server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
