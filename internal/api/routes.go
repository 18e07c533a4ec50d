package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/pinhall/backend/internal/api/handlers"
	"github.com/pinhall/backend/internal/config"
	"github.com/redis/go-redis/v9"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *sqlx.DB, rdb *redis.Client, cfg *config.Config) {
	// No-cache middleware for development
	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] No-cache headers enabled for all routes")
	}

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)

		// Auth endpoints
		auth := v1.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db, cfg))
		}

		// Player profile
		v1.GET("/me", handlers.AuthMiddleware(cfg), handlers.GetMe(db))

		// Game endpoints
		game := v1.Group("/game")
		{
			game.POST("", handlers.AuthMiddleware(cfg), handlers.CreateGame(db, rdb, cfg))
			game.GET("/:token", handlers.GetGameState(db, rdb, cfg))
			game.GET("/:token/ws", handlers.HandleGameWebSocket(db, rdb, cfg))
		}
	}
}
