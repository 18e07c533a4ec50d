package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/pinhall/backend/internal/config"
	"github.com/pinhall/backend/internal/game"
	"github.com/redis/go-redis/v9"
)

// CreateGame creates a pinball session for the authenticated player and
// returns the tokens the client needs to open the WebSocket.
func CreateGame(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		pidI, ok := c.Get("player_id")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		pid := pidI.(int)
		username, _ := c.Get("username")
		name, _ := username.(string)

		s, err := game.Manager.CreateSession(pid, name)
		if err != nil {
			log.Printf("[API] CreateGame failed for player %d: %v", pid, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create game"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"session_id":   s.ID,
			"game_token":   s.Token,
			"player_token": s.Player.PlayerToken,
			"expires_at":   s.ExpiresAt,
			"ws_path":      "/api/v1/game/" + s.Token + "/ws",
		})
	}
}

// GetGameState returns the session snapshot: the live one when the session is
// running, otherwise the last snapshot saved to Redis.
func GetGameState(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")
		if token == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "token required"})
			return
		}

		if s, err := game.Manager.GetSessionByToken(token); err == nil {
			c.JSON(http.StatusOK, s.Snapshot())
			return
		}

		if snapshot, err := game.Manager.LoadSnapshotFromRedis(token); err == nil {
			c.JSON(http.StatusOK, snapshot)
			return
		}

		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
	}
}
