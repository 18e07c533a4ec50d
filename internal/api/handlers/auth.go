package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/jmoiron/sqlx"
	"github.com/pinhall/backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

var validUsername = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)
var validPIN = regexp.MustCompile(`^[0-9]{4,6}$`)

// Register creates a player with a username and a bcrypt-hashed PIN.
func Register(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Username string `json:"username" binding:"required"`
			PIN      string `json:"pin" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and pin required"})
			return
		}

		username := strings.TrimSpace(req.Username)
		if !validUsername.MatchString(username) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username must be 3-32 letters, digits or underscores"})
			return
		}
		if !validPIN.MatchString(req.PIN) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "pin must be 4-6 digits"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.PIN), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Failed to hash PIN: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		var id int
		err = db.QueryRow(`
			INSERT INTO players (username, pin_hash, created_at, is_active)
			VALUES ($1, $2, NOW(), true) RETURNING id`,
			username, string(hash),
		).Scan(&id)
		if err != nil {
			// Unique violation is the common failure here.
			c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"id": id, "username": username})
	}
}

// Login validates the username/PIN pair and issues a JWT.
func Login(db *sqlx.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Username string `json:"username" binding:"required"`
			PIN      string `json:"pin" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and pin required"})
			return
		}

		var player struct {
			ID       int    `db:"id"`
			Username string `db:"username"`
			PINHash  string `db:"pin_hash"`
			IsActive bool   `db:"is_active"`
		}
		err := db.Get(&player, `SELECT id, username, pin_hash, is_active FROM players WHERE username=$1`, strings.TrimSpace(req.Username))
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		} else if err != nil {
			log.Printf("Login query failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		if !player.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "account disabled"})
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(player.PINHash), []byte(req.PIN)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		exp := time.Now().Add(time.Duration(cfg.SessionTimeoutMin) * time.Minute)
		claims := jwt.MapClaims{
			"player_id": player.ID,
			"username":  player.Username,
			"exp":       exp.Unix(),
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString([]byte(cfg.JWTSecret))
		if err != nil {
			log.Printf("Failed to sign token: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		if _, err := db.Exec(`UPDATE players SET last_active = NOW() WHERE id = $1`, player.ID); err != nil {
			log.Printf("[DB] Failed to update last_active for player %d: %v", player.ID, err)
		}

		c.JSON(http.StatusOK, gin.H{
			"token":  signed,
			"player": gin.H{"id": player.ID, "username": player.Username},
		})
	}
}

// AuthMiddleware validates bearer JWT and sets player_id and username in context
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		token := strings.TrimPrefix(auth, "Bearer ")

		parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !parsed.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, ok := parsed.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		playerIDf, ok := claims["player_id"].(float64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("player_id", int(playerIDf))
		if username, ok := claims["username"].(string); ok {
			c.Set("username", username)
		}
		c.Next()
	}
}

// GetMe returns the authenticated player's profile
func GetMe(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		pidI, ok := c.Get("player_id")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		pid := pidI.(int)

		var player struct {
			ID               int       `db:"id" json:"id"`
			Username         string    `db:"username" json:"username"`
			CreatedAt        time.Time `db:"created_at" json:"created_at"`
			TotalGamesPlayed int       `db:"total_games_played" json:"total_games_played"`
		}
		if err := db.Get(&player, `SELECT id, username, created_at, total_games_played FROM players WHERE id=$1`, pid); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "player not found"})
			return
		}

		c.JSON(http.StatusOK, player)
	}
}
