package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Game Settings
	GameExpiryMinutes      int
	SimulationFPS          int
	IdleWarningSeconds     int
	IdleExpireSeconds      int
	IdleWorkerPollInterval int

	// Security
	JWTSecret         string
	SessionTimeoutMin int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/pinhall?sslmode=disable"),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Game Settings
		GameExpiryMinutes:      getEnvInt("GAME_EXPIRY_MINUTES", 10),
		SimulationFPS:          getEnvInt("SIMULATION_FPS", 60),
		IdleWarningSeconds:     getEnvInt("IDLE_WARNING_SECONDS", 120),
		IdleExpireSeconds:      getEnvInt("IDLE_EXPIRE_SECONDS", 300),
		IdleWorkerPollInterval: getEnvInt("IDLE_WORKER_POLL_SECONDS", 5),

		// Security
		JWTSecret:         getEnv("JWT_SECRET", "change-me-in-production"),
		SessionTimeoutMin: getEnvInt("SESSION_TIMEOUT_MINUTES", 30),
	}
}

// Validate rejects settings the game loop cannot run with.
func (c *Config) Validate() error {
	if c.SimulationFPS <= 0 {
		return fmt.Errorf("SIMULATION_FPS must be positive, got %d", c.SimulationFPS)
	}
	if c.GameExpiryMinutes <= 0 {
		return fmt.Errorf("GAME_EXPIRY_MINUTES must be positive, got %d", c.GameExpiryMinutes)
	}
	if c.IdleExpireSeconds <= c.IdleWarningSeconds {
		return fmt.Errorf("IDLE_EXPIRE_SECONDS (%d) must exceed IDLE_WARNING_SECONDS (%d)",
			c.IdleExpireSeconds, c.IdleWarningSeconds)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
