package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/pinhall/backend/internal/config"
	"github.com/pinhall/backend/internal/database"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	username := os.Getenv("SEED_USERNAME")
	if username == "" {
		username = "demo"
		log.Printf("Using default username: %s", username)
	}

	pin := os.Getenv("SEED_PIN")
	if pin == "" {
		pin = "1234"
		log.Printf("WARNING: Using default PIN. Set SEED_PIN env var in production!")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash PIN: %v", err)
	}

	_, err = db.Exec(`
		INSERT INTO players (username, pin_hash, created_at, is_active)
		VALUES ($1, $2, NOW(), true)
		ON CONFLICT (username) DO UPDATE SET pin_hash = EXCLUDED.pin_hash`,
		username, string(hash))
	if err != nil {
		log.Fatalf("Failed to seed player: %v", err)
	}

	log.Printf("✓ Player %q created/updated successfully", username)
}
