package models

import (
	"database/sql"
	"time"
)

// Player represents a registered user
type Player struct {
	ID               int          `db:"id" json:"id"`
	Username         string       `db:"username" json:"username"`
	PINHash          string       `db:"pin_hash" json:"-"`
	CreatedAt        time.Time    `db:"created_at" json:"created_at"`
	TotalGamesPlayed int          `db:"total_games_played" json:"total_games_played"`
	IsActive         bool         `db:"is_active" json:"is_active"`
	LastActive       sql.NullTime `db:"last_active" json:"last_active,omitempty"`
}

// GameSession represents one pinball run by a player
type GameSession struct {
	ID          int          `db:"id" json:"id"`
	GameToken   string       `db:"game_token" json:"game_token"`
	PlayerID    int          `db:"player_id" json:"player_id"`
	Status      string       `db:"status" json:"status"`
	BallsPlayed int          `db:"balls_played" json:"balls_played"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	StartedAt   sql.NullTime `db:"started_at" json:"started_at,omitempty"`
	CompletedAt sql.NullTime `db:"completed_at" json:"completed_at,omitempty"`
	ExpiryTime  time.Time    `db:"expiry_time" json:"expiry_time"`
}
