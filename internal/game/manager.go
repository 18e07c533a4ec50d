package game

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pinhall/backend/internal/config"
	"github.com/redis/go-redis/v9"
)

// Manager is the package-level game manager, set once at startup.
var Manager *GameManager

// GameManager owns every live session, hands them to their loop goroutines,
// snapshots state to Redis, and records session rows in Postgres.
type GameManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session // session ID -> session
	byToken  map[string]*Session // game token -> session

	db          *sqlx.DB
	rdb         *redis.Client
	config      *config.Config
	broadcaster Broadcaster
}

// InitializeManager creates the global manager.
func InitializeManager(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) {
	Manager = NewGameManager(db, rdb, cfg)
	log.Println("[GAME] Manager initialized")
}

func NewGameManager(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) *GameManager {
	return &GameManager{
		sessions: make(map[string]*Session),
		byToken:  make(map[string]*Session),
		db:       db,
		rdb:      rdb,
		config:   cfg,
	}
}

// SetBroadcaster wires the transport in after the hub exists. Must be called
// before the first session starts.
func (gm *GameManager) SetBroadcaster(b Broadcaster) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.broadcaster = b
}

func (gm *GameManager) GetConfig() *config.Config {
	return gm.config
}

func generateToken(length int) string {
	b := make([]byte, length)
	rand.Read(b)
	return hex.EncodeToString(b)
}

func generateSessionID() string {
	return "pin_" + generateToken(8)
}

// CreateSession builds a new session for the player, records the DB row, and
// snapshots it to Redis. The session waits for its player to connect over
// the WebSocket before the loop starts.
func (gm *GameManager) CreateSession(dbPlayerID int, username string) (*Session, error) {
	id := generateSessionID()
	token := generateToken(16)
	playerToken := generateToken(16)

	player := &SessionPlayer{
		ID:          "p_" + generateToken(8),
		Username:    username,
		DBPlayerID:  dbPlayerID,
		PlayerToken: playerToken,
	}

	expiry := time.Duration(gm.config.GameExpiryMinutes) * time.Minute
	s, err := NewSession(id, token, player, gm.config.SimulationFPS, time.Now().UnixNano(), expiry)
	if err != nil {
		return nil, err
	}

	if gm.db != nil {
		var sessionID int
		err := gm.db.QueryRow(`
			INSERT INTO game_sessions (game_token, player_id, status, created_at, expiry_time)
			VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			token, dbPlayerID, string(StatusWaiting), s.CreatedAt, s.ExpiresAt,
		).Scan(&sessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to record session: %w", err)
		}
		s.DBSessionID = sessionID
	}

	gm.mu.Lock()
	gm.sessions[id] = s
	gm.byToken[token] = s
	gm.mu.Unlock()

	gm.saveSessionToRedis(s)
	log.Printf("[GAME] Created session %s for player %s", id, username)
	return s, nil
}

// GetSession returns a live session by ID.
func (gm *GameManager) GetSession(id string) (*Session, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	s, ok := gm.sessions[id]
	if !ok {
		return nil, errors.New("session not found")
	}
	return s, nil
}

// GetSessionByToken returns a live session by game token. Sessions are
// real-time and live in exactly one process; there is no cross-instance
// rehydration, only the Redis snapshot for read-side queries.
func (gm *GameManager) GetSessionByToken(token string) (*Session, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	s, ok := gm.byToken[token]
	if !ok {
		return nil, errors.New("session not found")
	}
	return s, nil
}

// StartSession marks the session in progress and launches its loop.
func (gm *GameManager) StartSession(s *Session) error {
	if err := s.Start(); err != nil {
		return err
	}

	if gm.db != nil && s.DBSessionID > 0 && s.StartedAt != nil {
		if _, err := gm.db.Exec(
			`UPDATE game_sessions SET status = $1, started_at = $2 WHERE id = $3`,
			string(StatusInProgress), *s.StartedAt, s.DBSessionID,
		); err != nil {
			log.Printf("[DB] Failed to mark session %d started: %v", s.DBSessionID, err)
		}
	}

	gm.saveSessionToRedis(s)

	gm.mu.RLock()
	b := gm.broadcaster
	gm.mu.RUnlock()

	go s.Run(b, gm.onSessionExit)
	log.Printf("[GAME] Session %s started", s.ID)
	return nil
}

// onSessionExit is the loop's guaranteed teardown: finalize the DB row,
// refresh the Redis snapshot one last time, and drop the session from the
// live maps.
func (gm *GameManager) onSessionExit(s *Session) {
	gm.saveFinalSession(s)
	gm.saveSessionToRedis(s)

	gm.mu.Lock()
	delete(gm.sessions, s.ID)
	delete(gm.byToken, s.Token)
	gm.mu.Unlock()

	gm.clearIdleTracking(s)
	log.Printf("[GAME] Session %s exited with status %s, score %d", s.ID, s.Status, s.Table().Score)
}

func (gm *GameManager) saveFinalSession(s *Session) {
	if gm.db == nil || s.DBSessionID == 0 {
		return
	}

	ballsPlayed := BallsPerGame - s.Table().BallsRemaining
	if _, err := gm.db.Exec(`
		UPDATE game_sessions SET status = $1, balls_played = $2, completed_at = $3 WHERE id = $4`,
		string(s.Status), ballsPlayed, s.CompletedAt, s.DBSessionID,
	); err != nil {
		log.Printf("[DB] Failed to finalize session %d: %v", s.DBSessionID, err)
		return
	}

	if s.Status == StatusCompleted && s.Player.DBPlayerID > 0 {
		if _, err := gm.db.Exec(`
			UPDATE players SET total_games_played = total_games_played + 1, last_active = NOW() WHERE id = $1`,
			s.Player.DBPlayerID,
		); err != nil {
			log.Printf("[DB] Failed to update player %d stats: %v", s.Player.DBPlayerID, err)
		}
	}
}

// saveSessionToRedis snapshots the read-side view of the session.
func (gm *GameManager) saveSessionToRedis(s *Session) {
	if gm.rdb == nil {
		return
	}

	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		log.Printf("[REDIS] Failed to marshal session %s: %v", s.ID, err)
		return
	}

	ctx := context.Background()
	ttl := time.Duration(gm.config.GameExpiryMinutes*2) * time.Minute
	if err := gm.rdb.Set(ctx, "pinball:game:"+s.Token, data, ttl).Err(); err != nil {
		log.Printf("[REDIS] Failed to save session %s: %v", s.ID, err)
	}
}

// LoadSnapshotFromRedis reads the last saved snapshot for a token. Used by
// the HTTP state endpoint after the live session is gone.
func (gm *GameManager) LoadSnapshotFromRedis(token string) (map[string]interface{}, error) {
	if gm.rdb == nil {
		return nil, errors.New("redis not configured")
	}

	data, err := gm.rdb.Get(context.Background(), "pinball:game:"+token).Result()
	if err != nil {
		return nil, err
	}

	var snapshot map[string]interface{}
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (gm *GameManager) clearIdleTracking(s *Session) {
	if gm.rdb == nil {
		return
	}
	ctx := context.Background()
	member := fmt.Sprintf("g:%s:p:%s", s.Token, s.Player.ID)
	gm.rdb.ZRem(ctx, "pinball:idle_warning", member)
	gm.rdb.ZRem(ctx, "pinball:idle_expire", member)
	gm.rdb.Del(ctx, "pinball:last_active:"+member)
}

// GetActiveSessionCount returns the number of live sessions.
func (gm *GameManager) GetActiveSessionCount() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.sessions)
}

// StartExpiryChecker cancels sessions whose player never showed up before
// the expiry deadline.
func (gm *GameManager) StartExpiryChecker(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				gm.expireStaleSessions()
			}
		}
	}()
	log.Println("[GAME] Expiry checker started")
}

func (gm *GameManager) expireStaleSessions() {
	now := time.Now()

	gm.mu.RLock()
	var stale []*Session
	for _, s := range gm.sessions {
		s.mu.RLock()
		expired := s.Status == StatusWaiting && now.After(s.ExpiresAt)
		s.mu.RUnlock()
		if expired {
			stale = append(stale, s)
		}
	}
	gm.mu.RUnlock()

	for _, s := range stale {
		log.Printf("[GAME] Session %s expired before start", s.ID)
		s.finish(StatusCancelled)
		gm.onSessionExit(s)
	}
}
