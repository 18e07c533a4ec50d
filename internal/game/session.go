package game

import (
	"errors"
	"log"
	"sync"
	"time"
)

// InputEvent is one input from the player's client, drained by the loop at
// the top of each tick.
type InputEvent struct {
	Type    string `json:"type"` // "button", "quit"
	Which   Button `json:"which,omitempty"`
	Pressed bool   `json:"pressed,omitempty"`
}

// SessionPlayer is the single player attached to a session.
type SessionPlayer struct {
	ID             string     `json:"id"`
	Username       string     `json:"username"`
	DBPlayerID     int        `json:"db_player_id,omitempty"`
	PlayerToken    string     `json:"-"`
	Connected      bool       `json:"connected"`
	DisconnectedAt *time.Time `json:"-"`
}

// Session is one player's pinball run: the owned table, the input queue the
// transport feeds, and lifecycle bookkeeping. The simulation goroutine is
// the only mutator of the table; everything else goes through the input
// queue or the mutex-guarded lifecycle fields.
type Session struct {
	ID     string         `json:"id"`
	Token  string         `json:"token"`
	Player *SessionPlayer `json:"player"`

	Status       GameStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	ExpiresAt    time.Time  `json:"expires_at"`
	LastActivity time.Time  `json:"last_activity"`
	DBSessionID  int        `json:"db_session_id,omitempty"`

	table  *Table
	tick   uint64
	inputs chan InputEvent
	quit   chan struct{}

	quitOnce sync.Once
	mu       sync.RWMutex
}

// NewSession creates a session with a freshly built standard table. The RNG
// seed fixes the launch-speed sequence, which keeps replays and tests
// deterministic.
func NewSession(id, token string, player *SessionPlayer, fps int, seed int64, expiry time.Duration) (*Session, error) {
	table, err := NewStandardTable(fps, seed)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Session{
		ID:           id,
		Token:        token,
		Player:       player,
		Status:       StatusWaiting,
		CreatedAt:    now,
		ExpiresAt:    now.Add(expiry),
		LastActivity: now,
		table:        table,
		inputs:       make(chan InputEvent, 64),
		quit:         make(chan struct{}),
	}, nil
}

// QueueInput enqueues an input event for the next tick. Events beyond the
// queue capacity are dropped; a full queue means the loop is stalled and a
// stale flipper press is worthless anyway.
func (s *Session) QueueInput(ev InputEvent) {
	select {
	case s.inputs <- ev:
	default:
		log.Printf("[GAME] session %s input queue full, dropping %s", s.ID, ev.Type)
	}
	s.mu.Lock()
	s.LastActivity = time.Now()
	s.mu.Unlock()
}

// RequestQuit asks the loop to stop. Safe to call from any goroutine and
// more than once.
func (s *Session) RequestQuit(reason string) {
	s.quitOnce.Do(func() {
		log.Printf("[GAME] session %s quit requested: %s", s.ID, reason)
		close(s.quit)
	})
}

// Step applies the given input events, advances the table one tick, and
// returns the rendered frame. This is the deterministic core entry point:
// tests drive it directly with no transport or clock attached.
func (s *Session) Step(events []InputEvent) *Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ev := range events {
		switch ev.Type {
		case "button":
			s.table.HandleButton(ev.Which, ev.Pressed)
		case "quit":
			s.quitOnce.Do(func() { close(s.quit) })
		}
	}

	s.table.Simulate()
	s.tick++
	return BuildFrame(s.table, s.tick)
}

// Table exposes the owned table for state snapshots and tests. The caller
// must not mutate it while the loop is running.
func (s *Session) Table() *Table {
	return s.table
}

// Start transitions the session into play.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Status != StatusWaiting {
		return errors.New("session already started")
	}
	now := time.Now()
	s.Status = StatusInProgress
	s.StartedAt = &now
	s.LastActivity = now
	return nil
}

// finish records the terminal status. Idempotent: the first terminal status
// wins.
func (s *Session) finish(status GameStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Status == StatusCompleted || s.Status == StatusCancelled {
		return
	}
	s.Status = status
	now := time.Now()
	s.CompletedAt = &now
}

// SetPlayerConnected flips the player's connection flag.
func (s *Session) SetPlayerConnected(connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Player.Connected = connected
	if connected {
		s.Player.DisconnectedAt = nil
	} else {
		now := time.Now()
		s.Player.DisconnectedAt = &now
	}
}

// Snapshot returns the session state visible to the HTTP API and Redis.
func (s *Session) Snapshot() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"session_id":      s.ID,
		"token":           s.Token,
		"status":          s.Status,
		"player":          s.Player.Username,
		"connected":       s.Player.Connected,
		"score":           s.table.Score,
		"balls_remaining": s.table.BallsRemaining,
		"multiball_in":    MultiballScore - s.table.Multiball,
		"game_over":       s.table.GameOver,
		"created_at":      s.CreatedAt,
		"started_at":      s.StartedAt,
		"completed_at":    s.CompletedAt,
	}
}

// drainInputs collects every queued input without blocking.
func (s *Session) drainInputs() []InputEvent {
	var events []InputEvent
	for {
		select {
		case ev := <-s.inputs:
			events = append(events, ev)
		default:
			return events
		}
	}
}
