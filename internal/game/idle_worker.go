package game

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pinhall/backend/internal/config"
	"github.com/redis/go-redis/v9"
)

// StartIdleWorker starts a background worker that warns and then cancels
// sessions whose player has gone silent, using Redis sorted sets as the
// schedule. The transport layer re-arms the timers on every client message.
func StartIdleWorker(ctx context.Context, db *sqlx.DB, rdb *redis.Client, cfg *config.Config) {
	if rdb == nil || cfg == nil {
		log.Println("[IDLE] Redis or config missing; idle worker not started")
		return
	}

	log.Println("[IDLE] Idle worker started")
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.IdleWorkerPollInterval) * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("[IDLE] Idle worker stopping")
				return
			case <-ticker.C:
				processIdleWarnings(ctx, rdb, cfg)
				processIdleExpiries(ctx, rdb, cfg)
			}
		}
	}()
}

func processIdleWarnings(ctx context.Context, rdb *redis.Client, cfg *config.Config) {
	now := time.Now().Unix()

	members, err := rdb.ZRangeByScore(ctx, "pinball:idle_warning", &redis.ZRangeBy{Min: "-inf", Max: fmt.Sprintf("%d", now)}).Result()
	if err != nil {
		log.Printf("[IDLE] Failed to fetch idle warnings: %v", err)
		return
	}

	for _, m := range members {
		// ZRem first so only one worker instance acts on the member.
		if removed, _ := rdb.ZRem(ctx, "pinball:idle_warning", m).Result(); removed == 0 {
			continue
		}

		last, _ := rdb.Get(ctx, "pinball:last_active:"+m).Result()
		lastTs, _ := strconv.ParseInt(last, 10, 64)
		if time.Now().Unix()-lastTs < int64(cfg.IdleWarningSeconds) {
			continue
		}

		gameToken, playerID := parseIdleMember(m)
		if gameToken == "" || playerID == "" {
			continue
		}

		s, err := Manager.GetSessionByToken(gameToken)
		if err != nil || s.Status != StatusInProgress {
			continue
		}

		expireAt := time.Unix(lastTs, 0).Add(time.Duration(cfg.IdleExpireSeconds) * time.Second)
		payload := map[string]interface{}{
			"type":              "player_idle_warning",
			"game_token":        gameToken,
			"session_id":        s.ID,
			"player":            playerID,
			"expire_at":         expireAt.Format(time.RFC3339),
			"remaining_seconds": int(time.Until(expireAt).Seconds()),
			"message":           "No input for a while; session will end soon.",
		}
		b, _ := json.Marshal(payload)
		if n, err := rdb.Publish(ctx, "game_events", b).Result(); err != nil {
			log.Printf("[IDLE] publish warning failed: game=%s err=%v", gameToken, err)
		} else {
			log.Printf("[IDLE] published warning: game=%s subscribers=%d", gameToken, n)
		}
	}
}

func processIdleExpiries(ctx context.Context, rdb *redis.Client, cfg *config.Config) {
	now := time.Now().Unix()

	members, err := rdb.ZRangeByScore(ctx, "pinball:idle_expire", &redis.ZRangeBy{Min: "-inf", Max: fmt.Sprintf("%d", now)}).Result()
	if err != nil {
		log.Printf("[IDLE] Failed to fetch idle expiries: %v", err)
		return
	}

	for _, m := range members {
		if removed, _ := rdb.ZRem(ctx, "pinball:idle_expire", m).Result(); removed == 0 {
			continue
		}

		last, _ := rdb.Get(ctx, "pinball:last_active:"+m).Result()
		lastTs, _ := strconv.ParseInt(last, 10, 64)
		if time.Now().Unix()-lastTs < int64(cfg.IdleExpireSeconds) {
			continue
		}

		gameToken, playerID := parseIdleMember(m)
		if gameToken == "" || playerID == "" {
			continue
		}

		s, err := Manager.GetSessionByToken(gameToken)
		if err != nil || s.Status != StatusInProgress {
			continue
		}

		log.Printf("[IDLE] Ending session %s due to inactivity", s.ID)
		s.RequestQuit("idle timeout")

		payload := map[string]interface{}{
			"type":       "session_expired",
			"game_token": gameToken,
			"session_id": s.ID,
			"player":     playerID,
			"message":    "Session ended due to inactivity",
		}
		b, _ := json.Marshal(payload)
		if _, err := rdb.Publish(ctx, "game_events", b).Result(); err != nil {
			log.Printf("[IDLE] publish expiry failed: game=%s err=%v", gameToken, err)
		}
	}
}

// parseIdleMember expects member format g:<gameToken>:p:<playerID>.
func parseIdleMember(m string) (string, string) {
	parts := strings.Split(m, ":")
	if len(parts) >= 4 && parts[0] == "g" && parts[2] == "p" {
		return parts[1], parts[3]
	}
	return "", ""
}
