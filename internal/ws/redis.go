package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/pinhall/backend/internal/config"
	"github.com/redis/go-redis/v9"
)

var rdbClient *redis.Client
var wsConfig *config.Config

func SetRedisClient(r *redis.Client, cfg *config.Config) {
	rdbClient = r
	wsConfig = cfg
}

// StartIdleEventSubscriber subscribes to the game_events channel and relays
// idle warnings and expiries from the worker to the session's client.
func StartIdleEventSubscriber(ctx context.Context) {
	if rdbClient == nil {
		log.Println("[WS] Redis client not set; game event subscriber not started")
		return
	}

	pubsub := rdbClient.Subscribe(ctx, "game_events")
	ch := pubsub.Channel()
	go func() {
		log.Println("[WS] game_events subscriber started")
		for msg := range ch {
			var payload map[string]interface{}
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				log.Printf("[WS] invalid event payload: %v", err)
				continue
			}

			typeStr, _ := payload["type"].(string)
			sessionID, _ := payload["session_id"].(string)
			if sessionID == "" {
				sessionID, _ = payload["game_token"].(string)
			}

			log.Printf("[WS] event received: type=%s session=%s", typeStr, sessionID)

			switch typeStr {
			case "player_idle_warning":
				GameHub.BroadcastToSession(sessionID, map[string]interface{}{
					"type":              "player_idle_warning",
					"message":           payload["message"],
					"expire_at":         payload["expire_at"],
					"remaining_seconds": payload["remaining_seconds"],
				})

			case "session_expired":
				GameHub.BroadcastToSession(sessionID, map[string]interface{}{
					"type":    "session_expired",
					"message": payload["message"],
				})

			default:
				log.Printf("[WS] unknown event type: %s", typeStr)
			}
		}
	}()
}
