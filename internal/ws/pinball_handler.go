package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/pinhall/backend/internal/game"
)

// Pinball-specific message data types
type ButtonData struct {
	Which   string `json:"which"` // "left" or "right"
	Pressed bool   `json:"pressed"`
}

// GameHub is the single hub for all sessions.
var GameHub *Hub

func init() {
	GameHub = NewHub()
	go runGameHub(GameHub)
}

// HandleWebSocket handles WebSocket connections for pinball sessions.
func HandleWebSocket(c *gin.Context) {
	gameToken := c.Query("token")
	playerToken := c.Query("pt")

	if gameToken == "" || playerToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token and pt required"})
		return
	}

	s, err := game.Manager.GetSessionByToken(gameToken)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	if s.Player.PlayerToken != playerToken {
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid player token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	client := &Client{
		conn:      conn,
		playerID:  s.Player.ID,
		sessionID: s.ID,
		gameToken: gameToken,
		send:      make(chan []byte, 256),
	}

	GameHub.register <- client

	go client.writePump()
	go client.readPump()
}

// runGameHub runs the hub loop for pinball sessions.
func runGameHub(h *Hub) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()

			if oldClient, exists := h.clients[client.playerID]; exists {
				log.Printf("[WS] Player %s reconnecting - closing old connection", client.playerID)
				if err := oldClient.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replaced by new connection"), time.Now().Add(5*time.Second)); err != nil {
					log.Printf("Error writing close control to old client %s: %v", oldClient.playerID, err)
				}
				oldClient.conn.Close()
				select {
				case <-oldClient.send:
				default:
					close(oldClient.send)
				}
				delete(h.clients, client.playerID)
				if room, exists := h.sessionRooms[oldClient.sessionID]; exists {
					delete(room, client.playerID)
				}
			}

			h.clients[client.playerID] = client
			if _, exists := h.sessionRooms[client.sessionID]; !exists {
				h.sessionRooms[client.sessionID] = make(map[string]*Client)
			}
			h.sessionRooms[client.sessionID][client.playerID] = client
			h.mu.Unlock()

			log.Printf("[WS] Player %s connected to session %s", client.playerID, client.sessionID)

			s, err := game.Manager.GetSessionByToken(client.gameToken)
			if err != nil {
				log.Printf("[WS] Session not found for token %s: %v", client.gameToken, err)
				continue
			}

			s.SetPlayerConnected(true)
			resetIdleTimers(client.gameToken, client.playerID)

			if s.Status == game.StatusWaiting {
				h.SendToPlayer(client.playerID, map[string]interface{}{
					"type":    "ready",
					"message": "Send launch to start the game",
				})
			} else {
				state := s.Snapshot()
				state["type"] = "game_state"
				h.SendToPlayer(client.playerID, state)
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if cur, ok := h.clients[client.playerID]; ok && cur == client {
				delete(h.clients, client.playerID)
				if room, exists := h.sessionRooms[client.sessionID]; exists {
					delete(room, client.playerID)
					if len(room) == 0 {
						delete(h.sessionRooms, client.sessionID)
					}
				}

				log.Printf("[WS] Player %s disconnected from session %s", client.playerID, client.sessionID)

				if s, err := game.Manager.GetSessionByToken(client.gameToken); err == nil {
					s.SetPlayerConnected(false)
				}

				select {
				case <-client.send:
				default:
					close(client.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// readPump reads messages for pinball sessions.
func (c *Client) readPump() {
	defer func() {
		GameHub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(65536)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error (unexpected) for player %s: %v", c.playerID, err)
			} else {
				log.Printf("WebSocket read error for player %s: %v", c.playerID, err)
			}
			break
		}

		resetIdleTimers(c.gameToken, c.playerID)

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		c.handleMessage(msg)
	}
}

// handleMessage processes incoming pinball session messages.
func (c *Client) handleMessage(msg WSMessage) {
	s, err := game.Manager.GetSessionByToken(c.gameToken)
	if err != nil {
		c.sendError("Session not found")
		return
	}

	switch msg.Type {
	case "button":
		var data ButtonData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid button data")
			return
		}
		which := game.Button(data.Which)
		if which != game.ButtonLeft && which != game.ButtonRight {
			c.sendError("Unknown button")
			return
		}
		s.QueueInput(game.InputEvent{Type: "button", Which: which, Pressed: data.Pressed})

	case "launch":
		if s.Status != game.StatusWaiting {
			c.sendError("Game already started")
			return
		}
		if err := game.Manager.StartSession(s); err != nil {
			c.sendError(err.Error())
			return
		}
		GameHub.BroadcastToSession(c.sessionID, map[string]interface{}{
			"type":    "game_starting",
			"message": "Game on!",
		})

	case "get_state":
		state := s.Snapshot()
		state["type"] = "game_state"
		d, _ := json.Marshal(state)
		c.send <- d

	case "quit":
		s.QueueInput(game.InputEvent{Type: "quit"})

	default:
		c.sendError("Unknown message type")
	}
}
