package ws_session

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

type MessageType string

const (
	SessionOver  MessageType = "SESSION_OVER"
	MatchFound   MessageType = "MATCH_FOUND"
	VoteProgress MessageType = "VOTE_PROGRESS"
)

type Message struct {
	Type      MessageType            `json:"type"`
	SessionID int64                  `json:"session_id"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

type Client struct {
	Hub       *Hub
	Conn      *websocket.Conn
	Send      chan []byte
	SessionID int64
}

// Hub fans session events out to every client watching that session.
type Hub struct {
	mu sync.RWMutex

	// Client sets per watched session
	sessions map[int64]map[*Client]bool

	logger *slog.Logger
}

func New(logger *slog.Logger) *Hub {
	return &Hub{
		sessions: make(map[int64]map[*Client]bool),
		logger:   logger,
	}
}

func (h *Hub) RegisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.sessions[client.SessionID]; !ok {
		h.sessions[client.SessionID] = make(map[*Client]bool)
	}
	h.sessions[client.SessionID][client] = true

	h.logger.Info("client registered", "session_id", client.SessionID)
}

func (h *Hub) RemoveClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if session, ok := h.sessions[client.SessionID]; ok {
		delete(session, client)
		if len(session) == 0 {
			delete(h.sessions, client.SessionID)
		}
	}
	h.logger.Info("client unregistered", "session_id", client.SessionID)
}

func (h *Hub) BroadcastToSession(sessionID int64, message Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	messageBytes, _ := json.Marshal(message)

	if clients, ok := h.sessions[sessionID]; ok {
		for client := range clients {
			select {
			case client.Send <- messageBytes:
			default:
				close(client.Send)
				delete(h.sessions[sessionID], client)
			}
		}
	}
}

func (h *Hub) NotifySessionOver(sessionID int64, reason string) {
	h.BroadcastToSession(sessionID, Message{
		Type:      SessionOver,
		SessionID: sessionID,
		Data: map[string]interface{}{
			"reason": reason,
		},
	})
}

func (h *Hub) NotifyMatchFound(sessionID int64, source string, nativeID string) {
	h.BroadcastToSession(sessionID, Message{
		Type:      MatchFound,
		SessionID: sessionID,
		Data: map[string]interface{}{
			"source":    source,
			"native_id": nativeID,
		},
	})
}

func (h *Hub) NotifyVoteProgress(sessionID int64, userID int64, voteCount int) {
	h.BroadcastToSession(sessionID, Message{
		Type:      VoteProgress,
		SessionID: sessionID,
		Data: map[string]interface{}{
			"user_id":    userID,
			"vote_count": voteCount,
		},
	})
}

func (h *Hub) StartClientReading(client *Client) {
	defer func() {
		h.RemoveClient(client)
		client.Conn.Close()
	}()

	for {
		_, _, err := client.Conn.ReadMessage()
		if err != nil {
			break
		}
	}
}

func (h *Hub) StartClientWriting(client *Client) {
	defer client.Conn.Close()

	for message := range client.Send {
		err := client.Conn.WriteMessage(websocket.TextMessage, message)
		if err != nil {
			break
		}
	}
}
