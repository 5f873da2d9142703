package feed

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// OutcomeEvent is what connected ops clients see for every processed event.
type OutcomeEvent struct {
	Type        string    `json:"type"`
	ChallengeID string    `json:"challengeId"`
	Topic       string    `json:"topic"`
	Outcome     string    `json:"outcome"`
	Error       string    `json:"error,omitempty"`
	Time        time.Time `json:"time"`
}

// Hub fans reconciliation outcomes out to websocket clients. Clients are
// listen-only; a failed write drops the connection.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]bool)}
}

func (h *Hub) Add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
	log.Printf("feed client connected, %d total", len(h.clients))
}

func (h *Hub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
}

func (h *Hub) Broadcast(event OutcomeEvent) {
	if event.Type == "" {
		event.Type = "sync.outcome"
	}
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}

	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(event); err != nil {
			log.Printf("dropping feed client after write error: %v", err)
			h.Remove(conn)
		}
	}
}
