package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub fans attempt events out to admin monitor connections, keyed by
// attempt ID. Participants never connect here; the feed is read-only
// observation of a run in progress.
type Hub struct {
	mu       sync.RWMutex
	attempts map[uint]map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{
		attempts: make(map[uint]map[*websocket.Conn]bool),
	}
}

func (h *Hub) AddConnection(attemptID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.attempts[attemptID] == nil {
		h.attempts[attemptID] = make(map[*websocket.Conn]bool)
	}
	h.attempts[attemptID][conn] = true
	log.Printf("ws: monitor connected to attempt %d (total: %d)", attemptID, len(h.attempts[attemptID]))
}

func (h *Hub) RemoveConnection(attemptID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.attempts[attemptID]; ok {
		delete(conns, conn)
		conn.Close()
		if len(conns) == 0 {
			delete(h.attempts, attemptID)
		}
		log.Printf("ws: monitor disconnected from attempt %d", attemptID)
	}
}

// Broadcast sends an event to every monitor of the attempt, dropping
// connections whose write fails. It holds the write lock for the duration:
// pruning mutates the set, and a websocket connection allows only one
// concurrent writer.
func (h *Hub) Broadcast(attemptID uint, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("ws: marshal error: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.attempts[attemptID]
	if !ok {
		return
	}

	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("ws: write error: %v", err)
			conn.Close()
			delete(conns, conn)
		}
	}
	if len(conns) == 0 {
		delete(h.attempts, attemptID)
	}
}
