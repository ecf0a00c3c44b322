package websocket

import (
	"encoding/json"
	"sync"

	"parallax/internal/dto"
	"parallax/internal/pkg/logger"
)

// Hub fans session card-set snapshots out to websocket observers. The stream
// is purely observational; the editor client still drives the poll protocol.
type Hub struct {
	// Registered observers per session id (multiple viewers allowed).
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	logger logger.ILogger
}

func NewHub(log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		logger:     log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Observer registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.SessionID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.SessionID]) == 0 {
					delete(h.clients, client.SessionID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastSession pushes the current {cards, processing} snapshot to every
// observer of the session.
func (h *Hub) BroadcastSession(sessionID string, snapshot dto.FulfillResponse) {
	data, err := json.Marshal(map[string]interface{}{
		"type": "session_update",
		"data": snapshot,
	})
	if err != nil {
		return
	}

	h.mu.RLock()
	clients := h.clients[sessionID]
	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Observer send buffer full, dropping", map[string]interface{}{"session_id": sessionID})
		}
	}
	h.mu.RUnlock()
}
