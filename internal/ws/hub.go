package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// Envelope is the outbound wire frame: a message type plus an optional
// payload.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Hub maintains the set of active clients keyed by connection ID.
type Hub struct {
	clients map[string]*Client
	mu      sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
}

// remove deregisters a client and closes its send channel. Runs under the
// write lock so no Send can be enqueuing into the channel as it closes.
func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	if _, exists := h.clients[c.id]; exists {
		delete(h.clients, c.id)
		close(c.send)
	}
	h.mu.Unlock()
}

// Send marshals a typed message and enqueues it for a single connection.
// Delivery is best effort: an unknown connection or a full send buffer drops
// the message.
func (h *Hub) Send(connID, msgType string, data any) {
	frame, err := json.Marshal(Envelope{Type: msgType, Data: data})
	if err != nil {
		log.Printf("[WS] Error marshaling %s message: %v", msgType, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	client, exists := h.clients[connID]
	if !exists {
		return
	}
	select {
	case client.send <- frame:
	default:
		log.Printf("[WS] Send buffer full for connection %s, dropping %s", connID, msgType)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
