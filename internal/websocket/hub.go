// Package websocket pushes dashboard snapshots to connected clients. The
// engine recomputes after every dataset replacement and the resulting
// snapshot is broadcast here; clients never send anything meaningful back.
package websocket

import (
	"sync"

	"github.com/rs/zerolog"
)

// Hub maintains the set of active clients and broadcasts snapshots to them
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Outbound snapshots to fan out
	broadcast chan []byte

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex to protect clients map
	mu sync.RWMutex

	logger zerolog.Logger
}

// NewHub creates a new Hub
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     logger,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info().
				Str("client_id", client.id).
				Int("total_clients", total).
				Msg("dashboard client connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info().
				Str("client_id", client.id).
				Int("total_clients", total).
				Msg("dashboard client disconnected")

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Client's send buffer is full, drop it
					close(client.send)
					delete(h.clients, client)
					h.logger.Warn().
						Str("client_id", client.id).
						Msg("client send buffer full, closing connection")
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues a message for delivery to every connected client.
// It never blocks the caller; if the hub is saturated the message is dropped.
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn().Msg("broadcast channel full, dropping snapshot")
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
