package websocket

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Handler is the page the hub mirrors to its browsers.
type Handler interface {
	// Mount is called when the first browser connects. It must not block or
	// broadcast.
	Mount()
	// Unmount is called when the last browser leaves.
	Unmount()
	// Snapshot returns the encoded state packet a new browser starts from.
	Snapshot() []byte
	Register(name string) error
	Delete(uid string) error
}

// Hub maintains the set of connected browsers and broadcasts state to them.
type Hub struct {
	handler Handler

	// Connected clients, keyed by their generated id.
	clients map[uuid.UUID]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Closed once Run has returned.
	done chan struct{}

	mu sync.RWMutex
}

func NewHub(handler Handler) *Hub {
	return &Hub{
		handler:    handler,
		clients:    make(map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			n := len(h.clients)
			for id, client := range h.clients {
				delete(h.clients, id)
				client.Conn.Close()
			}
			h.mu.Unlock()
			if n > 0 {
				h.handler.Unmount()
			}
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			first := len(h.clients) == 1
			if first {
				h.handler.Mount()
			}
			// Under the lock so no broadcast can overtake the snapshot.
			client.queue(h.handler.Snapshot())
			h.mu.Unlock()
			log.Printf("Client connected: %s", client.ID)

		case client := <-h.unregister:
			h.mu.Lock()
			_, ok := h.clients[client.ID]
			if ok {
				delete(h.clients, client.ID)
				close(client.send)
			}
			empty := ok && len(h.clients) == 0
			h.mu.Unlock()
			if ok {
				log.Printf("Client disconnected: %s", client.ID)
			}
			if empty {
				h.handler.Unmount()
			}
		}
	}
}

// Broadcast queues data for every connected client. A client whose buffer is
// full misses this packet; the next state packet supersedes it anyway.
func (h *Hub) Broadcast(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		client.queue(data)
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
