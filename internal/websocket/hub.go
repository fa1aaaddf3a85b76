package websocket

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	mu sync.Mutex

	// Registered clients.
	clients map[*Client]bool

	// Messages for global broadcast.
	Broadcast chan []byte

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// A map of post IDs to the set of clients subscribed to that post.
	subscriptions map[string]map[*Client]bool
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Broadcast:     make(chan []byte),
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		clients:       make(map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			log.Info().Int("total_clients", total).Msg("Client connected")
		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.removeSubscriptions(client)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
			h.mu.Unlock()
		case message := <-h.Broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
					h.removeSubscriptions(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Subscribe adds a client to the subscriber set of a post.
func (h *Hub) Subscribe(client *Client, postID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subscriptions[postID] == nil {
		h.subscriptions[postID] = make(map[*Client]bool)
	}
	h.subscriptions[postID][client] = true
}

// Unsubscribe removes a client from the subscriber set of a post.
func (h *Hub) Unsubscribe(client *Client, postID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.subscriptions[postID]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.subscriptions, postID)
		}
	}
}

// BroadcastTo sends a message to all clients subscribed to a specific post.
func (h *Hub) BroadcastTo(postID string, message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.subscriptions[postID] {
		select {
		case client.Send <- message:
		default:
			close(client.Send)
			delete(h.clients, client)
			h.removeSubscriptions(client)
		}
	}
}

// removeSubscriptions drops a client from every post it follows.
// Callers must hold h.mu.
func (h *Hub) removeSubscriptions(client *Client) {
	for postID, subs := range h.subscriptions {
		if _, ok := subs[client]; ok {
			delete(subs, client)
			if len(subs) == 0 {
				delete(h.subscriptions, postID)
			}
		}
	}
}
