// internal/chat/hub.go

package chat

import (
	"context"
	"encoding/json"
	"log"
	"sync"
)

// Hub maintains active websocket connections
type Hub struct {
	// Registered clients, one connection per user
	clients    map[string]*Client
	clientsMux sync.RWMutex

	// Register/unregister clients
	register   chan *Client
	unregister chan *Client

	// Outbound fan-out
	broadcast chan BroadcastMessage

	service Service

	// Context for graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc

	wg sync.WaitGroup
}

// BroadcastMessage targets a set of users with one envelope
type BroadcastMessage struct {
	UserIDs []string
	Message WSMessage
}

// NewHub creates a new websocket hub
func NewHub(service Service) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan BroadcastMessage, 256),
		service:    service,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run processes hub events until Shutdown is called
func (h *Hub) Run() {
	h.wg.Add(1)
	defer h.wg.Done()
	defer h.cleanup()

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case <-h.ctx.Done():
			return
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	// Remove old connection for the same user
	if oldClient, exists := h.clients[client.userID]; exists {
		oldClient.Close()
	}

	h.clients[client.userID] = client
	log.Printf("User %s connected. Total clients: %d", client.userID, len(h.clients))
}

func (h *Hub) unregisterClient(client *Client) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	if current, exists := h.clients[client.userID]; exists && current == client {
		client.Close()
		delete(h.clients, client.userID)
		log.Printf("User %s disconnected. Total clients: %d", client.userID, len(h.clients))
	}
}

func (h *Hub) broadcastMessage(msg BroadcastMessage) {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()

	data, err := json.Marshal(msg.Message)
	if err != nil {
		log.Printf("Error marshalling broadcast: %v", err)
		return
	}

	for _, userID := range msg.UserIDs {
		if client, exists := h.clients[userID]; exists {
			select {
			case client.send <- data:
			default:
				// Unregister if channel is blocked
				go func(c *Client) { h.unregister <- c }(client)
			}
		}
	}
}

// SendToUsers queues an envelope for delivery to the given users
func (h *Hub) SendToUsers(userIDs []string, message WSMessage) {
	select {
	case h.broadcast <- BroadcastMessage{UserIDs: userIDs, Message: message}:
	case <-h.ctx.Done():
	}
}

// GetActiveConnections returns the current connection count
func (h *Hub) GetActiveConnections() int {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()
	return len(h.clients)
}

// Shutdown stops the hub and closes every connection
func (h *Hub) Shutdown() {
	h.cancel()
	h.wg.Wait()
}

func (h *Hub) cleanup() {
	h.clientsMux.Lock()
	for _, client := range h.clients {
		client.Close()
	}
	h.clients = make(map[string]*Client)
	h.clientsMux.Unlock()
}
