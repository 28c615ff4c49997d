// internal/chat/client.go

package chat

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024 // 64KB
)

// Client represents one websocket connection
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	userID  string
	service Service
	limiter *RateLimiter

	// Live conversation subscriptions, matchID -> cancel
	subsMux sync.Mutex
	subs    map[string]func()

	closeOnce sync.Once
}

// NewClient creates a new websocket client
func NewClient(hub *Hub, conn *websocket.Conn, userID string, service Service) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, 256),
		userID:  userID,
		service: service,
		limiter: NewRateLimiter(30, time.Minute),
		subs:    make(map[string]func()),
	}
}

// Start launches the read and write pumps
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.cancelSubscriptions()
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		c.processMessage(message)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) processMessage(data []byte) {
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("Error unmarshaling message: %v", err)
		return
	}

	var payload WSChatPayload
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			c.sendError("invalid payload")
			return
		}
	}

	ctx := context.Background()

	switch msg.Type {
	case WSTypeMessage:
		c.handleSend(ctx, payload)

	case WSTypeSubscribe:
		c.handleSubscribe(ctx, payload.MatchID)

	case WSTypeUnsubscribe:
		c.unsubscribe(payload.MatchID)

	default:
		log.Printf("Unknown message type: %s", msg.Type)
	}
}

func (c *Client) handleSend(ctx context.Context, payload WSChatPayload) {
	if !c.limiter.Allow(c.userID) {
		c.sendError("rate limit exceeded")
		return
	}

	message, err := c.service.SendMessage(ctx, c.userID, payload.MatchID, payload.Text)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	if message == nil {
		return // blank text, nothing to do
	}

	c.hub.SendToUsers(message.MatchUsers, newWSMessage(WSTypeMessage, message))
}

// handleSubscribe streams the conversation to this client until it
// unsubscribes or disconnects
func (c *Client) handleSubscribe(ctx context.Context, matchID string) {
	c.subsMux.Lock()
	if _, exists := c.subs[matchID]; exists {
		c.subsMux.Unlock()
		return
	}
	c.subsMux.Unlock()

	cancel, err := c.service.SubscribeMessages(ctx, c.userID, matchID, func(messages []*Message) {
		envelope := newWSMessage(WSTypeMessage, map[string]interface{}{
			"matchId":  matchID,
			"messages": messages,
		})
		data, err := json.Marshal(envelope)
		if err != nil {
			return
		}
		select {
		case c.send <- data:
		default:
		}
	})
	if err != nil {
		c.sendError(err.Error())
		return
	}

	c.subsMux.Lock()
	c.subs[matchID] = cancel
	c.subsMux.Unlock()
}

func (c *Client) unsubscribe(matchID string) {
	c.subsMux.Lock()
	defer c.subsMux.Unlock()

	if cancel, exists := c.subs[matchID]; exists {
		cancel()
		delete(c.subs, matchID)
	}
}

func (c *Client) sendError(message string) {
	envelope := newWSMessage(WSTypeError, map[string]string{"message": message})
	data, err := json.Marshal(envelope)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (c *Client) cancelSubscriptions() {
	c.subsMux.Lock()
	defer c.subsMux.Unlock()

	for matchID, cancel := range c.subs {
		cancel()
		delete(c.subs, matchID)
	}
}

// Close shuts the outbound channel exactly once
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}
