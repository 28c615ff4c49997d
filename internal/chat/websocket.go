// internal/chat/websocket.go

package chat

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Upgrader for WebSocket connections
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// In production, implement proper CORS checking
		return true
	},
}

func newWSMessage(msgType string, data interface{}) WSMessage {
	return WSMessage{
		Type:      msgType,
		Data:      mustMarshal(data),
		Timestamp: time.Now(),
	}
}

// mustMarshal marshals data to JSON, falls back to an empty object
func mustMarshal(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("Failed to marshal data: %v", err)
		return json.RawMessage(`{}`)
	}
	return data
}

// RateLimiter throttles per-key actions over a sliding window
type RateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
	}
}

// Allow checks if a request is allowed
func (r *RateLimiter) Allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()

	if requests, exists := r.requests[key]; exists {
		valid := requests[:0]
		for _, t := range requests {
			if now.Sub(t) < r.window {
				valid = append(valid, t)
			}
		}
		r.requests[key] = valid
	}

	if len(r.requests[key]) >= r.limit {
		return false
	}

	r.requests[key] = append(r.requests[key], now)
	return true
}
