// internal/chat/models.go

package chat

import (
	"encoding/json"
	"errors"
	"time"
)

// Errors returned by the chat package
var (
	ErrMatchNotFound  = errors.New("match not found")
	ErrNotParticipant = errors.New("user is not a participant of this match")
)

// Message is one entry in matches/{matchId}/messages
type Message struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	SenderID   string    `json:"senderId"`
	CreatedAt  time.Time `json:"createdAt"`
	MatchUsers []string  `json:"matchUsers"`
}

// MessageFromDoc decodes a message document
func MessageFromDoc(id string, data map[string]interface{}) *Message {
	return &Message{
		ID:         id,
		Text:       getString(data, "text"),
		SenderID:   getString(data, "senderId"),
		CreatedAt:  getTime(data, "createdAt"),
		MatchUsers: getStringSlice(data, "matchUsers"),
	}
}

// SendMessageRequest is the REST payload for sending a message
type SendMessageRequest struct {
	Text string `json:"text"`
}

// WebSocket message types
const (
	WSTypeMessage     = "message"
	WSTypeSubscribe   = "subscribe"
	WSTypeUnsubscribe = "unsubscribe"
	WSTypeError       = "error"
)

// WSMessage is the envelope for all websocket traffic
type WSMessage struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// WSChatPayload carries a chat action over the websocket
type WSChatPayload struct {
	MatchID string `json:"matchId"`
	Text    string `json:"text,omitempty"`
}

func getString(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func getTime(data map[string]interface{}, key string) time.Time {
	if v, ok := data[key].(time.Time); ok {
		return v
	}
	return time.Time{}
}

func getStringSlice(data map[string]interface{}, key string) []string {
	switch v := data[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
