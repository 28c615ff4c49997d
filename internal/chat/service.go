// internal/chat/service.go

package chat

import (
	"context"
	"strings"

	"github.com/workswipe/workswipe-backend/internal/store"
)

// Service defines the chat business logic interface
type Service interface {
	// SendMessage appends a message to a match conversation and refreshes
	// the match's lastMessage summary. Blank text is a silent no-op and
	// returns a nil message.
	SendMessage(ctx context.Context, uid, matchID, text string) (*Message, error)

	ListMessages(ctx context.Context, uid, matchID string) ([]*Message, error)
	SubscribeMessages(ctx context.Context, uid, matchID string, fn func([]*Message)) (func(), error)
}

type service struct {
	repo Repository
}

// NewService creates a new chat service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) SendMessage(ctx context.Context, uid, matchID, text string) (*Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	users, err := s.participants(ctx, uid, matchID)
	if err != nil {
		return nil, err
	}

	doc := map[string]interface{}{
		"text":       text,
		"senderId":   uid,
		"createdAt":  store.ServerTimestamp,
		"matchUsers": users,
	}
	id, err := s.repo.AddMessage(ctx, matchID, doc)
	if err != nil {
		return nil, err
	}

	err = s.repo.UpdateLastMessage(ctx, matchID, map[string]interface{}{
		"lastMessage": map[string]interface{}{
			"text":      text,
			"timestamp": store.ServerTimestamp,
		},
		"lastSender": uid,
	})
	if err != nil {
		return nil, err
	}

	// Read the stored document back so the returned message carries the
	// resolved server timestamp, not a zero time.
	return s.repo.GetMessage(ctx, matchID, id)
}

func (s *service) ListMessages(ctx context.Context, uid, matchID string) ([]*Message, error) {
	if _, err := s.participants(ctx, uid, matchID); err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, matchID)
}

func (s *service) SubscribeMessages(ctx context.Context, uid, matchID string, fn func([]*Message)) (func(), error) {
	if _, err := s.participants(ctx, uid, matchID); err != nil {
		return nil, err
	}
	return s.repo.SubscribeMessages(ctx, matchID, fn)
}

func (s *service) participants(ctx context.Context, uid, matchID string) ([]string, error) {
	users, err := s.repo.GetMatchUsers(ctx, matchID)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u == uid {
			return users, nil
		}
	}
	return nil, ErrNotParticipant
}
