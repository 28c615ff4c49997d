// internal/chat/repository.go

package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/workswipe/workswipe-backend/internal/store"
)

// Repository defines the chat data access interface
type Repository interface {
	GetMatchUsers(ctx context.Context, matchID string) ([]string, error)
	AddMessage(ctx context.Context, matchID string, data map[string]interface{}) (string, error)
	GetMessage(ctx context.Context, matchID, messageID string) (*Message, error)
	UpdateLastMessage(ctx context.Context, matchID string, fields map[string]interface{}) error
	ListMessages(ctx context.Context, matchID string) ([]*Message, error)
	SubscribeMessages(ctx context.Context, matchID string, fn func([]*Message)) (func(), error)
}

type storeRepository struct {
	db store.Store
}

// NewRepository creates a new chat repository on the document store
func NewRepository(db store.Store) Repository {
	return &storeRepository{db: db}
}

// GetMatchUsers returns the participants of a match
func (r *storeRepository) GetMatchUsers(ctx context.Context, matchID string) ([]string, error) {
	doc, err := r.db.Get(ctx, store.MatchDoc(matchID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return getStringSlice(doc.Data, "users"), nil
}

// AddMessage appends a message to the conversation
func (r *storeRepository) AddMessage(ctx context.Context, matchID string, data map[string]interface{}) (string, error) {
	id, err := r.db.Add(ctx, store.MessagesCollection(matchID), data)
	if err != nil {
		return "", fmt.Errorf("failed to add message: %w", err)
	}
	return id, nil
}

// GetMessage reads back a single stored message
func (r *storeRepository) GetMessage(ctx context.Context, matchID, messageID string) (*Message, error) {
	doc, err := r.db.Get(ctx, store.MessageDoc(matchID, messageID))
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return MessageFromDoc(doc.ID, doc.Data), nil
}

// UpdateLastMessage merges the conversation summary onto the match
func (r *storeRepository) UpdateLastMessage(ctx context.Context, matchID string, fields map[string]interface{}) error {
	if err := r.db.Update(ctx, store.MatchDoc(matchID), fields); err != nil {
		return fmt.Errorf("failed to update last message: %w", err)
	}
	return nil
}

// ListMessages returns the conversation oldest first
func (r *storeRepository) ListMessages(ctx context.Context, matchID string) ([]*Message, error) {
	docs, err := r.db.GetAll(ctx, store.Query{
		Path:    store.MessagesCollection(matchID),
		OrderBy: []store.Order{{Field: "createdAt"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	messages := make([]*Message, 0, len(docs))
	for _, doc := range docs {
		messages = append(messages, MessageFromDoc(doc.ID, doc.Data))
	}
	return messages, nil
}

// SubscribeMessages streams the full conversation on every change
func (r *storeRepository) SubscribeMessages(ctx context.Context, matchID string, fn func([]*Message)) (func(), error) {
	q := store.Query{
		Path:    store.MessagesCollection(matchID),
		OrderBy: []store.Order{{Field: "createdAt"}},
	}
	return r.db.Subscribe(ctx, q, func(docs []store.Doc) {
		messages := make([]*Message, 0, len(docs))
		for _, doc := range docs {
			messages = append(messages, MessageFromDoc(doc.ID, doc.Data))
		}
		fn(messages)
	})
}
