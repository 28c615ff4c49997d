// internal/matching/repository.go

package matching

import (
	"context"
	"errors"
	"fmt"

	"github.com/workswipe/workswipe-backend/internal/store"
)

// Repository defines the matching data access interface
type Repository interface {
	AddSwipe(ctx context.Context, uid string, record map[string]interface{}) error
	ListSwipes(ctx context.Context, uid string) ([]*SwipeRecord, error)
	ListPendingLikes(ctx context.Context, uid string) ([]*LikeEntry, error)
	ListSavedProfiles(ctx context.Context, uid string) ([]*LikeEntry, error)
	ListRejectedLikes(ctx context.Context, uid string) ([]*LikeEntry, error)
	DeleteRejectedLike(ctx context.Context, uid, otherUID string) error
	GetMatch(ctx context.Context, matchID string) (*Match, error)
	ListMatches(ctx context.Context, uid string) ([]*Match, error)
	CountMatches(ctx context.Context) (int, error)
	SubscribePendingLikes(ctx context.Context, uid string, fn func([]*LikeEntry)) (func(), error)
	Store() store.Store
}

type storeRepository struct {
	db store.Store
}

// NewRepository creates a new matching repository on the document store
func NewRepository(db store.Store) Repository {
	return &storeRepository{db: db}
}

// AddSwipe appends a swipe record to the user's swipe log
func (r *storeRepository) AddSwipe(ctx context.Context, uid string, record map[string]interface{}) error {
	if _, err := r.db.Add(ctx, store.SwipesCollection(uid), record); err != nil {
		return fmt.Errorf("failed to record swipe: %w", err)
	}
	return nil
}

// ListSwipes returns every swipe the user has ever made
func (r *storeRepository) ListSwipes(ctx context.Context, uid string) ([]*SwipeRecord, error) {
	docs, err := r.db.GetAll(ctx, store.Query{Path: store.SwipesCollection(uid)})
	if err != nil {
		return nil, fmt.Errorf("failed to list swipes: %w", err)
	}

	swipes := make([]*SwipeRecord, 0, len(docs))
	for _, doc := range docs {
		swipes = append(swipes, &SwipeRecord{
			ID:           doc.ID,
			LikedUserID:  getString(doc.Data, "likedUserId"),
			PassedUserID: getString(doc.Data, "passedUserId"),
			Timestamp:    getTime(doc.Data, "timestamp"),
		})
	}
	return swipes, nil
}

// ListPendingLikes returns incoming likes newest first
func (r *storeRepository) ListPendingLikes(ctx context.Context, uid string) ([]*LikeEntry, error) {
	return r.listEntries(ctx, store.Query{
		Path:    store.LikesReceivedCollection(uid),
		OrderBy: []store.Order{{Field: "timestamp", Desc: true}},
	})
}

// ListSavedProfiles returns saved profiles sorted by name
func (r *storeRepository) ListSavedProfiles(ctx context.Context, uid string) ([]*LikeEntry, error) {
	return r.listEntries(ctx, store.Query{
		Path:    store.SavedProfilesCollection(uid),
		OrderBy: []store.Order{{Field: "name"}},
	})
}

// ListRejectedLikes returns declined likes newest first
func (r *storeRepository) ListRejectedLikes(ctx context.Context, uid string) ([]*LikeEntry, error) {
	return r.listEntries(ctx, store.Query{
		Path:    store.RejectedLikesCollection(uid),
		OrderBy: []store.Order{{Field: "timestamp", Desc: true}},
	})
}

func (r *storeRepository) listEntries(ctx context.Context, q store.Query) ([]*LikeEntry, error) {
	docs, err := r.db.GetAll(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", q.Path, err)
	}

	entries := make([]*LikeEntry, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, LikeEntryFromDoc(doc.ID, doc.Data))
	}
	return entries, nil
}

// DeleteRejectedLike removes one entry from the past likes list
func (r *storeRepository) DeleteRejectedLike(ctx context.Context, uid, otherUID string) error {
	return r.db.Delete(ctx, store.RejectedLikeDoc(uid, otherUID))
}

// GetMatch fetches a single match document
func (r *storeRepository) GetMatch(ctx context.Context, matchID string) (*Match, error) {
	doc, err := r.db.Get(ctx, store.MatchDoc(matchID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return MatchFromDoc(doc.ID, doc.Data), nil
}

// ListMatches returns the user's matches, most recent conversation first
func (r *storeRepository) ListMatches(ctx context.Context, uid string) ([]*Match, error) {
	docs, err := r.db.GetAll(ctx, store.Query{
		Path:    store.MatchesCollection,
		Filters: []store.Filter{{Field: "users", Op: "array-contains", Value: uid}},
		OrderBy: []store.Order{{Field: "lastMessage.timestamp", Desc: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	matches := make([]*Match, 0, len(docs))
	for _, doc := range docs {
		matches = append(matches, MatchFromDoc(doc.ID, doc.Data))
	}
	return matches, nil
}

// CountMatches counts every match in the system
func (r *storeRepository) CountMatches(ctx context.Context) (int, error) {
	docs, err := r.db.GetAll(ctx, store.Query{Path: store.MatchesCollection})
	if err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return len(docs), nil
}

// SubscribePendingLikes streams the pending queue on every change
func (r *storeRepository) SubscribePendingLikes(ctx context.Context, uid string, fn func([]*LikeEntry)) (func(), error) {
	q := store.Query{
		Path:    store.LikesReceivedCollection(uid),
		OrderBy: []store.Order{{Field: "timestamp", Desc: true}},
	}
	return r.db.Subscribe(ctx, q, func(docs []store.Doc) {
		entries := make([]*LikeEntry, 0, len(docs))
		for _, doc := range docs {
			entries = append(entries, LikeEntryFromDoc(doc.ID, doc.Data))
		}
		fn(entries)
	})
}

// Store exposes the underlying document store for transactional flows
func (r *storeRepository) Store() store.Store {
	return r.db
}
