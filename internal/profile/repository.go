// internal/profile/repository.go
// Repository pattern isolates store access from business logic.

package profile

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/workswipe/workswipe-backend/internal/store"
)

// Repository defines all store operations for profiles
type Repository interface {
	Create(ctx context.Context, p *Profile) error
	Get(ctx context.Context, uid string) (*Profile, error)
	Update(ctx context.Context, uid string, fields map[string]interface{}) error
	ListByCategory(ctx context.Context, category Category) ([]*Profile, error)
	CountByCategory(ctx context.Context, category Category) (int, error)
	Delete(ctx context.Context, uid string) error
}

// storeRepository implements Repository on the document store
type storeRepository struct {
	store store.Store
}

// NewStoreRepository creates a new document store repository
func NewStoreRepository(s store.Store) Repository {
	return &storeRepository{store: s}
}

// Create writes a full profile document
func (r *storeRepository) Create(ctx context.Context, p *Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	doc := p.ToDoc()
	doc["createdAt"] = store.ServerTimestamp
	doc["updatedAt"] = store.ServerTimestamp

	if err := r.store.Set(ctx, store.UserDoc(p.UID), doc); err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// Get fetches and decodes a single profile
func (r *storeRepository) Get(ctx context.Context, uid string) (*Profile, error) {
	doc, err := r.store.Get(ctx, store.UserDoc(uid))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return FromDoc(doc.ID, doc.Data)
}

// Update merges the given fields into the profile document
func (r *storeRepository) Update(ctx context.Context, uid string, fields map[string]interface{}) error {
	fields["updatedAt"] = store.ServerTimestamp
	if err := r.store.Update(ctx, store.UserDoc(uid), fields); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// ListByCategory returns all profiles of one category.
// Documents that fail to decode are skipped with a warning so one bad
// profile cannot take down the whole feed.
func (r *storeRepository) ListByCategory(ctx context.Context, category Category) ([]*Profile, error) {
	docs, err := r.store.GetAll(ctx, store.Query{
		Path:    store.UsersCollection,
		Filters: []store.Filter{{Field: "type", Op: "==", Value: string(category)}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s profiles: %w", category, err)
	}

	profiles := make([]*Profile, 0, len(docs))
	for _, doc := range docs {
		p, err := FromDoc(doc.ID, doc.Data)
		if err != nil {
			log.Printf("Skipping malformed profile %s: %v", doc.ID, err)
			continue
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// CountByCategory counts profiles of one category
func (r *storeRepository) CountByCategory(ctx context.Context, category Category) (int, error) {
	docs, err := r.store.GetAll(ctx, store.Query{
		Path:    store.UsersCollection,
		Filters: []store.Filter{{Field: "type", Op: "==", Value: string(category)}},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count %s profiles: %w", category, err)
	}
	return len(docs), nil
}

// Delete removes a profile document
func (r *storeRepository) Delete(ctx context.Context, uid string) error {
	if err := r.store.Delete(ctx, store.UserDoc(uid)); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}
