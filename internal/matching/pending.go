// internal/matching/pending.go
// The incoming-like queue: accept moves a like into savedProfiles,
// decline moves it into rejectedLikes. Both moves are transactional so
// the entry never exists in two lists or vanishes entirely.

package matching

import (
	"context"
	"errors"
	"fmt"

	"github.com/workswipe/workswipe-backend/internal/store"
)

// ListPending returns the user's incoming likes, newest first
func (s *service) ListPending(ctx context.Context, uid string) ([]*LikeEntry, error) {
	return s.repo.ListPendingLikes(ctx, uid)
}

// AcceptPending saves an incoming like for later
func (s *service) AcceptPending(ctx context.Context, uid, likerUID string) error {
	err := s.repo.Store().RunTransaction(ctx, func(tx store.Tx) error {
		doc, err := tx.Get(store.LikeReceivedDoc(uid, likerUID))
		if err != nil {
			return err
		}
		if err := tx.Set(store.SavedProfileDoc(uid, likerUID), doc.Data); err != nil {
			return err
		}
		return tx.Delete(store.LikeReceivedDoc(uid, likerUID))
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrPendingNotFound
		}
		return fmt.Errorf("failed to accept pending like: %w", err)
	}
	RecordPendingAccept()
	return nil
}

// DeclinePending moves an incoming like into the past likes list.
// The timestamp is refreshed so past likes sort by decline time, not by
// when the like arrived.
func (s *service) DeclinePending(ctx context.Context, uid, likerUID string) error {
	err := s.repo.Store().RunTransaction(ctx, func(tx store.Tx) error {
		doc, err := tx.Get(store.LikeReceivedDoc(uid, likerUID))
		if err != nil {
			return err
		}
		data := doc.Data
		data["timestamp"] = store.ServerTimestamp
		if err := tx.Set(store.RejectedLikeDoc(uid, likerUID), data); err != nil {
			return err
		}
		return tx.Delete(store.LikeReceivedDoc(uid, likerUID))
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrPendingNotFound
		}
		return fmt.Errorf("failed to decline pending like: %w", err)
	}
	RecordPendingDecline()
	return nil
}

// ListPast returns declined likes, most recently declined first
func (s *service) ListPast(ctx context.Context, uid string) ([]*LikeEntry, error) {
	return s.repo.ListRejectedLikes(ctx, uid)
}

// RemovePast deletes one entry from the past likes list
func (s *service) RemovePast(ctx context.Context, uid, otherUID string) error {
	return s.repo.DeleteRejectedLike(ctx, uid, otherUID)
}

// ListSaved returns saved profiles sorted by name
func (s *service) ListSaved(ctx context.Context, uid string) ([]*LikeEntry, error) {
	return s.repo.ListSavedProfiles(ctx, uid)
}

// RemoveSaved drops a saved profile without connecting
func (s *service) RemoveSaved(ctx context.Context, uid, otherUID string) error {
	return s.repo.Store().Delete(ctx, store.SavedProfileDoc(uid, otherUID))
}
