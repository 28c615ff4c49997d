// internal/matching/promote.go

package matching

import (
	"context"
	"errors"
	"fmt"

	"github.com/workswipe/workswipe-backend/internal/store"
)

// Promote turns a saved profile into a direct match. The match document,
// the saved-entry deletion and the opening message are committed in a
// single transaction.
func (s *service) Promote(ctx context.Context, uid, savedUID string) (*Match, error) {
	owner, err := s.profiles.GetProfile(ctx, uid)
	if err != nil {
		return nil, err
	}

	matchID := MatchID(uid, savedUID)

	err = s.repo.Store().RunTransaction(ctx, func(tx store.Tx) error {
		doc, err := tx.Get(store.SavedProfileDoc(uid, savedUID))
		if err != nil {
			return err
		}
		entry := LikeEntryFromDoc(doc.ID, doc.Data)

		matchDoc := map[string]interface{}{
			"users": []string{uid, savedUID},
			"userProfiles": map[string]interface{}{
				uid: memberDoc(MemberProfileFrom(owner)),
				savedUID: memberDoc(MemberProfile{
					Name:         entry.Name,
					ProfileImage: entry.ProfileImage,
				}),
			},
			"createdAt": store.ServerTimestamp,
			"lastMessage": map[string]interface{}{
				"text":      promoteGreeting,
				"timestamp": store.ServerTimestamp,
			},
			"lastSender": "system",
			"type":       "direct",
		}
		if err := tx.Set(store.MatchDoc(matchID), matchDoc); err != nil {
			return err
		}
		return tx.Delete(store.SavedProfileDoc(uid, savedUID))
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSavedNotFound
		}
		return nil, fmt.Errorf("failed to promote saved profile: %w", err)
	}

	RecordPromotion()
	s.notifyMatch(uid, savedUID)

	return s.repo.GetMatch(ctx, matchID)
}
