// internal/matching/service.go
// Swipe recording and match resolution. Resolution runs inside a store
// transaction so two users liking each other at the same moment still
// produce exactly one match document.

package matching

import (
	"context"
	"fmt"
	"log"

	"github.com/workswipe/workswipe-backend/internal/profile"
	"github.com/workswipe/workswipe-backend/internal/store"
)

// Notifier delivers out-of-band match notifications
type Notifier interface {
	NotifyMatch(ctx context.Context, user, other *profile.Profile) error
}

// Service defines the matching business logic interface
type Service interface {
	BuildFeed(ctx context.Context, uid string) ([]*profile.Profile, error)
	Swipe(ctx context.Context, uid string, req *SwipeRequest) (*SwipeResult, error)
	ListPending(ctx context.Context, uid string) ([]*LikeEntry, error)
	AcceptPending(ctx context.Context, uid, likerUID string) error
	DeclinePending(ctx context.Context, uid, likerUID string) error
	ListPast(ctx context.Context, uid string) ([]*LikeEntry, error)
	RemovePast(ctx context.Context, uid, otherUID string) error
	ListSaved(ctx context.Context, uid string) ([]*LikeEntry, error)
	RemoveSaved(ctx context.Context, uid, otherUID string) error
	Promote(ctx context.Context, uid, savedUID string) (*Match, error)
	ListMatches(ctx context.Context, uid string) ([]*Match, error)
	GetMatch(ctx context.Context, uid, matchID string) (*Match, error)
	SubscribePending(ctx context.Context, uid string, fn func([]*LikeEntry)) (func(), error)
}

type service struct {
	repo     Repository
	profiles profile.Service
	notifier Notifier
}

// NewService creates a new matching service. notifier may be nil.
func NewService(repo Repository, profiles profile.Service, notifier Notifier) Service {
	return &service{
		repo:     repo,
		profiles: profiles,
		notifier: notifier,
	}
}

// Swipe records a decision and, on a like, resolves its outcome: a match
// when the target already liked the swiper, a pending like otherwise.
func (s *service) Swipe(ctx context.Context, uid string, req *SwipeRequest) (*SwipeResult, error) {
	if uid == req.TargetID {
		return nil, ErrSelfSwipe
	}
	if !req.Decision.Valid() {
		return nil, ErrInvalidDecision
	}

	swiper, err := s.profiles.GetProfile(ctx, uid)
	if err != nil {
		return nil, err
	}
	if _, err := s.profiles.GetProfile(ctx, req.TargetID); err != nil {
		return nil, err
	}

	if req.Decision == DecisionPass {
		record := map[string]interface{}{
			"passedUserId": req.TargetID,
			"timestamp":    store.ServerTimestamp,
		}
		if err := s.repo.AddSwipe(ctx, uid, record); err != nil {
			return nil, err
		}
		RecordSwipe(string(DecisionPass))
		return &SwipeResult{Outcome: OutcomePassed}, nil
	}

	record := map[string]interface{}{
		"likedUserId": req.TargetID,
		"timestamp":   store.ServerTimestamp,
	}
	if err := s.repo.AddSwipe(ctx, uid, record); err != nil {
		return nil, err
	}
	RecordSwipe(string(DecisionLike))

	matched, err := s.resolveLike(ctx, swiper, req.TargetID)
	if err != nil {
		return nil, err
	}

	if !matched {
		RecordPendingLike()
		return &SwipeResult{Outcome: OutcomePending}, nil
	}

	RecordMatch()
	match, err := s.repo.GetMatch(ctx, MatchID(uid, req.TargetID))
	if err != nil {
		return nil, err
	}
	s.notifyMatch(uid, req.TargetID)
	return &SwipeResult{Outcome: OutcomeMatched, Match: match}, nil
}

// resolveLike checks for reciprocity and commits either the match or the
// pending like atomically. Returns true when a match was created.
func (s *service) resolveLike(ctx context.Context, swiper *profile.Profile, targetUID string) (bool, error) {
	var matched bool

	err := s.repo.Store().RunTransaction(ctx, func(tx store.Tx) error {
		matched = false

		// Has the target already liked the swiper?
		reciprocal, err := tx.GetAll(store.Query{
			Path:    store.SwipesCollection(targetUID),
			Filters: []store.Filter{{Field: "likedUserId", Op: "==", Value: swiper.UID}},
			Limit:   1,
		})
		if err != nil {
			return err
		}

		if len(reciprocal) == 0 {
			entry := NewLikeEntry(swiper)
			doc := entry.ToDoc()
			doc["timestamp"] = store.ServerTimestamp
			return tx.Set(store.LikeReceivedDoc(targetUID, swiper.UID), doc)
		}

		target, err := s.profileInTx(tx, targetUID)
		if err != nil {
			return err
		}

		matchID := MatchID(swiper.UID, targetUID)
		doc := map[string]interface{}{
			"users": []string{swiper.UID, targetUID},
			"userProfiles": map[string]interface{}{
				swiper.UID: memberDoc(MemberProfileFrom(swiper)),
				targetUID:  memberDoc(MemberProfileFrom(target)),
			},
			"createdAt": store.ServerTimestamp,
			"lastMessage": map[string]interface{}{
				"text":      matchGreeting,
				"timestamp": store.ServerTimestamp,
			},
		}
		if err := tx.Set(store.MatchDoc(matchID), doc); err != nil {
			return err
		}

		// The target's like is now a match, drop it from the swiper's
		// pending queue
		if err := tx.Delete(store.LikeReceivedDoc(swiper.UID, targetUID)); err != nil {
			return err
		}

		matched = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to resolve like: %w", err)
	}
	return matched, nil
}

// profileInTx reads a profile document inside a transaction
func (s *service) profileInTx(tx store.Tx, uid string) (*profile.Profile, error) {
	doc, err := tx.Get(store.UserDoc(uid))
	if err != nil {
		return nil, err
	}
	return profile.FromDoc(doc.ID, doc.Data)
}

func memberDoc(m MemberProfile) map[string]interface{} {
	doc := map[string]interface{}{"name": m.Name}
	if m.ProfileImage != "" {
		doc["profileImage"] = m.ProfileImage
	}
	return doc
}

func (s *service) notifyMatch(uid, otherUID string) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx := context.Background()
		user, err := s.profiles.GetProfile(ctx, uid)
		if err != nil {
			log.Printf("match notification: load profile %s: %v", uid, err)
			return
		}
		other, err := s.profiles.GetProfile(ctx, otherUID)
		if err != nil {
			log.Printf("match notification: load profile %s: %v", otherUID, err)
			return
		}
		if err := s.notifier.NotifyMatch(ctx, user, other); err != nil {
			log.Printf("match notification failed: %v", err)
		}
		if err := s.notifier.NotifyMatch(ctx, other, user); err != nil {
			log.Printf("match notification failed: %v", err)
		}
	}()
}

// ListMatches returns the user's matches ordered by conversation recency
func (s *service) ListMatches(ctx context.Context, uid string) ([]*Match, error) {
	return s.repo.ListMatches(ctx, uid)
}

// GetMatch returns a match the user participates in
func (s *service) GetMatch(ctx context.Context, uid, matchID string) (*Match, error) {
	match, err := s.repo.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.HasUser(uid) {
		return nil, ErrNotParticipant
	}
	return match, nil
}

// SubscribePending streams pending like updates for live badge counts
func (s *service) SubscribePending(ctx context.Context, uid string, fn func([]*LikeEntry)) (func(), error) {
	return s.repo.SubscribePendingLikes(ctx, uid, fn)
}
