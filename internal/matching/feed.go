// internal/matching/feed.go
// Feed construction: candidates are every profile of the opposite
// category minus anyone the user has already interacted with, shuffled
// so repeat visits see a fresh ordering.

package matching

import (
	"context"
	"math/rand"
	"time"

	"github.com/workswipe/workswipe-backend/internal/profile"
)

// BuildFeed returns the shuffled candidate list for uid
func (s *service) BuildFeed(ctx context.Context, uid string) ([]*profile.Profile, error) {
	start := time.Now()

	viewer, err := s.profiles.GetProfile(ctx, uid)
	if err != nil {
		return nil, err
	}

	opposite := viewer.Category.Opposite()
	if opposite == "" {
		return nil, ErrNoFeed
	}

	exclude, err := s.buildExclusionSet(ctx, uid)
	if err != nil {
		return nil, err
	}

	candidates, err := s.profiles.ListByCategory(ctx, opposite)
	if err != nil {
		return nil, err
	}

	feed := make([]*profile.Profile, 0, len(candidates))
	for _, p := range candidates {
		if exclude[p.UID] {
			continue
		}
		feed = append(feed, p)
	}

	shuffleProfiles(feed)

	ObserveFeedBuild(time.Since(start))
	return feed, nil
}

// buildExclusionSet collects every uid the viewer should not see again:
// everyone already swiped on either way, saved profiles, and the viewer
// themselves. Rejected likes are intentionally not excluded, the other
// side can still surface in the feed.
func (s *service) buildExclusionSet(ctx context.Context, uid string) (map[string]bool, error) {
	exclude := map[string]bool{uid: true}

	swipes, err := s.repo.ListSwipes(ctx, uid)
	if err != nil {
		return nil, err
	}
	for _, swipe := range swipes {
		if target := swipe.Target(); target != "" {
			exclude[target] = true
		}
	}

	saved, err := s.repo.ListSavedProfiles(ctx, uid)
	if err != nil {
		return nil, err
	}
	for _, entry := range saved {
		exclude[entry.ID] = true
	}

	pending, err := s.repo.ListPendingLikes(ctx, uid)
	if err != nil {
		return nil, err
	}
	for _, entry := range pending {
		exclude[entry.ID] = true
	}

	return exclude, nil
}

// shuffleProfiles applies a Fisher-Yates shuffle from the tail down.
// The top-level rand functions are safe for concurrent feed builds.
func shuffleProfiles(profiles []*profile.Profile) {
	for i := len(profiles) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		profiles[i], profiles[j] = profiles[j], profiles[i]
	}
}
