// internal/matching/models.go
// Data shapes for swipes, the pending queue, saved profiles and matches.
// These mirror the store documents exactly so the mobile clients and this
// backend agree on every field name.

package matching

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/workswipe/workswipe-backend/internal/profile"
)

// Errors returned by the matching package
var (
	ErrSelfSwipe       = errors.New("cannot swipe on yourself")
	ErrInvalidDecision = errors.New("invalid swipe decision")
	ErrNoFeed          = errors.New("no feed for this account category")
	ErrPendingNotFound = errors.New("pending like not found")
	ErrSavedNotFound   = errors.New("saved profile not found")
	ErrMatchNotFound   = errors.New("match not found")
	ErrNotParticipant  = errors.New("user is not a participant of this match")
)

// Conversation starters written into new matches
const (
	matchGreeting   = "You matched! Say hi."
	promoteGreeting = "You are now connected!"
)

// Decision is the direction of a swipe
type Decision string

const (
	DecisionLike Decision = "like"
	DecisionPass Decision = "pass"
)

// Valid reports whether d is a known decision
func (d Decision) Valid() bool {
	return d == DecisionLike || d == DecisionPass
}

// Swipe outcomes reported to the client
const (
	OutcomePassed  = "passed"
	OutcomePending = "pending"
	OutcomeMatched = "matched"
)

// MatchID derives the deterministic match document ID for two users:
// both uids sorted lexicographically, joined with an underscore. The
// same pair always yields the same ID regardless of who swiped last.
func MatchID(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return strings.Join(ids, "_")
}

// SwipeRecord is one append-only entry in users/{uid}/swipes.
// Exactly one of LikedUserID and PassedUserID is set.
type SwipeRecord struct {
	ID           string    `json:"id"`
	LikedUserID  string    `json:"likedUserId,omitempty"`
	PassedUserID string    `json:"passedUserId,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Target returns whichever uid the swipe was about
func (s *SwipeRecord) Target() string {
	if s.LikedUserID != "" {
		return s.LikedUserID
	}
	return s.PassedUserID
}

// LikeEntry is a denormalized profile snapshot stored in a user's
// likesReceived, savedProfiles or rejectedLikes subcollection. The shape
// depends on the liker's category: applicants carry lastName and skills,
// companies carry companyName and location.
type LikeEntry struct {
	ID           string    `json:"id"` // the liker's uid (document ID)
	Name         string    `json:"name"`
	LastName     string    `json:"lastName,omitempty"`
	Skills       []string  `json:"skills,omitempty"`
	CompanyName  string    `json:"companyName,omitempty"`
	Location     string    `json:"location,omitempty"`
	ProfileImage string    `json:"profileImage,omitempty"`
	SwiperID     string    `json:"swiperId"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewLikeEntry builds the snapshot written under the candidate when a
// like stays one-sided
func NewLikeEntry(swiper *profile.Profile) *LikeEntry {
	entry := &LikeEntry{
		ID:           swiper.UID,
		SwiperID:     swiper.UID,
		ProfileImage: swiper.ProfileImage,
	}

	switch swiper.Category {
	case profile.CategoryCompany:
		entry.Name = swiper.CompanyName
		entry.CompanyName = swiper.CompanyName
		entry.Location = swiper.CompanyAddress
	default:
		entry.Name = swiper.DisplayName()
		entry.LastName = swiper.LastName
		entry.Skills = swiper.Skills
	}

	return entry
}

// ToDoc converts the entry to its store representation.
// The timestamp is always a server timestamp sentinel supplied by the
// caller, so it is not included here.
func (e *LikeEntry) ToDoc() map[string]interface{} {
	doc := map[string]interface{}{
		"name":     e.Name,
		"swiperId": e.SwiperID,
	}
	if e.LastName != "" {
		doc["lastName"] = e.LastName
	}
	if len(e.Skills) > 0 {
		doc["skills"] = e.Skills
	}
	if e.CompanyName != "" {
		doc["companyName"] = e.CompanyName
	}
	if e.Location != "" {
		doc["location"] = e.Location
	}
	if e.ProfileImage != "" {
		doc["profileImage"] = e.ProfileImage
	}
	return doc
}

// LikeEntryFromDoc decodes a pending/saved/rejected snapshot
func LikeEntryFromDoc(id string, data map[string]interface{}) *LikeEntry {
	return &LikeEntry{
		ID:           id,
		Name:         getString(data, "name"),
		LastName:     getString(data, "lastName"),
		Skills:       getStringSlice(data, "skills"),
		CompanyName:  getString(data, "companyName"),
		Location:     getString(data, "location"),
		ProfileImage: getString(data, "profileImage"),
		SwiperID:     getString(data, "swiperId"),
		Timestamp:    getTime(data, "timestamp"),
	}
}

// MemberProfile is the per-user snapshot embedded in a match document.
// Identity and category fields are deliberately not stored here.
type MemberProfile struct {
	Name         string `json:"name"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// MemberProfileFrom snapshots the display fields of a profile
func MemberProfileFrom(p *profile.Profile) MemberProfile {
	return MemberProfile{
		Name:         p.DisplayName(),
		ProfileImage: p.ProfileImage,
	}
}

// LastMessage is the conversation summary denormalized onto the match
type LastMessage struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Match is a mutual connection between two users
type Match struct {
	ID          string                   `json:"id"`
	Users       []string                 `json:"users"`
	Profiles    map[string]MemberProfile `json:"userProfiles"`
	CreatedAt   time.Time                `json:"createdAt"`
	LastMessage LastMessage              `json:"lastMessage"`
	LastSender  string                   `json:"lastSender,omitempty"`
	Type        string                   `json:"type,omitempty"`
}

// HasUser reports whether uid is a participant
func (m *Match) HasUser(uid string) bool {
	for _, u := range m.Users {
		if u == uid {
			return true
		}
	}
	return false
}

// OtherUser returns the participant that is not uid
func (m *Match) OtherUser(uid string) string {
	for _, u := range m.Users {
		if u != uid {
			return u
		}
	}
	return ""
}

// MatchFromDoc decodes a match document
func MatchFromDoc(id string, data map[string]interface{}) *Match {
	m := &Match{
		ID:         id,
		Users:      getStringSlice(data, "users"),
		Profiles:   make(map[string]MemberProfile),
		CreatedAt:  getTime(data, "createdAt"),
		LastSender: getString(data, "lastSender"),
		Type:       getString(data, "type"),
	}

	if profiles, ok := data["userProfiles"].(map[string]interface{}); ok {
		for uid, raw := range profiles {
			if fields, ok := raw.(map[string]interface{}); ok {
				m.Profiles[uid] = MemberProfile{
					Name:         getString(fields, "name"),
					ProfileImage: getString(fields, "profileImage"),
				}
			}
		}
	}

	if lm, ok := data["lastMessage"].(map[string]interface{}); ok {
		m.LastMessage = LastMessage{
			Text:      getString(lm, "text"),
			Timestamp: getTime(lm, "timestamp"),
		}
	}

	return m
}

// SwipeResult is what a swipe call reports back
type SwipeResult struct {
	Outcome string `json:"outcome"`
	Match   *Match `json:"match,omitempty"`
}

// SwipeRequest is the client payload for recording a swipe
type SwipeRequest struct {
	TargetID string   `json:"targetId" validate:"required"`
	Decision Decision `json:"decision" validate:"required,oneof=like pass"`
}

// Decode helpers for loosely typed store documents

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
