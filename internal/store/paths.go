// internal/store/paths.go

package store

import "fmt"

// Path helpers for the collections the app uses. Keeping these here means
// a renamed collection only changes in one place.

const UsersCollection = "users"

const MatchesCollection = "matches"

func UserDoc(uid string) string {
	return fmt.Sprintf("users/%s", uid)
}

func SwipesCollection(uid string) string {
	return fmt.Sprintf("users/%s/swipes", uid)
}

func LikesReceivedCollection(uid string) string {
	return fmt.Sprintf("users/%s/likesReceived", uid)
}

func LikeReceivedDoc(uid, likerUID string) string {
	return fmt.Sprintf("users/%s/likesReceived/%s", uid, likerUID)
}

func SavedProfilesCollection(uid string) string {
	return fmt.Sprintf("users/%s/savedProfiles", uid)
}

func SavedProfileDoc(uid, otherUID string) string {
	return fmt.Sprintf("users/%s/savedProfiles/%s", uid, otherUID)
}

func RejectedLikesCollection(uid string) string {
	return fmt.Sprintf("users/%s/rejectedLikes", uid)
}

func RejectedLikeDoc(uid, otherUID string) string {
	return fmt.Sprintf("users/%s/rejectedLikes/%s", uid, otherUID)
}

func MatchDoc(matchID string) string {
	return fmt.Sprintf("matches/%s", matchID)
}

func MessagesCollection(matchID string) string {
	return fmt.Sprintf("matches/%s/messages", matchID)
}

func MessageDoc(matchID, messageID string) string {
	return fmt.Sprintf("matches/%s/messages/%s", matchID, messageID)
}
