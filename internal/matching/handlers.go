// internal/matching/handlers.go

package matching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"github.com/workswipe/workswipe-backend/internal/common/utils"
	"github.com/workswipe/workswipe-backend/internal/profile"
)

// Handler handles matching HTTP requests
type Handler struct {
	service Service
}

// NewHandler creates a new matching handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func userIDFrom(r *http.Request) (string, bool) {
	uid, ok := r.Context().Value("userID").(string)
	return uid, ok && uid != ""
}

// GetFeed returns the shuffled candidate feed for the current user
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	uid, ok := userIDFrom(r)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	feed, err := h.service.BuildFeed(r.Context(), uid)
	if err != nil {
		switch {
		case errors.Is(err, profile.ErrProfileNotFound):
			utils.ErrorResponse(w, "Profile not found", http.StatusNotFound)
		case errors.Is(err, ErrNoFeed):
			utils.ErrorResponse(w, "No feed available for this account", http.StatusForbidden)
		default:
			utils.ErrorResponse(w, "Failed to build feed", http.StatusInternalServerError)
		}
		return
	}

	utils.SuccessResponse(w, feed, http.StatusOK)
}

// Swipe records a like or pass on another user
func (h *Handler) Swipe(w http.ResponseWriter, r *http.Request) {
	uid, ok := userIDFrom(r)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req SwipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.Swipe(r.Context(), uid, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSelfSwipe):
			utils.ErrorResponse(w, "Cannot swipe on yourself", http.StatusBadRequest)
		case errors.Is(err, ErrInvalidDecision):
			utils.ErrorResponse(w, "Invalid swipe decision", http.StatusBadRequest)
		case errors.Is(err, profile.ErrProfileNotFound):
			utils.ErrorResponse(w, "Profile not found", http.StatusNotFound)
		default:
			utils.ErrorResponse(w, "Failed to record swipe", http.StatusInternalServerError)
		}
		return
	}

	utils.SuccessResponse(w, result, http.StatusOK)
}

// ListPending returns incoming likes awaiting a decision
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	h.listEntries(w, r, h.service.ListPending)
}

// StreamPending pushes the pending queue as server-sent events whenever
// it changes, so clients can keep their likes badge live without polling.
func (h *Handler) StreamPending(w http.ResponseWriter, r *http.Request) {
	uid, ok := userIDFrom(r)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.ErrorResponse(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// Snapshot deliveries come from writer goroutines, serialize them
	var mu sync.Mutex
	cancel, err := h.service.SubscribePending(r.Context(), uid, func(entries []*LikeEntry) {
		payload, err := json.Marshal(entries)
		if err != nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
	})
	if err != nil {
		utils.ErrorResponse(w, "Failed to subscribe", http.StatusInternalServerError)
		return
	}
	defer cancel()

	<-r.Context().Done()
}

// AcceptPending saves an incoming like
func (h *Handler) AcceptPending(w http.ResponseWriter, r *http.Request) {
	uid, ok := userIDFrom(r)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	likerID := mux.Vars(r)["id"]
	if err := h.service.AcceptPending(r.Context(), uid, likerID); err != nil {
		if errors.Is(err, ErrPendingNotFound) {
			utils.ErrorResponse(w, "Pending like not found", http.StatusNotFound)
			return
		}
		utils.ErrorResponse(w, "Failed to accept like", http.StatusInternalServerError)
		return
	}

	utils.MessageResponse(w, "Profile saved", http.StatusOK)
}

// DeclinePending declines an incoming like
func (h *Handler) DeclinePending(w http.ResponseWriter, r *http.Request) {
	uid, ok := userIDFrom(r)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	likerID := mux.Vars(r)["id"]
	if err := h.service.DeclinePending(r.Context(), uid, likerID); err != nil {
		if errors.Is(err, ErrPendingNotFound) {
			utils.ErrorResponse(w, "Pending like not found", http.StatusNotFound)
			return
		}
		utils.ErrorResponse(w, "Failed to decline like", http.StatusInternalServerError)
		return
	}

	utils.MessageResponse(w, "Like declined", http.StatusOK)
}

// ListPast returns previously declined likes
func (h *Handler) ListPast(w http.ResponseWriter, r *http.Request) {
	h.listEntries(w, r, h.service.ListPast)
}

// RemovePast deletes one declined like permanently
func (h *Handler) RemovePast(w http.ResponseWriter, r *http.Request) {
	uid, ok := userIDFrom(r)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	otherID := mux.Vars(r)["id"]
	if err := h.service.RemovePast(r.Context(), uid, otherID); err != nil {
		utils.ErrorResponse(w, "Failed to remove entry", http.StatusInternalServerError)
		return
	}

	utils.MessageResponse(w, "Entry removed", http.StatusOK)
}

// ListSaved returns saved profiles
func (h *Handler) ListSaved(w http.ResponseWriter, r *http.Request) {
	h.listEntries(w, r, h.service.ListSaved)
}

// RemoveSaved drops a saved profile
func (h *Handler) RemoveSaved(w http.ResponseWriter, r *http.Request) {
	uid, ok := userIDFrom(r)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	otherID := mux.Vars(r)["id"]
	if err := h.service.RemoveSaved(r.Context(), uid, otherID); err != nil {
		utils.ErrorResponse(w, "Failed to remove saved profile", http.StatusInternalServerError)
		return
	}

	utils.MessageResponse(w, "Saved profile removed", http.StatusOK)
}

// PromoteSaved connects with a saved profile directly
func (h *Handler) PromoteSaved(w http.ResponseWriter, r *http.Request) {
	uid, ok := userIDFrom(r)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	otherID := mux.Vars(r)["id"]
	match, err := h.service.Promote(r.Context(), uid, otherID)
	if err != nil {
		if errors.Is(err, ErrSavedNotFound) {
			utils.ErrorResponse(w, "Saved profile not found", http.StatusNotFound)
			return
		}
		utils.ErrorResponse(w, "Failed to connect", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, match, http.StatusCreated)
}

// ListMatches returns the user's matches, most recent conversation first
func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	uid, ok := userIDFrom(r)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	matches, err := h.service.ListMatches(r.Context(), uid)
	if err != nil {
		utils.ErrorResponse(w, "Failed to list matches", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, matches, http.StatusOK)
}

// GetMatch returns a single match the user participates in
func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	uid, ok := userIDFrom(r)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	matchID := mux.Vars(r)["id"]
	match, err := h.service.GetMatch(r.Context(), uid, matchID)
	if err != nil {
		switch {
		case errors.Is(err, ErrMatchNotFound):
			utils.ErrorResponse(w, "Match not found", http.StatusNotFound)
		case errors.Is(err, ErrNotParticipant):
			utils.ErrorResponse(w, "Forbidden", http.StatusForbidden)
		default:
			utils.ErrorResponse(w, "Failed to get match", http.StatusInternalServerError)
		}
		return
	}

	utils.SuccessResponse(w, match, http.StatusOK)
}

type listFunc func(ctx context.Context, uid string) ([]*LikeEntry, error)

func (h *Handler) listEntries(w http.ResponseWriter, r *http.Request, list listFunc) {
	uid, ok := userIDFrom(r)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	entries, err := list(r.Context(), uid)
	if err != nil {
		utils.ErrorResponse(w, "Failed to list entries", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, entries, http.StatusOK)
}
