// internal/chat/handlers.go

package chat

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/workswipe/workswipe-backend/internal/common/utils"
)

// Handler handles chat HTTP and websocket requests
type Handler struct {
	service Service
	hub     *Hub
}

// NewHandler creates a new chat handler
func NewHandler(service Service, hub *Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

func userIDFrom(r *http.Request) (string, bool) {
	uid, ok := r.Context().Value("userID").(string)
	return uid, ok && uid != ""
}

// ListMessages returns a conversation oldest first
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	uid, ok := userIDFrom(r)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	matchID := mux.Vars(r)["id"]
	messages, err := h.service.ListMessages(r.Context(), uid, matchID)
	if err != nil {
		writeChatError(w, err)
		return
	}

	utils.SuccessResponse(w, messages, http.StatusOK)
}

// SendMessage appends a message to a conversation
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	uid, ok := userIDFrom(r)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	matchID := mux.Vars(r)["id"]

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	message, err := h.service.SendMessage(r.Context(), uid, matchID, req.Text)
	if err != nil {
		writeChatError(w, err)
		return
	}
	if message == nil {
		// Blank text is silently ignored
		utils.SuccessResponse(w, nil, http.StatusNoContent)
		return
	}

	if h.hub != nil {
		h.hub.SendToUsers(message.MatchUsers, newWSMessage(WSTypeMessage, message))
	}

	utils.SuccessResponse(w, message, http.StatusCreated)
}

// ServeWS upgrades the connection and registers the client with the hub
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	uid, ok := userIDFrom(r)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := NewClient(h.hub, conn, uid, h.service)
	h.hub.register <- client
	client.Start()
}

func writeChatError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMatchNotFound):
		utils.ErrorResponse(w, "Match not found", http.StatusNotFound)
	case errors.Is(err, ErrNotParticipant):
		utils.ErrorResponse(w, "Forbidden", http.StatusForbidden)
	default:
		utils.ErrorResponse(w, "Chat operation failed", http.StatusInternalServerError)
	}
}
