// internal/admin/handlers.go

package admin

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/workswipe/workswipe-backend/internal/common/utils"
	"github.com/workswipe/workswipe-backend/internal/profile"
)

// Handler handles admin HTTP requests
type Handler struct {
	service Service
}

// NewHandler creates a new admin handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetStats returns platform counters
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		utils.ErrorResponse(w, "Failed to get stats", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, stats, http.StatusOK)
}

// ListUsers returns all users of the requested category
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	category := profile.Category(r.URL.Query().Get("category"))
	if !category.Valid() || category == profile.CategoryAdmin {
		utils.ErrorResponse(w, "Invalid category", http.StatusBadRequest)
		return
	}

	users, err := h.service.ListUsers(r.Context(), category)
	if err != nil {
		utils.ErrorResponse(w, "Failed to list users", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, users, http.StatusOK)
}

// DeleteUser removes a user entirely
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["id"]
	if uid == "" {
		utils.ErrorResponse(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteUser(r.Context(), uid); err != nil {
		utils.ErrorResponse(w, "Failed to delete user", http.StatusInternalServerError)
		return
	}

	utils.MessageResponse(w, "User deleted", http.StatusOK)
}
