// internal/profile/handlers.go

package profile

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/workswipe/workswipe-backend/internal/common/utils"
)

// Handler handles profile-related HTTP requests
type Handler struct {
	service Service
}

// NewHandler creates a new profile handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// userIDFrom extracts the authenticated uid set by the auth middleware
func userIDFrom(r *http.Request) (string, bool) {
	uid, ok := r.Context().Value("userID").(string)
	return uid, ok && uid != ""
}

// GetMyProfile handles getting the current user's profile
func (h *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := userIDFrom(r)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	p, err := h.service.GetMyProfile(r.Context(), uid)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			utils.ErrorResponse(w, "Profile not found", http.StatusNotFound)
			return
		}
		utils.ErrorResponse(w, "Failed to get profile", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, p, http.StatusOK)
}

// GetUserProfile handles getting another user's profile
func (h *Handler) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	if _, ok := userIDFrom(r); !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	uid := mux.Vars(r)["id"]
	if uid == "" {
		utils.ErrorResponse(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	p, err := h.service.GetProfile(r.Context(), uid)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			utils.ErrorResponse(w, "Profile not found", http.StatusNotFound)
			return
		}
		utils.ErrorResponse(w, "Failed to get profile", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, p, http.StatusOK)
}

// UpdateProfile handles partial profile updates
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := userIDFrom(r)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.service.UpdateProfile(r.Context(), uid, &req)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			utils.ErrorResponse(w, "Profile not found", http.StatusNotFound)
			return
		}
		utils.ErrorResponse(w, "Failed to update profile", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, p, http.StatusOK)
}

// UploadProfileImage handles profile picture upload
func (h *Handler) UploadProfileImage(w http.ResponseWriter, r *http.Request) {
	h.uploadImage(w, r, h.service.UploadProfileImage)
}

// UploadBannerImage handles banner upload
func (h *Handler) UploadBannerImage(w http.ResponseWriter, r *http.Request) {
	h.uploadImage(w, r, h.service.UploadBannerImage)
}

type uploadFunc func(ctx context.Context, uid string, file multipart.File, header *multipart.FileHeader) (string, error)

func (h *Handler) uploadImage(w http.ResponseWriter, r *http.Request, upload uploadFunc) {
	uid, ok := userIDFrom(r)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	// Parse multipart form (max 10MB)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.ErrorResponse(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.ErrorResponse(w, "No image file provided", http.StatusBadRequest)
		return
	}
	defer file.Close()

	url, err := upload(r.Context(), uid, file, header)
	if err != nil {
		if errors.Is(err, ErrImageTooLarge) {
			utils.ErrorResponse(w, "Image size exceeds 5MB limit", http.StatusBadRequest)
			return
		}
		if errors.Is(err, ErrInvalidImageFormat) {
			utils.ErrorResponse(w, "Invalid image format. Supported: JPG, PNG, GIF, WebP", http.StatusBadRequest)
			return
		}
		utils.ErrorResponse(w, "Failed to upload image", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, map[string]string{"url": url}, http.StatusOK)
}
