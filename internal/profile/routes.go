// internal/profile/routes.go

package profile

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all profile routes.
// The auth middleware is passed as mux.MiddlewareFunc to avoid an import
// cycle with the auth package, which creates profiles at signup.
func RegisterRoutes(router *mux.Router, handler *Handler, authenticate mux.MiddlewareFunc) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authenticate)

	// Profile management
	api.HandleFunc("/profile", handler.GetMyProfile).Methods("GET")
	api.HandleFunc("/profile", handler.UpdateProfile).Methods("PUT", "PATCH")
	api.HandleFunc("/profile/picture", handler.UploadProfileImage).Methods("POST")
	api.HandleFunc("/profile/banner", handler.UploadBannerImage).Methods("POST")

	// Other users
	api.HandleFunc("/users/{id}/profile", handler.GetUserProfile).Methods("GET")
}
