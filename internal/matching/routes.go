// internal/matching/routes.go

package matching

import (
	"github.com/gorilla/mux"

	"github.com/workswipe/workswipe-backend/internal/auth"
)

// RegisterRoutes registers all matching routes
func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware.Authenticate)

	// Feed and swipes
	api.HandleFunc("/feed", handler.GetFeed).Methods("GET")
	api.HandleFunc("/swipes", handler.Swipe).Methods("POST")

	// Incoming likes
	api.HandleFunc("/likes/pending", handler.ListPending).Methods("GET")
	api.HandleFunc("/likes/pending/stream", handler.StreamPending).Methods("GET")
	api.HandleFunc("/likes/pending/{id}/accept", handler.AcceptPending).Methods("POST")
	api.HandleFunc("/likes/pending/{id}/decline", handler.DeclinePending).Methods("POST")
	api.HandleFunc("/likes/past", handler.ListPast).Methods("GET")
	api.HandleFunc("/likes/past/{id}", handler.RemovePast).Methods("DELETE")

	// Saved profiles
	api.HandleFunc("/saved", handler.ListSaved).Methods("GET")
	api.HandleFunc("/saved/{id}", handler.RemoveSaved).Methods("DELETE")
	api.HandleFunc("/saved/{id}/connect", handler.PromoteSaved).Methods("POST")

	// Matches
	api.HandleFunc("/matches", handler.ListMatches).Methods("GET")
	api.HandleFunc("/matches/{id}", handler.GetMatch).Methods("GET")
}
