// internal/chat/routes.go

package chat

import (
	"github.com/gorilla/mux"

	"github.com/workswipe/workswipe-backend/internal/auth"
)

// RegisterRoutes registers all chat routes
func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/matches/{id}/messages", handler.ListMessages).Methods("GET")
	api.HandleFunc("/matches/{id}/messages", handler.SendMessage).Methods("POST")

	// WebSocket endpoint for live conversations
	api.HandleFunc("/ws", handler.ServeWS).Methods("GET")
}
